package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNormalizesIntoBounds(t *testing.T) {
	g := NewGrid(10, 8)

	cases := []struct {
		name string
		in   Coord
		want Coord
	}{
		{"identity", Coord{3, 4}, Coord{3, 4}},
		{"positive overflow", Coord{13, 9}, Coord{3, 1}},
		{"negative", Coord{-1, -1}, Coord{9, 7}},
		{"large negative", Coord{-23, -17}, Coord{7, 7}},
		{"exact width", Coord{10, 8}, Coord{0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Wrap(tc.in))
		})
	}
}

func TestWrapCongruence(t *testing.T) {
	g := NewGrid(7, 5)
	for _, d := range []Coord{{-13, 11}, {100, -100}, {6, 4}, {-7, -5}} {
		c := Coord{2, 3}
		w := g.Wrap(Coord{c.X + d.X, c.Y + d.Y})
		require.GreaterOrEqual(t, w.X, 0)
		require.Less(t, w.X, g.Width)
		require.GreaterOrEqual(t, w.Y, 0)
		require.Less(t, w.Y, g.Height)
		assert.Equal(t, wrapInt(c.X+d.X, g.Width), w.X)
		assert.Equal(t, wrapInt(c.Y+d.Y, g.Height), w.Y)
	}
}

func TestDistanceWrapsAroundEdges(t *testing.T) {
	g := NewGrid(10, 10)

	// Corner to corner is one diagonal step across the seam.
	assert.Equal(t, 1, g.Distance(Coord{0, 0}, Coord{9, 9}))
	assert.Equal(t, 0, g.Distance(Coord{4, 4}, Coord{4, 4}))
	assert.Equal(t, 5, g.Distance(Coord{0, 0}, Coord{5, 5}))
	// Chebyshev: diagonal moves count once.
	assert.Equal(t, 3, g.Distance(Coord{1, 1}, Coord{4, 3}))
}

func TestDistanceSymmetric(t *testing.T) {
	g := NewGrid(9, 6)
	pts := []Coord{{0, 0}, {8, 5}, {4, 2}, {1, 5}}
	for _, a := range pts {
		for _, b := range pts {
			assert.Equal(t, g.Distance(a, b), g.Distance(b, a), "distance(%v,%v)", a, b)
		}
	}
}

func TestNeighborsRadiusOne(t *testing.T) {
	g := NewGrid(10, 10)
	n := g.Neighbors(Coord{0, 0}, 1)
	require.Len(t, n, 8)
	assert.Contains(t, n, Coord{9, 9})
	assert.Contains(t, n, Coord{1, 1})
	assert.NotContains(t, n, Coord{0, 0})
}

func TestNeighborsCappedOnSmallGrid(t *testing.T) {
	g := NewGrid(3, 3)
	n := g.Neighbors(Coord{1, 1}, 5)
	// Radius caps at 1 on a 3x3 torus; every other cell appears exactly once.
	require.Len(t, n, 8)
	seen := map[Coord]bool{}
	for _, c := range n {
		assert.False(t, seen[c], "duplicate neighbor %v", c)
		seen[c] = true
	}
}

func TestNeighborsEvenGridSeamAppearsOnce(t *testing.T) {
	g := NewGrid(10, 10)
	n := g.Neighbors(Coord{0, 0}, 5)
	// A radius-5 scan laps a 10x10 torus: every cell but the origin,
	// with the half-width seam counted a single time.
	require.Len(t, n, 99)
	seen := map[Coord]bool{}
	for _, c := range n {
		assert.False(t, seen[c], "duplicate neighbor %v", c)
		seen[c] = true
	}
	for _, seam := range []Coord{{5, 0}, {0, 5}, {5, 5}} {
		assert.True(t, seen[seam], "seam cell %v missing", seam)
		assert.Equal(t, 5, g.Distance(Coord{0, 0}, seam))
	}
}

func TestStepTowardConverges(t *testing.T) {
	g := NewGrid(10, 10)
	pos := Coord{0, 0}
	target := Coord{9, 9}
	for i := 0; i < 10 && pos != target; i++ {
		next := g.StepToward(pos, target)
		assert.Less(t, g.Distance(next, target), g.Distance(pos, target))
		pos = next
	}
	assert.Equal(t, target, pos)
	assert.Equal(t, target, g.StepToward(target, target))
}

func TestRichnessFieldDeterministicAndPeriodic(t *testing.T) {
	g := NewGrid(12, 9)
	a := NewRichnessField(g, 42)
	b := NewRichnessField(g, 42)

	for _, c := range []Coord{{0, 0}, {5, 3}, {11, 8}} {
		v := a.At(c)
		assert.Equal(t, v, b.At(c))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		// Periodic: sampling past an edge lands on the wrapped cell.
		assert.Equal(t, v, a.At(Coord{c.X + g.Width, c.Y - g.Height}))
	}

	other := NewRichnessField(g, 7)
	diff := false
	for x := 0; x < g.Width; x++ {
		if a.At(Coord{x, 0}) != other.At(Coord{x, 0}) {
			diff = true
			break
		}
	}
	assert.True(t, diff, "different seeds should differ somewhere")
}
