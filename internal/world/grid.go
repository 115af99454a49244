// Package world provides the toroidal grid and spatial math for Eldoria.
// All coordinates are normalized into [0,W)×[0,H); distance is Chebyshev
// on wrapped deltas, matching 8-way unit-cost movement.
package world

import "fmt"

// Coord is a normalized position on the grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is a wraparound 2D coordinate space. It holds no entities — occupancy
// is owned by the engine, which rebuilds its index each tick.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewGrid creates a toroidal grid of the given dimensions.
// Dimensions must be positive; scenario validation enforces this earlier.
func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height}
}

// Wrap normalizes any coordinate, including negative displacements,
// into grid bounds.
func (g Grid) Wrap(c Coord) Coord {
	return Coord{X: wrapInt(c.X, g.Width), Y: wrapInt(c.Y, g.Height)}
}

func wrapInt(v, n int) int {
	return ((v % n) + n) % n
}

// Delta returns the signed shortest wrapped displacement from a to b,
// each component in (-n/2, n/2].
func (g Grid) Delta(a, b Coord) (dx, dy int) {
	return shortestDelta(a.X, b.X, g.Width), shortestDelta(a.Y, b.Y, g.Height)
}

func shortestDelta(from, to, n int) int {
	d := wrapInt(to-from, n)
	if d > n/2 {
		d -= n
	}
	return d
}

// Distance returns the wrapped Chebyshev distance between two coordinates.
func (g Grid) Distance(a, b Coord) int {
	dx, dy := g.Delta(a, b)
	return maxInt(absInt(dx), absInt(dy))
}

// Neighbors returns every cell within Chebyshev distance radius of pos,
// wrapped, excluding pos itself, each cell exactly once. Order is
// row-major over the offset ranges so callers iterating the result stay
// deterministic.
func (g Grid) Neighbors(pos Coord, radius int) []Coord {
	if radius <= 0 {
		return nil
	}
	xlo, xhi := offsetSpan(radius, g.Width)
	ylo, yhi := offsetSpan(radius, g.Height)
	out := make([]Coord, 0, (xhi-xlo+1)*(yhi-ylo+1)-1)
	for dy := ylo; dy <= yhi; dy++ {
		for dx := xlo; dx <= xhi; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, g.Wrap(Coord{X: pos.X + dx, Y: pos.Y + dy}))
		}
	}
	return out
}

// offsetSpan clamps the offset range [-radius, radius] to at most n
// consecutive values. On even-dimension grids the seam offsets -n/2 and
// +n/2 wrap to the same cell, so the range keeps only the former.
func offsetSpan(radius, n int) (lo, hi int) {
	if 2*radius+1 <= n {
		return -radius, radius
	}
	lo = -(n / 2)
	return lo, lo + n - 1
}

// StepToward returns pos advanced one 8-way step toward target along the
// shortest wrapped path. Each axis moves independently by the sign of its
// shortest delta, so the step is unique and deterministic. Returns pos
// unchanged when already at target.
func (g Grid) StepToward(pos, target Coord) Coord {
	dx, dy := g.Delta(pos, target)
	return g.Wrap(Coord{X: pos.X + signInt(dx), Y: pos.Y + signInt(dy)})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func signInt(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
