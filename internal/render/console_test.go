package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/eldoria/internal/engine"
	"github.com/talgya/eldoria/internal/world"
)

func TestFrameGlyphPlacement(t *testing.T) {
	v := engine.WorldView{
		Tick:   3,
		Width:  4,
		Height: 3,
		Entities: []engine.EntityView{
			{ID: 1, Kind: "H", Pos: world.Coord{X: 0, Y: 0}, Alive: true},
			{ID: 2, Kind: "T", Pos: world.Coord{X: 2, Y: 1}, Alive: true, State: "on_grid"},
			{ID: 3, Kind: "T", Pos: world.Coord{X: 3, Y: 2}, Alive: true, State: "carried"},
			{ID: 4, Kind: "K", Pos: world.Coord{X: 1, Y: 2}, Alive: true},
			{ID: 5, Kind: "H", Pos: world.Coord{X: 3, Y: 0}, Alive: false},
		},
		Teams: []engine.TeamView{{ID: 1, Name: "Dawn", Score: 103, ActiveHunters: 1}},
	}

	out := Frame(v)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "tick 3", lines[0])
	assert.Equal(t, "|H . . .|", lines[2])
	assert.Equal(t, "|. . T .|", lines[3])
	assert.Equal(t, "|. K . .|", lines[4], "carried treasure and dead hunter stay hidden")
	assert.Contains(t, out, "Dawn")
}

func TestFrameStackedCellShowsAgent(t *testing.T) {
	pos := world.Coord{X: 1, Y: 1}
	v := engine.WorldView{
		Width:  3,
		Height: 3,
		Entities: []engine.EntityView{
			{ID: 1, Kind: "T", Pos: pos, Alive: true, State: "on_grid"},
			{ID: 2, Kind: "H", Pos: pos, Alive: true},
		},
	}
	assert.Contains(t, Frame(v), "|. H .|")
}

func TestEventsTail(t *testing.T) {
	events := []engine.Event{
		{Tick: 1, Category: "collect", Description: "a"},
		{Tick: 2, Category: "deliver", Description: "b"},
		{Tick: 3, Category: "combat", Description: "c"},
	}
	out := Events(events, 2)
	assert.NotContains(t, out, "[1]")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "[3]")
}
