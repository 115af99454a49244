// Package render draws the world as an ASCII grid for terminal runs.
// Glyphs: T treasure, O hideout, G garrison, H hunter, K knight.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/eldoria/internal/engine"
)

// drawOrder ranks glyphs on a shared cell; the highest wins.
var drawOrder = map[string]int{
	"G": 1,
	"O": 2,
	"T": 3,
	"H": 4,
	"K": 5,
}

// Frame renders one snapshot as a bordered grid with a standings footer.
func Frame(v engine.WorldView) string {
	cells := make([]string, v.Width*v.Height)
	for i := range cells {
		cells[i] = "."
	}
	for _, e := range v.Entities {
		if !e.Alive {
			continue
		}
		if e.State != "" && e.State != "on_grid" {
			continue // carried and settled treasures are off the board
		}
		idx := e.Pos.Y*v.Width + e.Pos.X
		if drawOrder[e.Kind] > drawOrder[cells[idx]] {
			cells[idx] = e.Kind
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "tick %d", v.Tick)
	if v.Terminal {
		b.WriteString(" (finished)")
	}
	b.WriteByte('\n')

	border := "+" + strings.Repeat("-", v.Width*2-1) + "+\n"
	b.WriteString(border)
	for y := 0; y < v.Height; y++ {
		b.WriteByte('|')
		for x := 0; x < v.Width; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(cells[y*v.Width+x])
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)

	teams := make([]engine.TeamView, len(v.Teams))
	copy(teams, v.Teams)
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Score != teams[j].Score {
			return teams[i].Score > teams[j].Score
		}
		return teams[i].ID < teams[j].ID
	})
	for _, t := range teams {
		fmt.Fprintf(&b, "%-12s %8.1f  hunters %d  stored %d\n",
			t.Name, t.Score, t.ActiveHunters, t.Stored)
	}
	return b.String()
}

// Events formats recent events, oldest first, for printing under a frame.
func Events(events []engine.Event, limit int) string {
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "[%d] %-8s %s\n", e.Tick, e.Category, e.Description)
	}
	return b.String()
}
