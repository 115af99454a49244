// Perception view types. The engine builds a Perception per agent from the
// tick-start world state; policies consume it read-only. Views are sorted
// by (distance, id) so downstream choices are deterministic.
package agents

import "github.com/talgya/eldoria/internal/world"

// Seen is one entity visible to an observer, tagged with kind, position,
// and wrapped distance. Value and Tier are set for treasures, TeamID for
// hunters and hideouts.
type Seen struct {
	ID       EntityID
	Kind     Kind
	Pos      world.Coord
	Distance int
	Tier     TreasureTier
	Value    float64
	TeamID   uint64
}

// Perception is everything one agent can see this tick. The observer is
// never included in its own view.
type Perception struct {
	Observer EntityID
	Pos      world.Coord
	Sight    int

	Treasures []Seen
	Hunters   []Seen
	Knights   []Seen
	Hideouts  []Seen
}

// KnightsWithin counts perceived knights within radius of a cell.
// Stealth hunters use it to score treasures by nearby danger.
func (p *Perception) KnightsWithin(g world.Grid, c world.Coord, radius int) int {
	n := 0
	for _, k := range p.Knights {
		if g.Distance(k.Pos, c) <= radius {
			n++
		}
	}
	return n
}
