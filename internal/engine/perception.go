// Perception phase: builds each agent's view of the tick-start world.
// Views are read-only, exclude the observer, and are sorted by
// (distance, id), so the downstream decision phase is deterministic.
package engine

import (
	"sort"

	"github.com/talgya/eldoria/internal/agents"
	"github.com/talgya/eldoria/internal/world"
)

// perceive builds a Perception for every active hunter and knight.
func (s *Simulation) perceive() map[agents.EntityID]*agents.Perception {
	percs := make(map[agents.EntityID]*agents.Perception, len(s.hunterIDs)+len(s.knightIDs))

	for _, id := range s.hunterIDs {
		h := s.hunters[id]
		if !h.Alive {
			continue
		}
		percs[id] = s.observe(id, h.Pos, agents.SightRadius(s.cfg.Policy, h.Skill))
	}
	for _, id := range s.knightIDs {
		k := s.knights[id]
		if !k.Alive {
			continue
		}
		percs[id] = s.observe(id, k.Pos, s.cfg.Policy.KnightSight)
	}
	return percs
}

// observe scans the occupancy index within sight of pos. The observer
// never appears in its own view.
func (s *Simulation) observe(observer agents.EntityID, pos world.Coord, sight int) *agents.Perception {
	p := &agents.Perception{Observer: observer, Pos: pos, Sight: sight}

	cells := append([]world.Coord{pos}, s.grid.Neighbors(pos, sight)...)
	for _, c := range cells {
		for _, id := range s.occupancy[c] {
			if id == observer {
				continue
			}
			seen, ok := s.describe(id, c, s.grid.Distance(pos, c))
			if !ok {
				continue
			}
			switch seen.Kind {
			case agents.KindTreasure:
				p.Treasures = append(p.Treasures, seen)
			case agents.KindHunter:
				p.Hunters = append(p.Hunters, seen)
			case agents.KindKnight:
				p.Knights = append(p.Knights, seen)
			case agents.KindHideout:
				p.Hideouts = append(p.Hideouts, seen)
			}
		}
	}

	for _, list := range [][]agents.Seen{p.Treasures, p.Hunters, p.Knights, p.Hideouts} {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Distance != list[j].Distance {
				return list[i].Distance < list[j].Distance
			}
			return list[i].ID < list[j].ID
		})
	}
	return p
}

// describe projects an entity id into a Seen record.
func (s *Simulation) describe(id agents.EntityID, pos world.Coord, dist int) (agents.Seen, bool) {
	if t, ok := s.treasures[id]; ok {
		return agents.Seen{
			ID: id, Kind: agents.KindTreasure, Pos: pos, Distance: dist,
			Tier: t.Tier, Value: t.Value,
		}, true
	}
	if h, ok := s.hunters[id]; ok {
		return agents.Seen{
			ID: id, Kind: agents.KindHunter, Pos: pos, Distance: dist, TeamID: h.TeamID,
		}, true
	}
	if _, ok := s.knights[id]; ok {
		return agents.Seen{ID: id, Kind: agents.KindKnight, Pos: pos, Distance: dist}, true
	}
	if o, ok := s.hideouts[id]; ok {
		return agents.Seen{
			ID: id, Kind: agents.KindHideout, Pos: pos, Distance: dist, TeamID: o.TeamID,
		}, true
	}
	// Garrisons are scenery to everyone but their own knights.
	return agents.Seen{}, false
}
