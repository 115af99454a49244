// WorldView is the read-only projection handed to renderers, loggers, and
// the observation API. It copies out of the live state, so holding one
// across a Step never observes a half-applied tick.
package engine

import (
	"sort"

	"github.com/talgya/eldoria/internal/agents"
	"github.com/talgya/eldoria/internal/world"
)

// EntityView is one entity's externally visible state.
type EntityView struct {
	ID      agents.EntityID `json:"id"`
	Kind    string          `json:"kind"`
	Pos     world.Coord     `json:"pos"`
	Alive   bool            `json:"alive"`
	Energy  float64         `json:"energy,omitempty"`
	Stamina float64         `json:"stamina,omitempty"`
	TeamID  uint64          `json:"team_id,omitempty"`
	Skill   string          `json:"skill,omitempty"`
	Tier    string          `json:"tier,omitempty"`
	Value   float64         `json:"value,omitempty"`
	State   string          `json:"state,omitempty"`
}

// TeamView is one team's externally visible standing.
type TeamView struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	ActiveHunters int     `json:"active_hunters"`
	Stored        int     `json:"stored"`
}

// WorldView is an immutable snapshot of the world after a tick.
type WorldView struct {
	Tick     uint64       `json:"tick"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Entities []EntityView `json:"entities"`
	Teams    []TeamView   `json:"teams"`
	Terminal bool         `json:"terminal"`
}

// Snapshot projects the current world state. Views are sorted by entity id.
func (s *Simulation) Snapshot() WorldView {
	v := WorldView{
		Tick:     s.tick,
		Width:    s.grid.Width,
		Height:   s.grid.Height,
		Terminal: s.Terminal(),
	}

	for _, o := range s.hideouts {
		v.Entities = append(v.Entities, EntityView{
			ID: o.ID, Kind: o.Kind.String(), Pos: o.Pos, Alive: o.Alive, TeamID: o.TeamID,
		})
	}
	for _, g := range s.garrisons {
		v.Entities = append(v.Entities, EntityView{
			ID: g.ID, Kind: g.Kind.String(), Pos: g.Pos, Alive: g.Alive,
		})
	}
	for _, t := range s.treasures {
		v.Entities = append(v.Entities, EntityView{
			ID: t.ID, Kind: t.Kind.String(), Pos: t.Pos, Alive: t.Alive,
			Tier: t.Tier.String(), Value: t.Value, State: treasureStateName(t.State),
		})
	}
	for _, h := range s.hunters {
		v.Entities = append(v.Entities, EntityView{
			ID: h.ID, Kind: h.Kind.String(), Pos: h.Pos, Alive: h.Alive,
			Energy: h.Energy, Stamina: h.Stamina, TeamID: h.TeamID, Skill: h.Skill.String(),
		})
	}
	for _, k := range s.knights {
		v.Entities = append(v.Entities, EntityView{
			ID: k.ID, Kind: k.Kind.String(), Pos: k.Pos, Alive: k.Alive, Energy: k.Energy,
		})
	}
	sort.Slice(v.Entities, func(i, j int) bool { return v.Entities[i].ID < v.Entities[j].ID })

	for _, tid := range s.teamIDs {
		team := s.teams[tid]
		active := 0
		for _, hid := range team.HunterIDs {
			if h, ok := s.hunters[hid]; ok && h.Alive {
				active++
			}
		}
		v.Teams = append(v.Teams, TeamView{
			ID:            team.ID,
			Name:          team.Name,
			Score:         team.Score,
			ActiveHunters: active,
			Stored:        s.hideouts[team.HideoutID].Stored,
		})
	}
	return v
}

func treasureStateName(st agents.TreasureState) string {
	switch st {
	case agents.TreasureCarried:
		return "carried"
	case agents.TreasureDelivered:
		return "delivered"
	case agents.TreasureExpired:
		return "expired"
	default:
		return "on_grid"
	}
}

// RecentEvents returns up to limit of the newest world events.
func (s *Simulation) RecentEvents(limit int) []Event {
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]Event, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out
}

// TreasureCensus counts treasures by lifecycle state plus the lifetime
// spawn total; the four buckets always sum to the total.
type TreasureCensus struct {
	OnGrid    int `json:"on_grid"`
	Carried   int `json:"carried"`
	Delivered int `json:"delivered"`
	Expired   int `json:"expired"`
	Spawned   int `json:"spawned"`
}

// Census tallies the treasure conservation buckets.
func (s *Simulation) Census() TreasureCensus {
	c := TreasureCensus{Spawned: s.spawnedTreasures}
	for _, t := range s.treasures {
		switch t.State {
		case agents.TreasureOnGrid:
			c.OnGrid++
		case agents.TreasureCarried:
			c.Carried++
		case agents.TreasureDelivered:
			c.Delivered++
		case agents.TreasureExpired:
			c.Expired++
		}
	}
	return c
}
