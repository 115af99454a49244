// Hunter memory of treasure sightings. Sightings age out after a TTL and
// the store is capped at the most recent entries, so stale intel cannot
// pile up. Hideouts pool sightings from visiting hunters and hand the
// union back out, which is how teams coordinate without shared state.
package agents

import "github.com/talgya/eldoria/internal/world"

// Sighting records a treasure seen at a position on a given tick.
type Sighting struct {
	TreasureID EntityID     `json:"treasure_id"`
	Pos        world.Coord  `json:"pos"`
	Tier       TreasureTier `json:"tier"`
	Tick       uint64       `json:"tick"`
}

// Memory is a hunter's bounded store of treasure sightings.
type Memory struct {
	Sightings []Sighting `json:"sightings,omitempty"`
}

// Remember records a sighting, replacing any earlier entry for the same
// treasure. A limit of zero disables the size cap.
func (m *Memory) Remember(s Sighting, limit int) {
	for i := range m.Sightings {
		if m.Sightings[i].TreasureID == s.TreasureID {
			m.Sightings[i] = s
			return
		}
	}
	m.Sightings = append(m.Sightings, s)
	if limit > 0 && len(m.Sightings) > limit {
		m.Sightings = m.Sightings[len(m.Sightings)-limit:]
	}
}

// Forget drops sightings older than ttl ticks as of now.
func (m *Memory) Forget(now, ttl uint64) {
	if ttl == 0 {
		return
	}
	kept := m.Sightings[:0]
	for _, s := range m.Sightings {
		if now-s.Tick <= ttl {
			kept = append(kept, s)
		}
	}
	m.Sightings = kept
}

// Drop removes the sighting for a treasure known to be gone.
func (m *Memory) Drop(id EntityID) {
	for i, s := range m.Sightings {
		if s.TreasureID == id {
			m.Sightings = append(m.Sightings[:i], m.Sightings[i+1:]...)
			return
		}
	}
}

// Nearest returns the remembered sighting closest to from, breaking
// distance ties by lowest treasure id.
func (m *Memory) Nearest(g world.Grid, from world.Coord) (Sighting, bool) {
	best := -1
	for i, s := range m.Sightings {
		if best == -1 {
			best = i
			continue
		}
		d, bd := g.Distance(from, s.Pos), g.Distance(from, m.Sightings[best].Pos)
		if d < bd || (d == bd && s.TreasureID < m.Sightings[best].TreasureID) {
			best = i
		}
	}
	if best == -1 {
		return Sighting{}, false
	}
	return m.Sightings[best], true
}

// Merge folds another sighting list into memory, keeping the newer entry
// per treasure. Used when a hideout shares its pooled knowledge.
func (m *Memory) Merge(other []Sighting, limit int) {
	for _, s := range other {
		replaced := false
		for i := range m.Sightings {
			if m.Sightings[i].TreasureID == s.TreasureID {
				if s.Tick > m.Sightings[i].Tick {
					m.Sightings[i] = s
				}
				replaced = true
				break
			}
		}
		if !replaced {
			m.Sightings = append(m.Sightings, s)
		}
	}
	if limit > 0 && len(m.Sightings) > limit {
		m.Sightings = m.Sightings[len(m.Sightings)-limit:]
	}
}
