// Per-variant decision policies. Policies are pure functions of the agent,
// its perception, the scenario tuning, and an explicitly seeded random
// source: they propose intents and mutate nothing. The engine validates and
// applies what they return.
package agents

import (
	"math/rand"

	"github.com/talgya/eldoria/internal/scenario"
	"github.com/talgya/eldoria/internal/world"
)

// SightRadius returns a hunter's effective sight. Navigation hunters see
// farther.
func SightRadius(cfg scenario.PolicyConfig, skill Skill) int {
	r := cfg.HunterSight
	if skill == SkillNavigation {
		r += cfg.NavigationSightBonus
	}
	return r
}

// DecideHunter proposes a hunter's intent for the tick.
//
// Priority order: carry treasure home, flee home when resources run low,
// claim a visible treasure, chase a remembered sighting, otherwise explore.
func DecideHunter(h *Hunter, p *Perception, cfg *scenario.Config, g world.Grid, rng *rand.Rand) Intent {
	if !h.Alive {
		return Rest(h.ID)
	}

	// Zero stamina means the hunter cannot act at all this tick; the
	// engine runs the collapse countdown.
	if h.Stamina <= 0 {
		return Rest(h.ID)
	}

	if h.IsCarrying() {
		if h.Pos == h.Home {
			// Delivery happens in the apply phase; nothing else to do.
			return Rest(h.ID)
		}
		return Intent{Actor: h.ID, Kind: IntentMove, Target: h.Home}
	}

	lowEnergy := h.Energy <= cfg.Policy.LowEnergyFrac*cfg.Resources.MaxEnergy
	lowStamina := h.Stamina <= cfg.Policy.LowStaminaFrac*cfg.Resources.MaxStamina
	if lowEnergy || lowStamina {
		if h.Pos == h.Home {
			return Rest(h.ID)
		}
		return Intent{Actor: h.ID, Kind: IntentMove, Target: h.Home}
	}

	if target, ok := chooseTreasure(h, p, cfg, g); ok {
		return Intent{
			Actor:    h.ID,
			Kind:     IntentCollect,
			Target:   target.Pos,
			TargetID: target.ID,
			Distance: target.Distance,
		}
	}

	if s, ok := h.Memory.Nearest(g, h.Pos); ok && s.Pos != h.Pos {
		return Intent{Actor: h.ID, Kind: IntentMove, Target: s.Pos}
	}

	return explore(h.ID, h.Pos, g, rng)
}

// chooseTreasure scores visible treasures by the hunter's skill and returns
// the best, if any. Scoring is deterministic; ties fall to the lower id.
func chooseTreasure(h *Hunter, p *Perception, cfg *scenario.Config, g world.Grid) (Seen, bool) {
	bestIdx := -1
	bestScore := 0.0
	for i, t := range p.Treasures {
		score := treasureScore(h.Skill, t, p, cfg, g)
		if bestIdx == -1 || score > bestScore ||
			(score == bestScore && t.ID < p.Treasures[bestIdx].ID) {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx == -1 {
		return Seen{}, false
	}
	return p.Treasures[bestIdx], true
}

func treasureScore(skill Skill, t Seen, p *Perception, cfg *scenario.Config, g world.Grid) float64 {
	switch skill {
	case SkillEndurance:
		// Value hunters: a far gold bar beats a near bronze coin.
		return t.Value*cfg.Policy.EnduranceValueWeight - float64(t.Distance)*5
	case SkillStealth:
		near := p.KnightsWithin(g, t.Pos, cfg.Policy.KnightSight)
		return t.Value - float64(t.Distance)*10 - float64(near)*cfg.Policy.StealthKnightPenalty
	default:
		// Navigation: proximity dominates, value breaks near-ties.
		return -float64(t.Distance)*100 + t.Value*0.1
	}
}

// explore proposes a random 8-way step from the seeded source.
func explore(actor EntityID, pos world.Coord, g world.Grid, rng *rand.Rand) Intent {
	dirs := [8][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	d := dirs[rng.Intn(len(dirs))]
	return Intent{
		Actor:  actor,
		Kind:   IntentMove,
		Target: g.Wrap(world.Coord{X: pos.X + d[0], Y: pos.Y + d[1]}),
	}
}

// DecideKnight proposes a knight's intent for the tick.
//
// Priority order: rest while garrisoned and recovering, return to the
// garrison on low energy, intercept the nearest visible hunter, otherwise
// patrol a cell near the garrison.
func DecideKnight(k *Knight, p *Perception, cfg *scenario.Config, g world.Grid, rng *rand.Rand) Intent {
	if !k.Alive {
		return Rest(k.ID)
	}

	if k.Resting {
		return Rest(k.ID)
	}

	if k.Energy <= cfg.Policy.KnightLowEnergyFrac*cfg.Resources.MaxEnergy {
		if k.Pos == k.GarrisonPos {
			return Rest(k.ID)
		}
		return Intent{Actor: k.ID, Kind: IntentMove, Target: k.GarrisonPos}
	}

	if target, ok := nearestHunter(p); ok {
		if target.Distance <= cfg.Combat.AttackRange {
			return Intent{
				Actor:    k.ID,
				Kind:     IntentAttack,
				Target:   target.Pos,
				TargetID: target.ID,
				Distance: target.Distance,
			}
		}
		// Close the gap first.
		return Intent{Actor: k.ID, Kind: IntentMove, Target: target.Pos}
	}

	// Patrol: pick a cell within the patrol radius of the garrison.
	r := cfg.Combat.PatrolRadius
	target := g.Wrap(world.Coord{
		X: k.GarrisonPos.X + rng.Intn(2*r+1) - r,
		Y: k.GarrisonPos.Y + rng.Intn(2*r+1) - r,
	})
	if target == k.Pos {
		return Rest(k.ID)
	}
	return Intent{Actor: k.ID, Kind: IntentPatrol, Target: target}
}

// nearestHunter picks the closest perceived hunter; distance ties go to
// the lowest entity id.
func nearestHunter(p *Perception) (Seen, bool) {
	best := -1
	for i, h := range p.Hunters {
		if best == -1 {
			best = i
			continue
		}
		b := p.Hunters[best]
		if h.Distance < b.Distance || (h.Distance == b.Distance && h.ID < b.ID) {
			best = i
		}
	}
	if best == -1 {
		return Seen{}, false
	}
	return p.Hunters[best], true
}
