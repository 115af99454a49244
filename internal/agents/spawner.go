// Entity spawning — builds the initial world population and issues every
// entity id. Placement is deterministic from the scenario seed: hideouts
// and garrisons are spread apart, knights muster at garrisons, hunters
// start at their team hideout, and treasure concentrates in rich regions
// of the noise field.
package agents

import (
	"math/rand"

	"github.com/talgya/eldoria/internal/scenario"
	"github.com/talgya/eldoria/internal/world"
)

// Spawner creates entities and owns the monotonic id counter.
type Spawner struct {
	rng    *rand.Rand
	nextID EntityID
}

// NewSpawner creates a spawner with its own seeded random source.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

// NextID issues a fresh entity id. IDs are never reused.
func (s *Spawner) NextID() EntityID {
	id := s.nextID
	s.nextID++
	return id
}

// Population is the complete entity set for a fresh scenario.
type Population struct {
	Hunters   []*Hunter
	Knights   []*Knight
	Treasures []*Treasure
	Hideouts  []*Hideout
	Garrisons []*Garrison
	Teams     []*Team
}

// SpawnWorld creates the initial population for the scenario.
func (s *Spawner) SpawnWorld(cfg *scenario.Config, g world.Grid, rich *world.RichnessField) *Population {
	pop := &Population{}

	// Fixed structures first, spread across the grid so teams and patrols
	// do not start stacked.
	structures := s.placeSpread(g, len(cfg.Teams)+cfg.NumGarrisons)

	for i, tc := range cfg.Teams {
		hideout := &Hideout{
			Entity: Entity{ID: s.NextID(), Kind: KindHideout, Pos: structures[i], Alive: true},
			TeamID: uint64(i + 1),
		}
		team := &Team{
			ID:        uint64(i + 1),
			Name:      tc.Name,
			HideoutID: hideout.ID,
		}
		pop.Hideouts = append(pop.Hideouts, hideout)
		pop.Teams = append(pop.Teams, team)
	}

	for i := 0; i < cfg.NumGarrisons; i++ {
		pop.Garrisons = append(pop.Garrisons, &Garrison{
			Entity:       Entity{ID: s.NextID(), Kind: KindGarrison, Pos: structures[len(cfg.Teams)+i], Alive: true},
			PatrolRadius: cfg.Combat.PatrolRadius,
			Capacity:     3,
		})
	}

	// Hunters round-robin across teams, starting at their hideout.
	for i := 0; i < cfg.NumHunters; i++ {
		team := pop.Teams[i%len(pop.Teams)]
		hideout := pop.Hideouts[i%len(pop.Hideouts)]
		h := s.SpawnHunter(cfg, team, hideout, cfg.Teams[i%len(cfg.Teams)].Skills)
		pop.Hunters = append(pop.Hunters, h)
	}

	// Knights round-robin across garrisons.
	for i := 0; i < cfg.NumKnights; i++ {
		garrison := pop.Garrisons[i%len(pop.Garrisons)]
		k := &Knight{
			Entity:      Entity{ID: s.NextID(), Kind: KindKnight, Pos: garrison.Pos, Alive: true},
			GarrisonID:  garrison.ID,
			GarrisonPos: garrison.Pos,
			Energy:      cfg.Resources.MaxEnergy,
		}
		garrison.KnightIDs = append(garrison.KnightIDs, k.ID)
		pop.Knights = append(pop.Knights, k)
	}

	for i := 0; i < cfg.NumTreasures; i++ {
		pop.Treasures = append(pop.Treasures, s.spawnTreasure(g, rich))
	}

	return pop
}

// SpawnHunter creates one hunter for a team at its hideout, drawing the
// skill from the team's spawn weights. Used at setup and for recruitment.
func (s *Spawner) SpawnHunter(cfg *scenario.Config, team *Team, hideout *Hideout, weights scenario.SkillWeights) *Hunter {
	h := &Hunter{
		Entity:    Entity{ID: s.NextID(), Kind: KindHunter, Pos: hideout.Pos, Alive: true},
		TeamID:    team.ID,
		Skill:     s.drawSkill(weights),
		Energy:    cfg.Resources.MaxEnergy,
		Stamina:   cfg.Resources.MaxStamina,
		HideoutID: hideout.ID,
		Home:      hideout.Pos,
	}
	team.HunterIDs = append(team.HunterIDs, h.ID)
	return h
}

func (s *Spawner) drawSkill(w scenario.SkillWeights) Skill {
	total := w.Navigation + w.Endurance + w.Stealth
	if total <= 0 {
		return AllSkills[s.rng.Intn(len(AllSkills))]
	}
	roll := s.rng.Intn(total)
	if roll < w.Navigation {
		return SkillNavigation
	}
	if roll < w.Navigation+w.Endurance {
		return SkillEndurance
	}
	return SkillStealth
}

// spawnTreasure places a treasure by rejection-sampling the richness field:
// rich cells both attract treasure and raise its tier.
func (s *Spawner) spawnTreasure(g world.Grid, rich *world.RichnessField) *Treasure {
	var pos world.Coord
	var r float64
	for attempt := 0; ; attempt++ {
		pos = world.Coord{X: s.rng.Intn(g.Width), Y: s.rng.Intn(g.Height)}
		r = rich.At(pos)
		if s.rng.Float64() < 0.15+0.85*r || attempt >= 50 {
			break
		}
	}

	tier := TierBronze
	roll := s.rng.Float64() * (0.5 + r)
	switch {
	case roll > 0.8:
		tier = TierGold
	case roll > 0.45:
		tier = TierSilver
	}

	return &Treasure{
		Entity: Entity{ID: s.NextID(), Kind: KindTreasure, Pos: pos, Alive: true},
		Tier:   tier,
		Value:  tier.BaseValue(),
	}
}

// placeSpread picks n cells, greedily keeping each new cell as far as
// possible from those already chosen (sampled candidates, best wins).
func (s *Spawner) placeSpread(g world.Grid, n int) []world.Coord {
	placed := make([]world.Coord, 0, n)
	for len(placed) < n {
		best := world.Coord{X: s.rng.Intn(g.Width), Y: s.rng.Intn(g.Height)}
		bestDist := -1
		for c := 0; c < 8; c++ {
			cand := world.Coord{X: s.rng.Intn(g.Width), Y: s.rng.Intn(g.Height)}
			d := minDistToAny(g, cand, placed)
			if d > bestDist {
				best, bestDist = cand, d
			}
		}
		placed = append(placed, best)
	}
	return placed
}

func minDistToAny(g world.Grid, c world.Coord, others []world.Coord) int {
	min := g.Width + g.Height
	for _, o := range others {
		if d := g.Distance(c, o); d < min {
			min = d
		}
	}
	return min
}
