package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/eldoria/internal/scenario"
	"github.com/talgya/eldoria/internal/world"
)

func TestSpawnWorldCountsAndPlacement(t *testing.T) {
	cfg := scenario.Default()
	g := world.NewGrid(cfg.GridWidth, cfg.GridHeight)
	rich := world.NewRichnessField(g, cfg.Seed)

	pop := NewSpawner(cfg.Seed).SpawnWorld(cfg, g, rich)

	require.Len(t, pop.Hideouts, len(cfg.Teams))
	require.Len(t, pop.Teams, len(cfg.Teams))
	require.Len(t, pop.Garrisons, cfg.NumGarrisons)
	require.Len(t, pop.Hunters, cfg.NumHunters)
	require.Len(t, pop.Knights, cfg.NumKnights)
	require.Len(t, pop.Treasures, cfg.NumTreasures)

	// Hunters start at their team hideout with full resources.
	hideoutByID := map[EntityID]*Hideout{}
	for _, o := range pop.Hideouts {
		hideoutByID[o.ID] = o
	}
	for _, h := range pop.Hunters {
		require.Contains(t, hideoutByID, h.HideoutID)
		assert.Equal(t, hideoutByID[h.HideoutID].Pos, h.Pos)
		assert.Equal(t, h.Home, h.Pos)
		assert.Equal(t, cfg.Resources.MaxEnergy, h.Energy)
		assert.Equal(t, cfg.Resources.MaxStamina, h.Stamina)
	}

	// Knights start garrisoned.
	for _, k := range pop.Knights {
		assert.Equal(t, k.GarrisonPos, k.Pos)
		assert.Equal(t, cfg.Resources.MaxEnergy, k.Energy)
	}
}

func TestSpawnerIDsUniqueAndMonotonic(t *testing.T) {
	cfg := scenario.Default()
	g := world.NewGrid(cfg.GridWidth, cfg.GridHeight)
	pop := NewSpawner(cfg.Seed).SpawnWorld(cfg, g, world.NewRichnessField(g, cfg.Seed))

	seen := map[EntityID]bool{}
	check := func(id EntityID) {
		require.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}
	for _, e := range pop.Hideouts {
		check(e.ID)
	}
	for _, e := range pop.Garrisons {
		check(e.ID)
	}
	for _, e := range pop.Hunters {
		check(e.ID)
	}
	for _, e := range pop.Knights {
		check(e.ID)
	}
	for _, e := range pop.Treasures {
		check(e.ID)
	}
}

func TestSpawnWorldDeterministic(t *testing.T) {
	cfg := scenario.Default()
	g := world.NewGrid(cfg.GridWidth, cfg.GridHeight)

	a := NewSpawner(cfg.Seed).SpawnWorld(cfg, g, world.NewRichnessField(g, cfg.Seed))
	b := NewSpawner(cfg.Seed).SpawnWorld(cfg, g, world.NewRichnessField(g, cfg.Seed))

	require.Equal(t, len(a.Treasures), len(b.Treasures))
	for i := range a.Treasures {
		assert.Equal(t, a.Treasures[i].Pos, b.Treasures[i].Pos)
		assert.Equal(t, a.Treasures[i].Tier, b.Treasures[i].Tier)
	}
	for i := range a.Hunters {
		assert.Equal(t, a.Hunters[i].Skill, b.Hunters[i].Skill)
	}
}

func TestDrawSkillRespectsZeroWeights(t *testing.T) {
	s := NewSpawner(1)
	for i := 0; i < 20; i++ {
		sk := s.drawSkill(scenario.SkillWeights{Stealth: 5})
		assert.Equal(t, SkillStealth, sk)
	}
}
