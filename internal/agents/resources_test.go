package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/eldoria/internal/scenario"
)

func testResources() scenario.ResourceConfig {
	return scenario.ResourceConfig{
		MaxEnergy:  100,
		MaxStamina: 100,
		Costs: scenario.CostTable{
			Move:    2,
			Collect: 1,
			Attack:  4,
			Patrol:  2,
		},
		EnduranceDiscount: 0.5,
		RestRegen:         1,
		HideoutRegen:      10,
		GarrisonRegen:     10,
		CollapseTicks:     3,
	}
}

func TestActionCostSkillDiscount(t *testing.T) {
	cfg := testResources()

	assert.Equal(t, 2.0, ActionCost(cfg, IntentMove, SkillNavigation, true))
	assert.Equal(t, 1.0, ActionCost(cfg, IntentMove, SkillEndurance, true))
	// The discount applies to movement only.
	assert.Equal(t, 1.0, ActionCost(cfg, IntentCollect, SkillEndurance, true))
	// Knights never get the hunter discount.
	assert.Equal(t, 2.0, ActionCost(cfg, IntentPatrol, SkillEndurance, false))
	assert.Equal(t, 0.0, ActionCost(cfg, IntentRest, SkillNavigation, true))
}

func TestSpendStaminaInsufficient(t *testing.T) {
	h := &Hunter{Stamina: 1.5}

	require.ErrorIs(t, h.SpendStamina(2), ErrInsufficientResource)
	// Failed spend must not drain anything.
	assert.Equal(t, 1.5, h.Stamina)

	require.NoError(t, h.SpendStamina(1.5))
	assert.Equal(t, 0.0, h.Stamina)
}

func TestDamageClampsAndReportsKill(t *testing.T) {
	h := &Hunter{Energy: 50}

	assert.False(t, h.Damage(30))
	assert.Equal(t, 20.0, h.Energy)

	assert.True(t, h.Damage(40))
	assert.Equal(t, 0.0, h.Energy, "energy never goes negative")

	// Hitting an already-drained hunter stays at zero.
	assert.True(t, h.Damage(10))
	assert.Equal(t, 0.0, h.Energy)
}

func TestReplenishRespectsCaps(t *testing.T) {
	cfg := testResources()

	h := &Hunter{Energy: 95, Stamina: 99}
	h.Replenish(cfg, true)
	assert.Equal(t, 100.0, h.Energy)
	assert.Equal(t, 100.0, h.Stamina)

	// Away from the hideout only stamina trickles back.
	h2 := &Hunter{Energy: 50, Stamina: 50}
	h2.Replenish(cfg, false)
	assert.Equal(t, 50.0, h2.Energy)
	assert.Equal(t, 51.0, h2.Stamina)

	k := &Knight{Energy: 95}
	k.Replenish(cfg)
	assert.Equal(t, 100.0, k.Energy)
}
