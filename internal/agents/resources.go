// Resource accounting: deterministic drain and replenishment of hunter
// stamina and knight energy, clamped to [0, cap]. An action whose cost
// cannot be paid fails with ErrInsufficientResource and the engine
// downgrades it to rest for the tick.
package agents

import (
	"errors"

	"github.com/talgya/eldoria/internal/scenario"
)

// ErrInsufficientResource signals that an agent cannot afford an action.
// Recovered locally by downgrading the intent to rest; never surfaced to
// the engine's caller.
var ErrInsufficientResource = errors.New("insufficient resource")

// ActionCost returns the stamina (hunter) or energy (knight) price of an
// intent. Endurance hunters move at a discount.
func ActionCost(cfg scenario.ResourceConfig, kind IntentKind, skill Skill, isHunter bool) float64 {
	var cost float64
	switch kind {
	case IntentMove:
		cost = cfg.Costs.Move
	case IntentCollect:
		cost = cfg.Costs.Collect
	case IntentAttack:
		cost = cfg.Costs.Attack
	case IntentPatrol:
		cost = cfg.Costs.Patrol
	default:
		return 0
	}
	if isHunter && skill == SkillEndurance && (kind == IntentMove || kind == IntentPatrol) {
		cost *= cfg.EnduranceDiscount
	}
	return cost
}

// SpendStamina drains a hunter's stamina for an action, clamping at zero.
// Returns ErrInsufficientResource, without draining, when the hunter cannot
// pay the full cost.
func (h *Hunter) SpendStamina(cost float64) error {
	if cost < 0 {
		cost = 0
	}
	if h.Stamina < cost {
		return ErrInsufficientResource
	}
	h.Stamina -= cost
	if h.Stamina < 0 {
		h.Stamina = 0
	}
	return nil
}

// SpendEnergy drains a knight's energy for an action, clamping at zero.
func (k *Knight) SpendEnergy(cost float64) error {
	if cost < 0 {
		cost = 0
	}
	if k.Energy < cost {
		return ErrInsufficientResource
	}
	k.Energy -= cost
	if k.Energy < 0 {
		k.Energy = 0
	}
	return nil
}

// Damage removes energy from a hunter (knight hit), clamping at zero.
// Returns true if the hit dropped the hunter to zero.
func (h *Hunter) Damage(amount float64) bool {
	if amount < 0 {
		amount = 0
	}
	h.Energy -= amount
	if h.Energy <= 0 {
		h.Energy = 0
		return true
	}
	return false
}

// ReplenishHunter restores the hunter's resources for one tick.
// At its own hideout both stamina and energy recover at the hideout rate;
// resting elsewhere recovers stamina at the slower rest rate.
func (h *Hunter) Replenish(cfg scenario.ResourceConfig, atHideout bool) {
	if atHideout {
		h.Stamina = clampMax(h.Stamina+cfg.HideoutRegen, cfg.MaxStamina)
		h.Energy = clampMax(h.Energy+cfg.HideoutRegen, cfg.MaxEnergy)
		return
	}
	h.Stamina = clampMax(h.Stamina+cfg.RestRegen, cfg.MaxStamina)
}

// Replenish restores a knight's energy while garrisoned.
func (k *Knight) Replenish(cfg scenario.ResourceConfig) {
	k.Energy = clampMax(k.Energy+cfg.GarrisonRegen, cfg.MaxEnergy)
}

func clampMax(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}
