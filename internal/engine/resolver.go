// Intent conflict resolution. resolveTick is a pure function of the intent
// set: it groups contested claims, picks winners with deterministic
// tie-breaks, and emits a conflict-free plan sorted by entity id, so the
// outcome never depends on the order intents were gathered in.
package engine

import (
	"sort"

	"github.com/talgya/eldoria/internal/agents"
)

// AttackHit is one knight's damage application against a hunter.
type AttackHit struct {
	Knight agents.EntityID
	Target agents.EntityID
	Damage float64
}

// resolvedTick is the conflict-free plan for one tick.
type resolvedTick struct {
	// pickups are collect winners standing on their treasure's cell.
	pickups []agents.Intent
	// moves covers move/patrol intents plus degraded collect claims.
	moves []agents.Intent
	// hits are ordered ascending by target id, then knight id, so damage
	// application and capture credit are reproducible.
	hits []AttackHit
	// rests lists agents doing nothing this tick.
	rests []agents.EntityID
}

// resolveTick settles the full intent set for a tick.
func resolveTick(intents []agents.Intent, attackDamage float64) resolvedTick {
	var out resolvedTick

	claims := make(map[agents.EntityID][]agents.Intent) // treasure id → collect claims
	for _, in := range intents {
		switch in.Kind {
		case agents.IntentCollect:
			claims[in.TargetID] = append(claims[in.TargetID], in)
		case agents.IntentAttack:
			out.hits = append(out.hits, AttackHit{
				Knight: in.Actor,
				Target: in.TargetID,
				Damage: attackDamage,
			})
		case agents.IntentMove, agents.IntentPatrol:
			out.moves = append(out.moves, in)
		default:
			out.rests = append(out.rests, in.Actor)
		}
	}

	// Settle each contested treasure independently.
	treasureIDs := make([]agents.EntityID, 0, len(claims))
	for id := range claims {
		treasureIDs = append(treasureIDs, id)
	}
	sort.Slice(treasureIDs, func(i, j int) bool { return treasureIDs[i] < treasureIDs[j] })

	for _, tid := range treasureIDs {
		winner := collectWinner(claims[tid])
		for _, claim := range claims[tid] {
			if claim.Actor == winner.Actor && claim.Distance == 0 {
				out.pickups = append(out.pickups, claim)
				continue
			}
			// Losers, and winners not yet on the cell, keep pursuing.
			out.moves = append(out.moves, agents.Intent{
				Actor:  claim.Actor,
				Kind:   agents.IntentMove,
				Target: claim.Target,
			})
		}
	}

	sort.Slice(out.pickups, func(i, j int) bool { return out.pickups[i].Actor < out.pickups[j].Actor })
	sort.Slice(out.moves, func(i, j int) bool { return out.moves[i].Actor < out.moves[j].Actor })
	sort.Slice(out.hits, func(i, j int) bool {
		if out.hits[i].Target != out.hits[j].Target {
			return out.hits[i].Target < out.hits[j].Target
		}
		return out.hits[i].Knight < out.hits[j].Knight
	})
	sort.Slice(out.rests, func(i, j int) bool { return out.rests[i] < out.rests[j] })

	return out
}

// collectWinner picks the winning claim on one treasure: shortest remaining
// distance, ties broken by lowest entity id.
func collectWinner(claims []agents.Intent) agents.Intent {
	best := claims[0]
	for _, c := range claims[1:] {
		if c.Distance < best.Distance || (c.Distance == best.Distance && c.Actor < best.Actor) {
			best = c
		}
	}
	return best
}
