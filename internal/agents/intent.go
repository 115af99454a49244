package agents

import "github.com/talgya/eldoria/internal/world"

// IntentKind enumerates the actions an agent can propose for a tick.
type IntentKind uint8

const (
	IntentRest IntentKind = iota
	IntentMove
	IntentCollect
	IntentAttack
	IntentPatrol
)

func (k IntentKind) String() string {
	switch k {
	case IntentMove:
		return "move"
	case IntentCollect:
		return "collect"
	case IntentAttack:
		return "attack"
	case IntentPatrol:
		return "patrol"
	default:
		return "rest"
	}
}

// Intent is an agent's proposed action for the current tick. It is subject
// to resolution (contested claims) and validation before being applied.
type Intent struct {
	Actor EntityID
	Kind  IntentKind

	// Target is the destination cell for move/patrol, or the cell of the
	// collect/attack target.
	Target world.Coord

	// TargetID identifies the treasure (collect) or hunter (attack).
	TargetID EntityID

	// Distance is the actor's wrapped distance to the target at decision
	// time; the resolver breaks contested claims with it.
	Distance int
}

// Rest builds the universal fallback intent. An agent with no affordable
// or sensible action always rests, never errors.
func Rest(actor EntityID) Intent {
	return Intent{Actor: actor, Kind: IntentRest}
}
