package engine

import "github.com/talgya/eldoria/internal/agents"

// Event is a notable occurrence in the world, consumed by logging,
// persistence, and the observation API.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "collect", "deliver", "combat", "recruit", "resource"
}

// Collection records a treasure picked up off the grid this tick.
type Collection struct {
	TreasureID agents.EntityID     `json:"treasure_id"`
	HunterID   agents.EntityID     `json:"hunter_id"`
	Tier       agents.TreasureTier `json:"tier"`
	Value      float64             `json:"value"`
}

// Delivery records a carried treasure deposited at a team hideout.
type Delivery struct {
	TreasureID agents.EntityID `json:"treasure_id"`
	HunterID   agents.EntityID `json:"hunter_id"`
	TeamID     uint64          `json:"team_id"`
	Value      float64         `json:"value"` // Collection value credited to the team
}

// InactivationCause distinguishes how a hunter left the simulation.
type InactivationCause uint8

const (
	CauseCaptured InactivationCause = iota
	CauseCollapsed
)

func (c InactivationCause) String() string {
	if c == CauseCollapsed {
		return "collapsed"
	}
	return "captured"
}

// Inactivation records a hunter dropping out this tick. CreditKnight is the
// knight whose hit reduced the hunter to zero, or 0 for collapses.
type Inactivation struct {
	HunterID     agents.EntityID   `json:"hunter_id"`
	TeamID       uint64            `json:"team_id"`
	Cause        InactivationCause `json:"cause"`
	CreditKnight agents.EntityID   `json:"credit_knight,omitempty"`
}

// TickSummary is the immutable record of one tick. It is the only contract
// external consumers may depend on for scoring and statistics.
type TickSummary struct {
	Tick  uint64 `json:"tick"`
	Moves int    `json:"moves"`

	Collected   []Collection      `json:"collected,omitempty"`
	Delivered   []Delivery        `json:"delivered,omitempty"`
	Expired     []agents.EntityID `json:"expired,omitempty"`
	Inactivated []Inactivation    `json:"inactivated,omitempty"`
	Recruited   []agents.EntityID `json:"recruited,omitempty"`

	// TeamScores holds this tick's score deltas by team id.
	TeamScores map[uint64]float64 `json:"team_scores,omitempty"`

	Events []Event `json:"events,omitempty"`
}

// TreasuresCollected is the number of treasures picked up this tick.
func (s TickSummary) TreasuresCollected() int { return len(s.Collected) }

// TreasuresDelivered is the number of deliveries settled this tick.
func (s TickSummary) TreasuresDelivered() int { return len(s.Delivered) }
