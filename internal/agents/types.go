// Package agents provides the entity model, resource accounting, perception
// views, and per-variant decision policies for the Eldoria simulation.
// The engine owns every entity; everything here refers across entities by id.
package agents

import (
	"github.com/talgya/eldoria/internal/world"
)

// EntityID uniquely identifies an entity for its whole lifetime.
// IDs are issued monotonically by the Spawner and never reused.
type EntityID uint64

// Kind tags the closed set of entity variants.
type Kind uint8

const (
	KindTreasure Kind = iota
	KindHideout
	KindGarrison
	KindHunter
	KindKnight
)

// String returns the map glyph for a kind (matches the console renderer).
func (k Kind) String() string {
	switch k {
	case KindTreasure:
		return "T"
	case KindHideout:
		return "O"
	case KindGarrison:
		return "G"
	case KindHunter:
		return "H"
	case KindKnight:
		return "K"
	default:
		return "?"
	}
}

// Entity is the capability set shared by every variant.
type Entity struct {
	ID    EntityID    `json:"id"`
	Kind  Kind        `json:"kind"`
	Pos   world.Coord `json:"pos"`
	Alive bool        `json:"alive"`
}

// TreasureTier orders treasures by base value.
type TreasureTier uint8

const (
	TierBronze TreasureTier = iota + 1
	TierSilver
	TierGold
)

// BaseValue is the tier's starting value: bronze 100, silver 200, gold 300.
func (t TreasureTier) BaseValue() float64 {
	return float64(t) * 100
}

// GainFrac is the bonus fraction applied to a treasure's value on delivery.
func (t TreasureTier) GainFrac() float64 {
	switch t {
	case TierSilver:
		return 0.07
	case TierGold:
		return 0.13
	default:
		return 0.03
	}
}

func (t TreasureTier) String() string {
	switch t {
	case TierSilver:
		return "silver"
	case TierGold:
		return "gold"
	default:
		return "bronze"
	}
}

// TreasureState tracks where a treasure is in its lifecycle. The engine is
// the only writer; the states partition the conservation invariant
// (on grid + carried + delivered + expired == spawned).
type TreasureState uint8

const (
	TreasureOnGrid TreasureState = iota
	TreasureCarried
	TreasureDelivered
	TreasureExpired
)

// Treasure sits on the grid until claimed, then is carried and delivered.
type Treasure struct {
	Entity
	Tier  TreasureTier  `json:"tier"`
	Value float64       `json:"value"`
	State TreasureState `json:"state"`
}

// CollectionValue is what a delivery credits the team: current value plus
// the tier gain.
func (t *Treasure) CollectionValue() float64 {
	return t.Value * (1 + t.Tier.GainFrac())
}

// Hunter is a mobile agent hunting treasure for its team.
type Hunter struct {
	Entity
	TeamID  uint64  `json:"team_id"`
	Skill   Skill   `json:"skill"`
	Energy  float64 `json:"energy"`
	Stamina float64 `json:"stamina"`

	// HideoutID and Home identify the team hideout this hunter delivers to.
	HideoutID EntityID    `json:"hideout_id"`
	Home      world.Coord `json:"home"`

	// Carrying is the claimed treasure in transport, if any.
	Carrying *EntityID `json:"carrying,omitempty"`

	// CollapseTicks counts consecutive ticks spent at zero stamina.
	CollapseTicks int `json:"collapse_ticks"`

	Memory Memory `json:"memory"`
}

// IsCarrying reports whether the hunter has a claimed treasure in transport.
func (h *Hunter) IsCarrying() bool { return h.Carrying != nil }

// Knight patrols around its garrison and intercepts hunters.
type Knight struct {
	Entity
	GarrisonID  EntityID    `json:"garrison_id"`
	GarrisonPos world.Coord `json:"garrison_pos"`
	Energy      float64     `json:"energy"`
	Resting     bool        `json:"resting"`
}

// Hideout is a team's fixed base. Never destroyed during a run.
type Hideout struct {
	Entity
	TeamID      uint64  `json:"team_id"`
	Stored      int     `json:"stored"`
	StoredValue float64 `json:"stored_value"`

	// Known holds treasure sightings pooled from visiting hunters.
	Known []Sighting `json:"known,omitempty"`
}

// Garrison is where knights muster and replenish.
type Garrison struct {
	Entity
	PatrolRadius int        `json:"patrol_radius"`
	Capacity     int        `json:"capacity"`
	KnightIDs    []EntityID `json:"knight_ids"`
}

// Team is a derived view over its hunters; it owns no grid cells.
type Team struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	HideoutID EntityID   `json:"hideout_id"`
	HunterIDs []EntityID `json:"hunter_ids"`
	Score     float64    `json:"score"`
}
