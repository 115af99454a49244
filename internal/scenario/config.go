// Package scenario loads and validates simulation scenario configuration.
// Every gameplay-tuning constant (radii, costs, damage, thresholds) lives
// here so runs are reproducible from a scenario file plus a seed.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete scenario description handed to engine.New.
type Config struct {
	GridWidth  int `yaml:"grid_width"`
	GridHeight int `yaml:"grid_height"`

	NumHunters   int `yaml:"num_hunters"`
	NumKnights   int `yaml:"num_knights"`
	NumTreasures int `yaml:"num_treasures"`
	NumGarrisons int `yaml:"num_garrisons"`

	// Teams partition the hunters; each team owns one hideout.
	Teams []TeamConfig `yaml:"teams"`

	Resources   ResourceConfig    `yaml:"resources"`
	Policy      PolicyConfig      `yaml:"policy"`
	Combat      CombatConfig      `yaml:"combat"`
	Treasure    TreasureConfig    `yaml:"treasure"`
	Recruitment RecruitmentConfig `yaml:"recruitment"`

	Seed     int64  `yaml:"seed"`
	MaxTicks uint64 `yaml:"max_ticks"`
}

// TeamConfig names a team and weights the skills its hunters spawn with.
type TeamConfig struct {
	Name   string       `yaml:"name"`
	Skills SkillWeights `yaml:"skills"`
}

// SkillWeights are relative (not normalized) spawn weights per skill.
// All zero means uniform.
type SkillWeights struct {
	Navigation int `yaml:"navigation"`
	Endurance  int `yaml:"endurance"`
	Stealth    int `yaml:"stealth"`
}

// ResourceConfig holds energy/stamina caps, the per-action cost table,
// and replenishment rates.
type ResourceConfig struct {
	MaxEnergy  float64 `yaml:"max_energy"`
	MaxStamina float64 `yaml:"max_stamina"`

	Costs CostTable `yaml:"costs"`

	// EnduranceDiscount multiplies move cost for Endurance hunters.
	EnduranceDiscount float64 `yaml:"endurance_discount"`

	RestRegen     float64 `yaml:"rest_regen"`     // Stamina per tick while resting anywhere
	HideoutRegen  float64 `yaml:"hideout_regen"`  // Stamina and energy per tick at own hideout
	GarrisonRegen float64 `yaml:"garrison_regen"` // Knight energy per tick at garrison

	// CollapseTicks of consecutive zero-stamina ticks inactivate a hunter.
	CollapseTicks int `yaml:"collapse_ticks"`
}

// CostTable maps action kinds to resource cost. Hunters pay stamina,
// knights pay energy.
type CostTable struct {
	Move    float64 `yaml:"move"`
	Collect float64 `yaml:"collect"`
	Attack  float64 `yaml:"attack"`
	Patrol  float64 `yaml:"patrol"`
}

// PolicyConfig tunes perception and decision thresholds.
type PolicyConfig struct {
	HunterSight          int     `yaml:"hunter_sight"`
	KnightSight          int     `yaml:"knight_sight"`
	NavigationSightBonus int     `yaml:"navigation_sight_bonus"`
	LowEnergyFrac        float64 `yaml:"low_energy_frac"`   // Flee to hideout below this fraction
	LowStaminaFrac       float64 `yaml:"low_stamina_frac"`
	KnightLowEnergyFrac  float64 `yaml:"knight_low_energy_frac"` // Return to garrison below this
	StealthKnightPenalty float64 `yaml:"stealth_knight_penalty"` // Per nearby knight, off a treasure's score
	EnduranceValueWeight float64 `yaml:"endurance_value_weight"`
	MemoryTTL            uint64  `yaml:"memory_ttl"` // Ticks a treasure sighting stays remembered
	MemoryCap            int     `yaml:"memory_cap"`
}

// CombatConfig tunes knight interception.
type CombatConfig struct {
	AttackRange  int     `yaml:"attack_range"`
	AttackDamage float64 `yaml:"attack_damage"` // Energy removed per hit
	PatrolRadius int     `yaml:"patrol_radius"`
}

// TreasureConfig tunes treasure values and decay.
type TreasureConfig struct {
	// DecayRate is the per-tick fractional value loss; 0 disables decay.
	DecayRate   float64 `yaml:"decay_rate"`
	ExpireBelow float64 `yaml:"expire_below"`
}

// RecruitmentConfig gates dynamic hunter creation at hideouts.
type RecruitmentConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Chance        float64 `yaml:"chance"`          // Per hideout per tick, when eligible
	MaxPerHideout int     `yaml:"max_per_hideout"` // Hunters co-located before recruitment stops
}

// Default returns a playable scenario on a 20×20 grid.
func Default() *Config {
	return &Config{
		GridWidth:    20,
		GridHeight:   20,
		NumHunters:   6,
		NumKnights:   3,
		NumTreasures: 12,
		NumGarrisons: 1,
		Teams: []TeamConfig{
			{Name: "Dawn", Skills: SkillWeights{Navigation: 2, Endurance: 1, Stealth: 1}},
			{Name: "Dusk", Skills: SkillWeights{Navigation: 1, Endurance: 1, Stealth: 2}},
		},
		Resources: ResourceConfig{
			MaxEnergy:  100,
			MaxStamina: 100,
			Costs: CostTable{
				Move:    2,
				Collect: 1,
				Attack:  4,
				Patrol:  2,
			},
			EnduranceDiscount: 0.75,
			RestRegen:         1,
			HideoutRegen:      10,
			GarrisonRegen:     10,
			CollapseTicks:     3,
		},
		Policy: PolicyConfig{
			HunterSight:          3,
			KnightSight:          4,
			NavigationSightBonus: 1,
			LowEnergyFrac:        0.2,
			LowStaminaFrac:       0.1,
			KnightLowEnergyFrac:  0.2,
			StealthKnightPenalty: 250,
			EnduranceValueWeight: 1.5,
			MemoryTTL:            20,
			MemoryCap:            10,
		},
		Combat: CombatConfig{
			AttackRange:  1,
			AttackDamage: 40,
			PatrolRadius: 4,
		},
		Treasure: TreasureConfig{
			DecayRate:   0.001,
			ExpireBelow: 1,
		},
		Recruitment: RecruitmentConfig{
			Enabled:       true,
			Chance:        0.2,
			MaxPerHideout: 5,
		},
		Seed:     42,
		MaxTicks: 500,
	}
}

// Load reads a scenario file, applying defaults for omitted fields.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigError reports an invalid scenario parameter. Fatal at startup:
// the simulation never begins with a bad scenario.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scenario: %s %s", e.Field, e.Reason)
}

// Validate rejects scenarios the engine cannot run.
func (c *Config) Validate() error {
	switch {
	case c.GridWidth <= 0 || c.GridHeight <= 0:
		return &ConfigError{Field: "grid dimensions", Reason: "must be positive"}
	case c.NumHunters < 0 || c.NumKnights < 0 || c.NumTreasures < 0 || c.NumGarrisons < 0:
		return &ConfigError{Field: "population counts", Reason: "must not be negative"}
	case len(c.Teams) == 0:
		return &ConfigError{Field: "teams", Reason: "at least one team required"}
	case c.NumKnights > 0 && c.NumGarrisons == 0:
		return &ConfigError{Field: "num_garrisons", Reason: "knights require a garrison"}
	case c.Resources.MaxEnergy <= 0 || c.Resources.MaxStamina <= 0:
		return &ConfigError{Field: "resource caps", Reason: "must be positive"}
	case c.Resources.Costs.Move < 0 || c.Resources.Costs.Collect < 0 ||
		c.Resources.Costs.Attack < 0 || c.Resources.Costs.Patrol < 0:
		return &ConfigError{Field: "costs", Reason: "must not be negative"}
	case c.Policy.HunterSight <= 0 || c.Policy.KnightSight <= 0:
		return &ConfigError{Field: "sight radii", Reason: "must be positive"}
	case c.Combat.AttackRange <= 0 || c.Combat.PatrolRadius <= 0:
		return &ConfigError{Field: "combat radii", Reason: "must be positive"}
	case c.Combat.AttackDamage < 0:
		return &ConfigError{Field: "attack_damage", Reason: "must not be negative"}
	case c.Treasure.DecayRate < 0 || c.Treasure.DecayRate >= 1:
		return &ConfigError{Field: "decay_rate", Reason: "must be in [0,1)"}
	case c.Recruitment.Chance < 0 || c.Recruitment.Chance > 1:
		return &ConfigError{Field: "recruitment chance", Reason: "must be in [0,1]"}
	case c.MaxTicks == 0:
		return &ConfigError{Field: "max_ticks", Reason: "must be positive"}
	}
	// Grid must hold the fixed structures without forced stacking.
	cells := c.GridWidth * c.GridHeight
	if len(c.Teams)+c.NumGarrisons > cells {
		return &ConfigError{Field: "grid dimensions", Reason: "too small for hideouts and garrisons"}
	}
	return nil
}
