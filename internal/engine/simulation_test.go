package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/eldoria/internal/agents"
	"github.com/talgya/eldoria/internal/scenario"
	"github.com/talgya/eldoria/internal/world"
)

// testConfig is a quiet 10x10 scenario: no decay, no recruitment, wide
// hunter sight so scripted setups behave deterministically.
func testConfig() *scenario.Config {
	cfg := scenario.Default()
	cfg.GridWidth, cfg.GridHeight = 10, 10
	cfg.Policy.HunterSight = 5
	cfg.Policy.NavigationSightBonus = 0
	cfg.Treasure.DecayRate = 0
	cfg.Recruitment.Enabled = false
	cfg.MaxTicks = 100
	return cfg
}

// bareSim builds an empty simulation the tests populate by hand.
func bareSim(t *testing.T, cfg *scenario.Config) *Simulation {
	t.Helper()
	require.NoError(t, cfg.Validate())
	return &Simulation{
		cfg:       cfg,
		grid:      world.NewGrid(cfg.GridWidth, cfg.GridHeight),
		spawner:   agents.NewSpawner(cfg.Seed),
		rng:       rand.New(rand.NewSource(cfg.Seed + 100)),
		hunters:   make(map[agents.EntityID]*agents.Hunter),
		knights:   make(map[agents.EntityID]*agents.Knight),
		treasures: make(map[agents.EntityID]*agents.Treasure),
		hideouts:  make(map[agents.EntityID]*agents.Hideout),
		garrisons: make(map[agents.EntityID]*agents.Garrison),
		teams:     make(map[uint64]*agents.Team),
		occupancy: make(map[world.Coord][]agents.EntityID),
	}
}

func addTeam(s *Simulation, teamID uint64, hideoutID agents.EntityID, home world.Coord) {
	s.hideouts[hideoutID] = &agents.Hideout{
		Entity: agents.Entity{ID: hideoutID, Kind: agents.KindHideout, Pos: home, Alive: true},
		TeamID: teamID,
	}
	s.hideoutIDs = append(s.hideoutIDs, hideoutID)
	s.teams[teamID] = &agents.Team{ID: teamID, Name: "Test", HideoutID: hideoutID}
	s.teamIDs = append(s.teamIDs, teamID)
}

func addHunter(s *Simulation, id agents.EntityID, teamID uint64, hideoutID agents.EntityID, pos, home world.Coord) *agents.Hunter {
	h := &agents.Hunter{
		Entity:    agents.Entity{ID: id, Kind: agents.KindHunter, Pos: pos, Alive: true},
		TeamID:    teamID,
		Skill:     agents.SkillNavigation,
		Energy:    s.cfg.Resources.MaxEnergy,
		Stamina:   s.cfg.Resources.MaxStamina,
		HideoutID: hideoutID,
		Home:      home,
	}
	s.hunters[id] = h
	s.hunterIDs = append(s.hunterIDs, id)
	s.teams[teamID].HunterIDs = append(s.teams[teamID].HunterIDs, id)
	return h
}

func addKnight(s *Simulation, id agents.EntityID, pos, garrison world.Coord) *agents.Knight {
	k := &agents.Knight{
		Entity:      agents.Entity{ID: id, Kind: agents.KindKnight, Pos: pos, Alive: true},
		GarrisonPos: garrison,
		Energy:      s.cfg.Resources.MaxEnergy,
	}
	s.knights[id] = k
	s.knightIDs = append(s.knightIDs, id)
	return k
}

func addTreasure(s *Simulation, id agents.EntityID, pos world.Coord, tier agents.TreasureTier) *agents.Treasure {
	tr := &agents.Treasure{
		Entity: agents.Entity{ID: id, Kind: agents.KindTreasure, Pos: pos, Alive: true},
		Tier:   tier,
		Value:  tier.BaseValue(),
		State:  agents.TreasureOnGrid,
	}
	s.treasures[id] = tr
	s.treasureIDs = append(s.treasureIDs, id)
	s.spawnedTreasures++
	return tr
}

func TestSingleHunterCollectsAndDelivers(t *testing.T) {
	cfg := testConfig()
	s := bareSim(t, cfg)
	home := world.Coord{X: 0, Y: 0}
	addTeam(s, 1, 100, home)
	addHunter(s, 1, 1, 100, home, home)
	addTreasure(s, 50, world.Coord{X: 5, Y: 5}, agents.TierBronze)

	var collections, deliveries int
	var collectTick, deliverTick uint64
	for !s.Terminal() {
		sum, err := s.Step()
		require.NoError(t, err)
		if n := sum.TreasuresCollected(); n > 0 {
			collections += n
			collectTick = sum.Tick
		}
		if n := sum.TreasuresDelivered(); n > 0 {
			deliveries += n
			deliverTick = sum.Tick
		}
	}

	assert.Equal(t, 1, collections, "exactly one pickup")
	assert.Equal(t, 1, deliveries, "exactly one delivery")
	// Five diagonal steps close the gap, pickup lands on the next tick,
	// and the walk home takes five more.
	assert.Equal(t, uint64(6), collectTick)
	assert.Equal(t, uint64(11), deliverTick)

	assert.InDelta(t, 103.0, s.teams[1].Score, 1e-9) // bronze 100 plus 3% gain
	assert.Equal(t, 1, s.hideouts[100].Stored)
	assert.Equal(t, agents.TreasureDelivered, s.treasures[50].State)

	_, err := s.Step()
	assert.ErrorIs(t, err, ErrTerminal)
}

func TestContestedTreasureSingleCollection(t *testing.T) {
	cfg := testConfig()
	s := bareSim(t, cfg)
	home := world.Coord{X: 0, Y: 0}
	addTeam(s, 1, 100, home)
	// Two hunters race for one treasure; only one may ever pick it up.
	addHunter(s, 1, 1, 100, world.Coord{X: 2, Y: 5}, home)
	addHunter(s, 2, 1, 100, world.Coord{X: 8, Y: 5}, home)
	addTreasure(s, 50, world.Coord{X: 5, Y: 5}, agents.TierGold)

	total := 0
	for !s.Terminal() {
		sum, err := s.Step()
		require.NoError(t, err)
		total += sum.TreasuresCollected()
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, agents.TreasureDelivered, s.treasures[50].State)
}

func TestDeterministicRuns(t *testing.T) {
	cfgA, cfgB := scenario.Default(), scenario.Default()
	cfgA.MaxTicks, cfgB.MaxTicks = 40, 40

	simA, err := New(cfgA)
	require.NoError(t, err)
	simB, err := New(cfgB)
	require.NoError(t, err)

	for !simA.Terminal() && !simB.Terminal() {
		sumA, errA := simA.Step()
		sumB, errB := simB.Step()
		require.NoError(t, errA)
		require.NoError(t, errB)
		require.Equal(t, sumA, sumB, "tick %d diverged", sumA.Tick)
	}
	assert.Equal(t, simA.Terminal(), simB.Terminal())
	assert.Equal(t, simA.Tick(), simB.Tick())
}

func TestTreasureConservation(t *testing.T) {
	cfg := scenario.Default()
	cfg.MaxTicks = 60
	s, err := New(cfg)
	require.NoError(t, err)

	for !s.Terminal() {
		_, err := s.Step()
		require.NoError(t, err)
		c := s.Census()
		assert.Equal(t, c.Spawned, c.OnGrid+c.Carried+c.Delivered+c.Expired,
			"conservation broken at tick %d", s.Tick())
	}
}

func TestCaptureCreditGoesToLowestKnight(t *testing.T) {
	cfg := testConfig()
	s := bareSim(t, cfg)
	home := world.Coord{X: 0, Y: 0}
	addTeam(s, 1, 100, home)
	h := addHunter(s, 1, 1, 100, world.Coord{X: 5, Y: 5}, home)
	h.Energy = 30 // one hit is lethal
	garrison := world.Coord{X: 9, Y: 9}
	k2 := addKnight(s, 2, world.Coord{X: 5, Y: 4}, garrison)
	k3 := addKnight(s, 3, world.Coord{X: 5, Y: 6}, garrison)
	addTreasure(s, 50, world.Coord{X: 9, Y: 0}, agents.TierBronze)

	sum, err := s.Step()
	require.NoError(t, err)

	require.Len(t, sum.Inactivated, 1)
	in := sum.Inactivated[0]
	assert.Equal(t, agents.EntityID(1), in.HunterID)
	assert.Equal(t, CauseCaptured, in.Cause)
	assert.Equal(t, agents.EntityID(2), in.CreditKnight, "lower knight id lands first")
	assert.False(t, h.Alive)

	// The redundant second swing still costs energy.
	cost := cfg.Resources.Costs.Attack
	assert.InDelta(t, cfg.Resources.MaxEnergy-cost, k2.Energy, 1e-9)
	assert.InDelta(t, cfg.Resources.MaxEnergy-cost, k3.Energy, 1e-9)
}

func TestCapturedHunterDropsCarriedTreasure(t *testing.T) {
	cfg := testConfig()
	s := bareSim(t, cfg)
	home := world.Coord{X: 0, Y: 0}
	addTeam(s, 1, 100, home)
	pos := world.Coord{X: 5, Y: 5}
	h := addHunter(s, 1, 1, 100, pos, home)
	h.Energy = 10
	tr := addTreasure(s, 50, pos, agents.TierSilver)
	tr.State = agents.TreasureCarried
	tid := tr.ID
	h.Carrying = &tid
	addKnight(s, 2, world.Coord{X: 5, Y: 4}, world.Coord{X: 9, Y: 9})

	sum, err := s.Step()
	require.NoError(t, err)

	require.Len(t, sum.Inactivated, 1)
	assert.False(t, h.Alive)
	assert.Nil(t, h.Carrying)
	assert.Equal(t, agents.TreasureOnGrid, tr.State)
	assert.Equal(t, pos, tr.Pos, "dropped where the hunter fell")

	c := s.Census()
	assert.Equal(t, c.Spawned, c.OnGrid+c.Carried+c.Delivered+c.Expired)
}

func TestUnaffordableIntentDowngradesToRest(t *testing.T) {
	cfg := testConfig()
	s := bareSim(t, cfg)
	home := world.Coord{X: 0, Y: 0}
	addTeam(s, 1, 100, home)
	pos := world.Coord{X: 3, Y: 3}
	h := addHunter(s, 1, 1, 100, pos, home)
	h.Stamina = 0.5 // below the move cost: the flee-home intent is unpayable
	addTreasure(s, 50, world.Coord{X: 9, Y: 0}, agents.TierBronze)

	sum, err := s.Step()
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Moves)
	assert.Equal(t, pos, h.Pos)
	var downgraded bool
	for _, ev := range sum.Events {
		if ev.Category == "resource" {
			downgraded = true
		}
	}
	assert.True(t, downgraded, "expected a resource downgrade event")
	// Resting in the field trickles stamina back.
	assert.InDelta(t, 0.5+cfg.Resources.RestRegen, h.Stamina, 1e-9)
}

func TestFailedMoveStillRecoversStamina(t *testing.T) {
	cfg := testConfig()
	cfg.Policy.LowStaminaFrac = 0.01 // keep the hunter out of flee-home range
	s := bareSim(t, cfg)
	home := world.Coord{X: 0, Y: 0}
	addTeam(s, 1, 100, home)
	pos := world.Coord{X: 3, Y: 3}
	h := addHunter(s, 1, 1, 100, pos, home)
	// Enough for the collect claim the hunter commits to, not for the
	// move it degrades into once the treasure is out of reach.
	h.Stamina = 1.5
	addTreasure(s, 50, world.Coord{X: 5, Y: 5}, agents.TierBronze)

	sum, err := s.Step()
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Moves)
	assert.Equal(t, pos, h.Pos, "unpayable step leaves the hunter in place")
	// The stalled hunter rests where it stands instead of losing the tick.
	assert.InDelta(t, 1.5+cfg.Resources.RestRegen, h.Stamina, 1e-9)
}

func TestCollapseAfterConsecutiveExhaustedTicks(t *testing.T) {
	cfg := testConfig()
	s := bareSim(t, cfg)
	home := world.Coord{X: 0, Y: 0}
	addTeam(s, 1, 100, home)
	h := addHunter(s, 1, 1, 100, world.Coord{X: 4, Y: 4}, home)
	h.Stamina = 0 // stranded: field rest cannot revive a fully drained hunter
	addTreasure(s, 50, world.Coord{X: 9, Y: 0}, agents.TierBronze)

	var collapsed *Inactivation
	for i := 0; i < cfg.Resources.CollapseTicks; i++ {
		sum, err := s.Step()
		require.NoError(t, err)
		for j := range sum.Inactivated {
			collapsed = &sum.Inactivated[j]
		}
	}

	require.NotNil(t, collapsed)
	assert.Equal(t, CauseCollapsed, collapsed.Cause)
	assert.Equal(t, agents.EntityID(0), collapsed.CreditKnight)
	assert.False(t, h.Alive)
	assert.True(t, s.Terminal(), "last hunter gone ends the run")
}
