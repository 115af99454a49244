// Package engine owns the authoritative world state and advances it
// tick-by-tick. Each Step runs the phases perceive → decide → resolve →
// apply → summarize in strict order; all mutation happens inside apply in
// ascending entity id order, so runs are reproducible from the scenario
// seed alone.
package engine

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/talgya/eldoria/internal/agents"
	"github.com/talgya/eldoria/internal/scenario"
	"github.com/talgya/eldoria/internal/world"
)

// Simulation holds the complete world state. All other components receive
// read-only views; nothing outside this package mutates entities.
type Simulation struct {
	cfg     *scenario.Config
	grid    world.Grid
	spawner *agents.Spawner
	rng     *rand.Rand // Decision-phase randomness (exploration, patrol, recruitment)

	tick   uint64
	halted bool

	hunters   map[agents.EntityID]*agents.Hunter
	knights   map[agents.EntityID]*agents.Knight
	treasures map[agents.EntityID]*agents.Treasure
	hideouts  map[agents.EntityID]*agents.Hideout
	garrisons map[agents.EntityID]*agents.Garrison
	teams     map[uint64]*agents.Team

	// Ascending id slices fix iteration order for determinism.
	hunterIDs   []agents.EntityID
	knightIDs   []agents.EntityID
	treasureIDs []agents.EntityID
	hideoutIDs  []agents.EntityID
	teamIDs     []uint64

	// occupancy maps cells to the ids of entities on them, rebuilt at the
	// start of every tick from the live entity set.
	occupancy map[world.Coord][]agents.EntityID

	spawnedTreasures int // Lifetime count, drives the conservation invariant
	events           []Event
}

// New validates the scenario and builds a simulation ready to step.
func New(cfg *scenario.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := world.NewGrid(cfg.GridWidth, cfg.GridHeight)
	rich := world.NewRichnessField(grid, cfg.Seed)
	spawner := agents.NewSpawner(cfg.Seed)
	pop := spawner.SpawnWorld(cfg, grid, rich)

	s := &Simulation{
		cfg:       cfg,
		grid:      grid,
		spawner:   spawner,
		rng:       rand.New(rand.NewSource(cfg.Seed + 100)),
		hunters:   make(map[agents.EntityID]*agents.Hunter),
		knights:   make(map[agents.EntityID]*agents.Knight),
		treasures: make(map[agents.EntityID]*agents.Treasure),
		hideouts:  make(map[agents.EntityID]*agents.Hideout),
		garrisons: make(map[agents.EntityID]*agents.Garrison),
		teams:     make(map[uint64]*agents.Team),
		occupancy: make(map[world.Coord][]agents.EntityID),
	}

	for _, h := range pop.Hunters {
		s.hunters[h.ID] = h
		s.hunterIDs = append(s.hunterIDs, h.ID)
	}
	for _, k := range pop.Knights {
		s.knights[k.ID] = k
		s.knightIDs = append(s.knightIDs, k.ID)
	}
	for _, t := range pop.Treasures {
		s.treasures[t.ID] = t
		s.treasureIDs = append(s.treasureIDs, t.ID)
	}
	for _, o := range pop.Hideouts {
		s.hideouts[o.ID] = o
		s.hideoutIDs = append(s.hideoutIDs, o.ID)
	}
	for _, g := range pop.Garrisons {
		s.garrisons[g.ID] = g
	}
	for _, t := range pop.Teams {
		s.teams[t.ID] = t
		s.teamIDs = append(s.teamIDs, t.ID)
	}
	s.spawnedTreasures = len(pop.Treasures)

	slog.Info("simulation initialized",
		"grid", grid,
		"hunters", len(s.hunters),
		"knights", len(s.knights),
		"treasures", len(s.treasures),
		"teams", len(s.teams),
		"seed", cfg.Seed,
	)
	return s, nil
}

// Tick returns the most recently completed tick number.
func (s *Simulation) Tick() uint64 { return s.tick }

// Grid returns the simulation's coordinate space.
func (s *Simulation) Grid() world.Grid { return s.grid }

// Config returns the scenario this simulation runs.
func (s *Simulation) Config() *scenario.Config { return s.cfg }

// Terminal reports whether the simulation has finished: the tick budget is
// spent, every treasure is off the board, every hunter is out, or a
// consistency failure halted it.
func (s *Simulation) Terminal() bool {
	if s.halted {
		return true
	}
	if s.tick >= s.cfg.MaxTicks {
		return true
	}
	treasuresLeft := false
	for _, t := range s.treasures {
		if t.State == agents.TreasureOnGrid || t.State == agents.TreasureCarried {
			treasuresLeft = true
			break
		}
	}
	if !treasuresLeft {
		return true
	}
	for _, h := range s.hunters {
		if h.Alive {
			return false
		}
	}
	return true
}

// Step advances the world one tick and returns its immutable summary.
// After a terminal state it returns ErrTerminal; after a consistency
// failure it returns the original *ConsistencyError on every call.
func (s *Simulation) Step() (TickSummary, error) {
	if s.Terminal() {
		return TickSummary{}, ErrTerminal
	}

	s.tick++
	sum := TickSummary{
		Tick:       s.tick,
		TeamScores: make(map[uint64]float64),
	}

	s.rebuildOccupancy()

	percs := s.perceive()
	intents := s.decide(percs, &sum)
	plan := resolveTick(intents, s.cfg.Combat.AttackDamage)

	if err := s.apply(plan, &sum); err != nil {
		s.halted = true
		slog.Error("simulation halted", "tick", s.tick, "error", err)
		return TickSummary{}, err
	}

	s.bookkeep(percs, &sum)

	s.events = append(s.events, sum.Events...)
	if len(s.events) > 1000 {
		s.events = s.events[len(s.events)-1000:]
	}
	return sum, nil
}

// decide collects one intent per active agent, downgrading anything the
// agent cannot pay for to rest. Hunters decide before knights, each in
// ascending id order, so the shared random source is consumed identically
// on every run.
func (s *Simulation) decide(percs map[agents.EntityID]*agents.Perception, sum *TickSummary) []agents.Intent {
	intents := make([]agents.Intent, 0, len(s.hunterIDs)+len(s.knightIDs))

	for _, id := range s.hunterIDs {
		h := s.hunters[id]
		if !h.Alive {
			continue
		}
		in := agents.DecideHunter(h, percs[id], s.cfg, s.grid, s.rng)
		cost := agents.ActionCost(s.cfg.Resources, in.Kind, h.Skill, true)
		if h.Stamina < cost {
			sum.Events = append(sum.Events, Event{
				Tick:        s.tick,
				Category:    "resource",
				Description: "hunter " + h.Skill.String() + " too exhausted to act, rests",
			})
			in = agents.Rest(id)
		}
		intents = append(intents, in)
	}

	for _, id := range s.knightIDs {
		k := s.knights[id]
		if !k.Alive {
			continue
		}
		in := agents.DecideKnight(k, percs[id], s.cfg, s.grid, s.rng)
		cost := agents.ActionCost(s.cfg.Resources, in.Kind, 0, false)
		if k.Energy < cost {
			in = agents.Rest(id)
		}
		intents = append(intents, in)
	}

	return intents
}

// apply mutates world state from the resolved plan. Sub-phase order is
// fixed: attacks, pickups, movement, deliveries, rest recovery. Each
// mutation re-validates its preconditions; a precondition that only a
// resolver bug could break fails the tick with a ConsistencyError.
func (s *Simulation) apply(plan resolvedTick, sum *TickSummary) error {
	if err := s.applyHits(plan.hits, sum); err != nil {
		return err
	}
	if err := s.applyPickups(plan.pickups, sum); err != nil {
		return err
	}
	s.applyMoves(plan.moves, sum)
	s.applyDeliveries(sum)
	s.applyRests(plan.rests)
	return nil
}

func (s *Simulation) applyHits(hits []AttackHit, sum *TickSummary) error {
	for _, hit := range hits {
		k := s.knights[hit.Knight]
		if k == nil || !k.Alive {
			return &ConsistencyError{Tick: s.tick, Reason: "attack by unknown or inactive knight"}
		}
		h := s.hunters[hit.Target]
		if h == nil {
			return &ConsistencyError{Tick: s.tick, Reason: "attack against unknown hunter"}
		}

		// The swing costs energy whether or not it still matters.
		if err := k.SpendEnergy(agents.ActionCost(s.cfg.Resources, agents.IntentAttack, 0, false)); err != nil {
			// Affordability was checked at decide time; energy only drops
			// through this same phase, in knight id order.
			return &ConsistencyError{Tick: s.tick, Reason: "attacking knight cannot pay attack cost"}
		}

		// Already dropped by a lower-id knight this tick: damage is a no-op.
		if !h.Alive {
			continue
		}

		if h.Damage(hit.Damage) {
			s.inactivateHunter(h, Inactivation{
				HunterID:     h.ID,
				TeamID:       h.TeamID,
				Cause:        CauseCaptured,
				CreditKnight: k.ID,
			}, sum)
		}
	}
	return nil
}

func (s *Simulation) applyPickups(pickups []agents.Intent, sum *TickSummary) error {
	taken := make(map[agents.EntityID]bool)
	for _, in := range pickups {
		h := s.hunters[in.Actor]
		if h == nil {
			return &ConsistencyError{Tick: s.tick, Reason: "pickup by unknown hunter"}
		}
		// Captured earlier in this tick: the claim lapses.
		if !h.Alive {
			continue
		}

		t := s.treasures[in.TargetID]
		if t == nil || taken[in.TargetID] || t.State != agents.TreasureOnGrid {
			return &ConsistencyError{Tick: s.tick, Reason: "pickup of unavailable treasure"}
		}
		if h.Pos != t.Pos {
			return &ConsistencyError{Tick: s.tick, Reason: "pickup at a distance"}
		}
		if h.IsCarrying() {
			return &ConsistencyError{Tick: s.tick, Reason: "pickup while already carrying"}
		}

		if err := h.SpendStamina(agents.ActionCost(s.cfg.Resources, agents.IntentCollect, h.Skill, true)); err != nil {
			return &ConsistencyError{Tick: s.tick, Reason: "collecting hunter cannot pay collect cost"}
		}

		taken[t.ID] = true
		tid := t.ID
		h.Carrying = &tid
		t.State = agents.TreasureCarried
		h.Memory.Drop(t.ID)

		sum.Collected = append(sum.Collected, Collection{
			TreasureID: t.ID,
			HunterID:   h.ID,
			Tier:       t.Tier,
			Value:      t.Value,
		})
		sum.Events = append(sum.Events, Event{
			Tick:        s.tick,
			Category:    "collect",
			Description: "hunter picked up " + t.Tier.String() + " treasure at " + t.Pos.String(),
		})
	}
	return nil
}

func (s *Simulation) applyMoves(moves []agents.Intent, sum *TickSummary) {
	for _, in := range moves {
		if h, ok := s.hunters[in.Actor]; ok {
			// Captured this tick: the move lapses.
			if !h.Alive {
				continue
			}
			if err := h.SpendStamina(agents.ActionCost(s.cfg.Resources, in.Kind, h.Skill, true)); err != nil {
				// Cannot afford the step: the actor rests in place instead.
				s.restHunter(h)
				continue
			}
			h.Pos = s.grid.StepToward(h.Pos, in.Target)
			sum.Moves++
			continue
		}
		if k, ok := s.knights[in.Actor]; ok {
			if !k.Alive {
				continue
			}
			if err := k.SpendEnergy(agents.ActionCost(s.cfg.Resources, in.Kind, 0, false)); err != nil {
				s.restKnight(k)
				continue
			}
			k.Pos = s.grid.StepToward(k.Pos, in.Target)
			k.Resting = false
			sum.Moves++
		}
	}
}

// applyDeliveries settles transport: any active carrier standing on its
// team hideout deposits its treasure and scores.
func (s *Simulation) applyDeliveries(sum *TickSummary) {
	for _, id := range s.hunterIDs {
		h := s.hunters[id]
		if !h.Alive || !h.IsCarrying() || h.Pos != h.Home {
			continue
		}

		t := s.treasures[*h.Carrying]
		o := s.hideouts[h.HideoutID]
		team := s.teams[h.TeamID]

		value := t.CollectionValue()
		t.State = agents.TreasureDelivered
		t.Alive = false
		h.Carrying = nil

		o.Stored++
		o.StoredValue += value
		team.Score += value

		sum.Delivered = append(sum.Delivered, Delivery{
			TreasureID: t.ID,
			HunterID:   h.ID,
			TeamID:     team.ID,
			Value:      value,
		})
		sum.TeamScores[team.ID] += value
		sum.Events = append(sum.Events, Event{
			Tick:        s.tick,
			Category:    "deliver",
			Description: "team " + team.Name + " banked a " + t.Tier.String() + " treasure",
		})
	}
}

// applyRests runs resource recovery for agents that did nothing this tick.
// Hunters recover fully only at their own hideout; resting in the field
// restores a trickle of stamina and cannot revive an exhausted hunter.
func (s *Simulation) applyRests(rests []agents.EntityID) {
	for _, id := range rests {
		if h, ok := s.hunters[id]; ok && h.Alive {
			s.restHunter(h)
			continue
		}
		if k, ok := s.knights[id]; ok && k.Alive {
			s.restKnight(k)
		}
	}
}

// restHunter applies one tick of recovery: a full replenish at the team
// hideout, otherwise the field trickle while any stamina remains.
func (s *Simulation) restHunter(h *agents.Hunter) {
	if h.Pos == h.Home {
		h.Replenish(s.cfg.Resources, true)
	} else if h.Stamina > 0 {
		h.Replenish(s.cfg.Resources, false)
	}
}

// restKnight regenerates a knight at its garrison. Knights recover
// nowhere else.
func (s *Simulation) restKnight(k *agents.Knight) {
	if k.Pos != k.GarrisonPos {
		return
	}
	k.Resting = true
	k.Replenish(s.cfg.Resources)
	if k.Energy >= s.cfg.Resources.MaxEnergy {
		k.Resting = false
	}
}

// inactivateHunter marks a hunter out of the run and drops any carried
// treasure back onto the grid at the hunter's position.
func (s *Simulation) inactivateHunter(h *agents.Hunter, record Inactivation, sum *TickSummary) {
	h.Alive = false

	if h.IsCarrying() {
		t := s.treasures[*h.Carrying]
		t.State = agents.TreasureOnGrid
		t.Pos = h.Pos
		h.Carrying = nil
		sum.Events = append(sum.Events, Event{
			Tick:        s.tick,
			Category:    "collect",
			Description: "dropped " + t.Tier.String() + " treasure lies unclaimed at " + t.Pos.String(),
		})
	}

	sum.Inactivated = append(sum.Inactivated, record)
	sum.Events = append(sum.Events, Event{
		Tick:        s.tick,
		Category:    "combat",
		Description: "hunter " + record.Cause.String() + " at " + h.Pos.String(),
	})
}

// bookkeep runs end-of-tick upkeep: memory aging and sharing, treasure
// decay, collapse countdowns, and recruitment.
func (s *Simulation) bookkeep(percs map[agents.EntityID]*agents.Perception, sum *TickSummary) {
	s.updateMemories(percs)
	s.decayTreasures(sum)
	s.runCollapse(sum)
	s.recruit(sum)
}

// updateMemories records this tick's treasure sightings and pools
// knowledge at hideouts.
func (s *Simulation) updateMemories(percs map[agents.EntityID]*agents.Perception) {
	ttl, limit := s.cfg.Policy.MemoryTTL, s.cfg.Policy.MemoryCap

	for _, id := range s.hunterIDs {
		h := s.hunters[id]
		if !h.Alive {
			continue
		}
		h.Memory.Forget(s.tick, ttl)
		p := percs[id]
		if p == nil {
			continue
		}
		for _, seen := range p.Treasures {
			t := s.treasures[seen.ID]
			if t == nil || t.State != agents.TreasureOnGrid {
				continue
			}
			h.Memory.Remember(agents.Sighting{
				TreasureID: seen.ID,
				Pos:        seen.Pos,
				Tier:       seen.Tier,
				Tick:       s.tick,
			}, limit)
		}
	}

	// Hunters at their hideout pool sightings and take the union back.
	for _, oid := range s.hideoutIDs {
		o := s.hideouts[oid]
		var visitors []*agents.Hunter
		for _, id := range s.hunterIDs {
			h := s.hunters[id]
			if h.Alive && h.HideoutID == oid && h.Pos == o.Pos {
				visitors = append(visitors, h)
			}
		}
		if len(visitors) == 0 {
			continue
		}
		for _, h := range visitors {
			var om agents.Memory
			om.Sightings = o.Known
			om.Merge(h.Memory.Sightings, 0)
			o.Known = om.Sightings
		}
		var pool agents.Memory
		pool.Sightings = o.Known
		pool.Forget(s.tick, ttl)
		o.Known = pool.Sightings
		for _, h := range visitors {
			h.Memory.Merge(o.Known, limit)
		}
	}
}

func (s *Simulation) decayTreasures(sum *TickSummary) {
	if s.cfg.Treasure.DecayRate <= 0 {
		return
	}
	for _, id := range s.treasureIDs {
		t := s.treasures[id]
		if t.State != agents.TreasureOnGrid {
			continue
		}
		t.Value *= 1 - s.cfg.Treasure.DecayRate
		if t.Value < s.cfg.Treasure.ExpireBelow {
			t.State = agents.TreasureExpired
			t.Alive = false
			sum.Expired = append(sum.Expired, t.ID)
			sum.Events = append(sum.Events, Event{
				Tick:        s.tick,
				Category:    "collect",
				Description: "a " + t.Tier.String() + " treasure crumbled to dust at " + t.Pos.String(),
			})
		}
	}
}

// runCollapse advances the exhaustion countdown: a hunter stuck at zero
// stamina for the configured number of consecutive ticks is out.
func (s *Simulation) runCollapse(sum *TickSummary) {
	for _, id := range s.hunterIDs {
		h := s.hunters[id]
		if !h.Alive {
			continue
		}
		if h.Stamina > 0 {
			h.CollapseTicks = 0
			continue
		}
		h.CollapseTicks++
		if h.CollapseTicks >= s.cfg.Resources.CollapseTicks {
			s.inactivateHunter(h, Inactivation{
				HunterID: h.ID,
				TeamID:   h.TeamID,
				Cause:    CauseCollapsed,
			}, sum)
		}
	}
}

// rebuildOccupancy refreshes the position index from the live entity set.
func (s *Simulation) rebuildOccupancy() {
	for c := range s.occupancy {
		delete(s.occupancy, c)
	}
	add := func(id agents.EntityID, pos world.Coord) {
		s.occupancy[pos] = append(s.occupancy[pos], id)
	}
	for _, id := range s.hideoutIDs {
		add(id, s.hideouts[id].Pos)
	}
	for _, g := range s.garrisons {
		add(g.ID, g.Pos)
	}
	for _, id := range s.treasureIDs {
		if t := s.treasures[id]; t.State == agents.TreasureOnGrid {
			add(id, t.Pos)
		}
	}
	for _, id := range s.hunterIDs {
		if h := s.hunters[id]; h.Alive {
			add(id, h.Pos)
		}
	}
	for _, id := range s.knightIDs {
		if k := s.knights[id]; k.Alive {
			add(id, k.Pos)
		}
	}
	for c := range s.occupancy {
		ids := s.occupancy[c]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
}

// OccupantsAt returns the ids of entities on a cell, ascending. The slice
// is valid until the next Step.
func (s *Simulation) OccupantsAt(c world.Coord) []agents.EntityID {
	return s.occupancy[s.grid.Wrap(c)]
}
