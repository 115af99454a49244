// PerformanceTracker aggregates run statistics from tick summaries. It is
// a pure consumer: it sees only what Step returns and never touches the
// world state.
package engine

import (
	"sort"

	"github.com/talgya/eldoria/internal/agents"
)

// TeamTotals accumulates one team's outcomes across a run.
type TeamTotals struct {
	TeamID      uint64  `json:"team_id"`
	Deliveries  int     `json:"deliveries"`
	Value       float64 `json:"value"`
	HuntersLost int     `json:"hunters_lost"`
}

// Tracker folds tick summaries into aggregate statistics.
type Tracker struct {
	Ticks          uint64
	Moves          int
	Collected      int
	Delivered      int
	Expired        int
	Captured       int
	Collapsed      int
	Recruited      int
	teams          map[uint64]*TeamTotals
	knightCaptures map[agents.EntityID]int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		teams:          make(map[uint64]*TeamTotals),
		knightCaptures: make(map[agents.EntityID]int),
	}
}

// Observe folds one tick summary into the totals.
func (t *Tracker) Observe(sum TickSummary) {
	t.Ticks = sum.Tick
	t.Moves += sum.Moves
	t.Collected += len(sum.Collected)
	t.Delivered += len(sum.Delivered)
	t.Expired += len(sum.Expired)

	for _, d := range sum.Delivered {
		tt := t.team(d.TeamID)
		tt.Deliveries++
		tt.Value += d.Value
	}
	for _, in := range sum.Inactivated {
		t.team(in.TeamID).HuntersLost++
		switch in.Cause {
		case CauseCaptured:
			t.Captured++
			t.knightCaptures[in.CreditKnight]++
		default:
			t.Collapsed++
		}
	}
	t.Recruited += len(sum.Recruited)
}

func (t *Tracker) team(id uint64) *TeamTotals {
	tt, ok := t.teams[id]
	if !ok {
		tt = &TeamTotals{TeamID: id}
		t.teams[id] = tt
	}
	return tt
}

// KnightCaptures returns a knight's credited captures.
func (t *Tracker) KnightCaptures(id agents.EntityID) int {
	return t.knightCaptures[id]
}

// Report is the run-level rollup handed to logging and persistence.
type Report struct {
	Ticks     uint64       `json:"ticks"`
	Moves     int          `json:"moves"`
	Collected int          `json:"collected"`
	Delivered int          `json:"delivered"`
	Expired   int          `json:"expired"`
	Captured  int          `json:"captured"`
	Collapsed int          `json:"collapsed"`
	Recruited int          `json:"recruited"`
	Teams     []TeamTotals `json:"teams"`

	// Efficiency is delivered value per simulated tick.
	Efficiency float64 `json:"efficiency"`
}

// Report builds the aggregate view, teams sorted by value descending then id.
func (t *Tracker) Report() Report {
	r := Report{
		Ticks:     t.Ticks,
		Moves:     t.Moves,
		Collected: t.Collected,
		Delivered: t.Delivered,
		Expired:   t.Expired,
		Captured:  t.Captured,
		Collapsed: t.Collapsed,
		Recruited: t.Recruited,
	}
	total := 0.0
	for _, tt := range t.teams {
		r.Teams = append(r.Teams, *tt)
		total += tt.Value
	}
	sort.Slice(r.Teams, func(i, j int) bool {
		if r.Teams[i].Value != r.Teams[j].Value {
			return r.Teams[i].Value > r.Teams[j].Value
		}
		return r.Teams[i].TeamID < r.Teams[j].TeamID
	})
	if t.Ticks > 0 {
		r.Efficiency = total / float64(t.Ticks)
	}
	return r
}
