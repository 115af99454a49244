// Package persistence records simulation runs to SQLite: one row per run,
// one row per tick summary, plus the event stream and final standings.
// Replays are possible from the stored scenario and seed alone.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/eldoria/internal/engine"
	"github.com/talgya/eldoria/internal/scenario"
)

// Store wraps a SQLite connection for run recording.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		scenario_json TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		final_tick INTEGER,
		report_json TEXT
	);

	CREATE TABLE IF NOT EXISTS tick_summaries (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		collected INTEGER NOT NULL,
		delivered INTEGER NOT NULL,
		expired INTEGER NOT NULL,
		inactivated INTEGER NOT NULL,
		recruited INTEGER NOT NULL,
		scores_json TEXT NOT NULL,
		summary_json TEXT NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS standings (
		run_id TEXT NOT NULL,
		team_id INTEGER NOT NULL,
		deliveries INTEGER NOT NULL,
		value REAL NOT NULL,
		hunters_lost INTEGER NOT NULL,
		PRIMARY KEY (run_id, team_id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// BeginRun registers a new run and returns its id. The full scenario is
// stored alongside the seed so the run can be replayed byte-for-byte.
func (st *Store) BeginRun(cfg *scenario.Config) (string, error) {
	runID := uuid.NewString()
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}
	_, err = st.conn.Exec(
		"INSERT INTO runs (run_id, seed, scenario_json, started_at) VALUES (?, ?, ?, ?)",
		runID, cfg.Seed, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	slog.Info("run recording started", "run_id", runID, "seed", cfg.Seed)
	return runID, nil
}

// SaveSummary appends one tick's record, counters denormalized for queries
// and the full summary as JSON for replay inspection.
func (st *Store) SaveSummary(runID string, sum engine.TickSummary) error {
	scores, err := json.Marshal(sum.TeamScores)
	if err != nil {
		return err
	}
	full, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	_, err = st.conn.Exec(`INSERT INTO tick_summaries
		(run_id, tick, moves, collected, delivered, expired, inactivated, recruited, scores_json, summary_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, sum.Tick, sum.Moves,
		len(sum.Collected), len(sum.Delivered), len(sum.Expired),
		len(sum.Inactivated), len(sum.Recruited),
		string(scores), string(full),
	)
	if err != nil {
		return fmt.Errorf("insert summary tick %d: %w", sum.Tick, err)
	}
	if len(sum.Events) > 0 {
		return st.saveEvents(runID, sum.Events)
	}
	return nil
}

func (st *Store) saveEvents(runID string, events []engine.Event) error {
	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		"INSERT INTO events (run_id, tick, description, category) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(runID, e.Tick, e.Description, e.Category); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// FinishRun closes out a run with its final tick and aggregate report.
func (st *Store) FinishRun(runID string, finalTick uint64, report engine.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}

	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"UPDATE runs SET finished_at = ?, final_tick = ?, report_json = ? WHERE run_id = ?",
		time.Now().UTC().Format(time.RFC3339), finalTick, string(raw), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	for _, team := range report.Teams {
		_, err := tx.Exec(`INSERT OR REPLACE INTO standings
			(run_id, team_id, deliveries, value, hunters_lost) VALUES (?, ?, ?, ?, ?)`,
			runID, team.TeamID, team.Deliveries, team.Value, team.HuntersLost,
		)
		if err != nil {
			return fmt.Errorf("insert standing team %d: %w", team.TeamID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("run recording finished", "run_id", runID, "ticks", finalTick)
	return nil
}

// TickRecord is the denormalized per-tick row.
type TickRecord struct {
	Tick        uint64 `db:"tick"`
	Moves       int    `db:"moves"`
	Collected   int    `db:"collected"`
	Delivered   int    `db:"delivered"`
	Expired     int    `db:"expired"`
	Inactivated int    `db:"inactivated"`
	Recruited   int    `db:"recruited"`
}

// Summaries returns a run's tick records in tick order.
func (st *Store) Summaries(runID string) ([]TickRecord, error) {
	var recs []TickRecord
	err := st.conn.Select(&recs,
		`SELECT tick, moves, collected, delivered, expired, inactivated, recruited
		 FROM tick_summaries WHERE run_id = ? ORDER BY tick`,
		runID,
	)
	return recs, err
}

// RecentEvents returns a run's most recent events, newest first.
func (st *Store) RecentEvents(runID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := st.conn.Select(&events,
		"SELECT tick, description, category FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	return events, err
}

// Standing is one team's final row.
type Standing struct {
	TeamID      uint64  `db:"team_id"`
	Deliveries  int     `db:"deliveries"`
	Value       float64 `db:"value"`
	HuntersLost int     `db:"hunters_lost"`
}

// Standings returns a run's final standings by delivered value, descending.
func (st *Store) Standings(runID string) ([]Standing, error) {
	var rows []Standing
	err := st.conn.Select(&rows,
		"SELECT team_id, deliveries, value, hunters_lost FROM standings WHERE run_id = ? ORDER BY value DESC, team_id",
		runID,
	)
	return rows, err
}

// Scenario restores the stored scenario for a run, for replays.
func (st *Store) Scenario(runID string) (*scenario.Config, error) {
	var raw string
	if err := st.conn.Get(&raw, "SELECT scenario_json FROM runs WHERE run_id = ?", runID); err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	var cfg scenario.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &cfg, nil
}
