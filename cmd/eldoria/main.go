// Command eldoria runs the treasure-hunt world simulation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/eldoria/internal/api"
	"github.com/talgya/eldoria/internal/engine"
	"github.com/talgya/eldoria/internal/persistence"
	"github.com/talgya/eldoria/internal/render"
	"github.com/talgya/eldoria/internal/scenario"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario YAML file (omit for the default scenario)")
		seed         = flag.Int64("seed", 0, "override the scenario seed (0 keeps the scenario's)")
		dbPath       = flag.String("db", "data/eldoria.db", "SQLite run archive (\"off\" disables recording)")
		apiPort      = flag.Int("port", 8080, "HTTP observation API port (0 disables)")
		speed        = flag.Float64("speed", 1.0, "tick pacing multiplier (0 runs unpaced to completion)")
		interval     = flag.Duration("interval", 250*time.Millisecond, "base tick interval")
		draw         = flag.Bool("render", false, "draw the grid in the terminal each tick")
		verbose      = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Scenario ──────────────────────────────────────────────────────
	cfg := scenario.Default()
	if *scenarioPath != "" {
		var err error
		cfg, err = scenario.Load(*scenarioPath)
		if err != nil {
			slog.Error("failed to load scenario", "path", *scenarioPath, "error", err)
			os.Exit(1)
		}
		slog.Info("scenario loaded", "path", *scenarioPath)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim, err := engine.New(cfg)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}

	// ── Run archive ───────────────────────────────────────────────────
	var store *persistence.Store
	var runID string
	if *dbPath != "off" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		store, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		runID, err = store.BeginRun(cfg)
		if err != nil {
			slog.Error("failed to begin run", "error", err)
			os.Exit(1)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	var apiServer *api.Server
	if *apiPort > 0 {
		apiServer = &api.Server{Port: *apiPort, RunID: runID, Speed: *speed}
		apiServer.Start()
	}

	tracker := engine.NewTracker()
	observe := func(sum engine.TickSummary) {
		tracker.Observe(sum)
		if store != nil {
			if err := store.SaveSummary(runID, sum); err != nil {
				slog.Error("failed to record tick", "tick", sum.Tick, "error", err)
			}
		}
		if apiServer != nil {
			apiServer.Publish(&api.Published{
				View:   sim.Snapshot(),
				Census: sim.Census(),
				Events: sim.RecentEvents(50),
				Report: tracker.Report(),
			})
		}
		if *draw {
			fmt.Print("\033[H\033[2J")
			fmt.Println(render.Frame(sim.Snapshot()))
			fmt.Print(render.Events(sum.Events, 8))
		}
	}

	fmt.Printf("Eldoria: %d hunters, %d knights, %d treasures on a %dx%d grid (seed %d)\n",
		cfg.NumHunters, cfg.NumKnights, cfg.NumTreasures, cfg.GridWidth, cfg.GridHeight, cfg.Seed)
	if *apiPort > 0 {
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", *apiPort)
	}

	// ── Run ───────────────────────────────────────────────────────────
	if *speed <= 0 {
		err = engine.RunAll(sim, observe)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner := engine.NewRunner(sim)
		runner.Speed = *speed
		runner.Interval = *interval
		runner.OnTick = observe
		err = runner.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	// ── Final report ──────────────────────────────────────────────────
	report := tracker.Report()
	if store != nil {
		if err := store.FinishRun(runID, sim.Tick(), report); err != nil {
			slog.Error("failed to finish run", "error", err)
		}
	}

	fmt.Printf("\nRun complete after %d ticks: %d collected, %d delivered, %d expired, %d hunters lost.\n",
		report.Ticks, report.Collected, report.Delivered, report.Expired,
		report.Captured+report.Collapsed)
	for i, team := range report.Teams {
		fmt.Printf("  %d. team %d — %.1f banked across %d deliveries\n",
			i+1, team.TeamID, team.Value, team.Deliveries)
	}
}
