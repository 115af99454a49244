package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Runner paces the simulation loop in real time.
type Runner struct {
	Sim      *Simulation
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 250ms)

	// OnTick runs after every successful step — populated during setup.
	OnTick func(sum TickSummary)
}

// NewRunner creates a runner with default pacing.
func NewRunner(sim *Simulation) *Runner {
	return &Runner{
		Sim:      sim,
		Speed:    1.0,
		Interval: 250 * time.Millisecond,
	}
}

// Run drives the simulation until it reaches a terminal state or the
// context is cancelled. Cancellation is checked between ticks, never
// mid-step.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("simulation started",
		"tick", r.Sim.Tick(), "speed", r.Speed, "interval", r.Interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation cancelled", "tick", r.Sim.Tick())
			return ctx.Err()
		default:
		}

		if r.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		sum, err := r.Sim.Step()
		if err != nil {
			if errors.Is(err, ErrTerminal) {
				slog.Info("simulation finished", "tick", r.Sim.Tick())
				return nil
			}
			slog.Error("simulation halted", "tick", r.Sim.Tick(), "error", err)
			return err
		}
		if r.OnTick != nil {
			r.OnTick(sum)
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(r.Interval) / r.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}
}

// RunAll advances the simulation to its terminal state without pacing.
// Used by headless runs and tests.
func RunAll(sim *Simulation, observe func(TickSummary)) error {
	for {
		sum, err := sim.Step()
		if err != nil {
			if errors.Is(err, ErrTerminal) {
				return nil
			}
			return err
		}
		if observe != nil {
			observe(sum)
		}
	}
}
