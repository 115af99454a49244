// Package api serves read-only observation endpoints over HTTP. The
// simulation loop publishes an immutable snapshot after every tick; handlers
// only ever read the latest published state, so no request can observe a
// half-applied tick or block the loop.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/talgya/eldoria/internal/engine"
)

// Published is one tick's complete observable state.
type Published struct {
	View   engine.WorldView
	Census engine.TreasureCensus
	Events []engine.Event
	Report engine.Report
}

// Server serves the latest published world state.
type Server struct {
	Port  int
	RunID string
	Speed float64

	state atomic.Pointer[Published]
}

// Publish swaps in a fresh snapshot. Called from the simulation loop.
func (s *Server) Publish(p *Published) {
	s.state.Store(p)
}

func (s *Server) latest() (*Published, bool) {
	p := s.state.Load()
	return p, p != nil
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// The full-grid snapshot is the heavy payload; keep scrapers off it.
	snapshotLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/snapshot", RateLimitMiddleware(snapshotLimiter, s.handleSnapshot))
	mux.HandleFunc("/api/v1/teams", s.handleTeams)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/report", s.handleReport)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := s.latest()
	if !ok {
		http.Error(w, "simulation not started", http.StatusServiceUnavailable)
		return
	}

	hunters, knights := 0, 0
	for _, e := range p.View.Entities {
		switch e.Kind {
		case "H":
			hunters++
		case "K":
			knights++
		}
	}

	writeJSON(w, map[string]any{
		"name":     "Eldoria",
		"run_id":   s.RunID,
		"tick":     p.View.Tick,
		"terminal": p.View.Terminal,
		"speed":    s.Speed,
		"hunters":  hunters,
		"knights":  knights,
		"teams":    len(p.View.Teams),
		"treasures": map[string]int{
			"on_grid":   p.Census.OnGrid,
			"carried":   p.Census.Carried,
			"delivered": p.Census.Delivered,
			"expired":   p.Census.Expired,
			"spawned":   p.Census.Spawned,
		},
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	p, ok := s.latest()
	if !ok {
		http.Error(w, "simulation not started", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, p.View)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	p, ok := s.latest()
	if !ok {
		http.Error(w, "simulation not started", http.StatusServiceUnavailable)
		return
	}

	teams := make([]engine.TeamView, len(p.View.Teams))
	copy(teams, p.View.Teams)
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Score != teams[j].Score {
			return teams[i].Score > teams[j].Score
		}
		return teams[i].ID < teams[j].ID
	})
	writeJSON(w, map[string]any{
		"tick":  p.View.Tick,
		"teams": teams,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	p, ok := s.latest()
	if !ok {
		http.Error(w, "simulation not started", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 500 {
			http.Error(w, "limit must be 1..500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events := p.Events
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	writeJSON(w, map[string]any{
		"tick":   p.View.Tick,
		"events": events,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.latest()
	if !ok {
		http.Error(w, "simulation not started", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, p.Report)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
