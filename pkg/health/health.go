// Package health runs component checks and serves an aggregated JSON view.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Component is the result of one health check.
type Component struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) Component
}

// CheckFunc adapts a function to Checker.
type CheckFunc struct {
	ComponentName string
	Fn            func(ctx context.Context) Component
}

func (c CheckFunc) Name() string                        { return c.ComponentName }
func (c CheckFunc) Check(ctx context.Context) Component { return c.Fn(ctx) }

// Report is the aggregated system view.
type Report struct {
	Status     Status               `json:"status"`
	Timestamp  time.Time            `json:"timestamp"`
	Uptime     time.Duration        `json:"uptime"`
	Components map[string]Component `json:"components"`
}

// Manager holds registered checkers.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	started  time.Time
	timeout  time.Duration
}

func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Manager{started: time.Now(), timeout: timeout}
}

func (m *Manager) Register(c Checker) {
	m.mu.Lock()
	m.checkers = append(m.checkers, c)
	m.mu.Unlock()
}

// Run executes all checks. Overall status is the worst component status.
func (m *Manager) Run(ctx context.Context) Report {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	rep := Report{
		Status:     StatusHealthy,
		Timestamp:  time.Now(),
		Uptime:     time.Since(m.started),
		Components: make(map[string]Component, len(checkers)),
	}
	for _, c := range checkers {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		comp := c.Check(cctx)
		cancel()
		rep.Components[c.Name()] = comp
		switch comp.Status {
		case StatusUnhealthy:
			rep.Status = StatusUnhealthy
		case StatusDegraded:
			if rep.Status == StatusHealthy {
				rep.Status = StatusDegraded
			}
		}
	}
	return rep
}

// Handler serves the report; 503 when any component is unhealthy.
func (m *Manager) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rep := m.Run(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if rep.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(rep)
	})
}

// DBChecker pings the registry database.
func DBChecker(db *sql.DB) Checker {
	return CheckFunc{
		ComponentName: "database",
		Fn: func(ctx context.Context) Component {
			start := time.Now()
			comp := Component{Name: "database", Status: StatusHealthy, LastChecked: start}
			if err := db.PingContext(ctx); err != nil {
				comp.Status = StatusUnhealthy
				comp.Message = err.Error()
			}
			comp.Duration = time.Since(start)
			return comp
		},
	}
}
