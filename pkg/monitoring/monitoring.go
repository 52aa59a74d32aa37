// Package monitoring provides a request-duration middleware with quantile
// snapshots plus pprof registration for the admin port.
package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	pp "net/http/pprof"
)

// Requests keeps a circular buffer of recent request durations (ms).
type Requests struct {
	mu    sync.Mutex
	ring  []float64
	idx   int
	total int64
}

func NewRequests(capacity int) *Requests {
	if capacity <= 0 {
		capacity = 256
	}
	return &Requests{ring: make([]float64, capacity)}
}

// Observe adds a duration sample in milliseconds.
func (m *Requests) Observe(ms float64) {
	m.mu.Lock()
	m.ring[m.idx] = ms
	m.idx = (m.idx + 1) % len(m.ring)
	m.total++
	m.mu.Unlock()
}

// Snapshot returns total count, average and p50/p95 over recent samples.
func (m *Requests) Snapshot() (count int64, avg, p50, p95 float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var samples []float64
	if m.total < int64(len(m.ring)) {
		samples = append(samples, m.ring[:m.idx]...)
	} else {
		samples = append(samples, m.ring...)
	}
	if len(samples) == 0 {
		return m.total, 0, 0, 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	avg = sum / float64(len(samples))
	sort.Float64s(samples)
	p50 = samples[(len(samples)*50)/100]
	p95 = samples[(len(samples)*95)/100]
	return m.total, avg, p50, p95
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records the duration of every request into m.
func Middleware(m *Requests) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			m.Observe(float64(time.Since(start)) / float64(time.Millisecond))
		})
	}
}

// SnapshotHandler serves a small JSON view of request stats and runtime
// numbers for humans; Prometheus scraping goes through pkg/metrics.
func SnapshotHandler(m *Requests) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		count, avg, p50, p95 := m.Snapshot()
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		out := map[string]any{
			"requests_total": count,
			"avg_ms":         avg,
			"p50_ms":         p50,
			"p95_ms":         p95,
			"goroutines":     runtime.NumGoroutine(),
			"alloc_mb":       float64(ms.Alloc) / (1024 * 1024),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
}

// RegisterPprof mounts the standard pprof handlers on mux.
func RegisterPprof(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pp.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pp.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pp.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pp.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pp.Trace)
}
