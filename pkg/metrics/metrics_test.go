package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterGauge(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("requests_total", "Total requests")
	c.Inc()
	c.Add(2)
	if c.Get() != 3 {
		t.Fatalf("counter = %d, want 3", c.Get())
	}

	g := r.Gauge("pending_gauge", "Pending items")
	g.Set(4.5)
	g.Add(-1.5)
	if g.Get() != 3.0 {
		t.Fatalf("gauge = %v, want 3.0", g.Get())
	}
}

func TestRegisterOrGet(t *testing.T) {
	r := NewRegistry()
	a := r.Counter("same_name", "help")
	b := r.Counter("same_name", "help")
	if a != b {
		t.Fatalf("expected same counter instance for same name")
	}
}

func TestHistogramBuckets(t *testing.T) {
	r := NewRegistry()
	h := r.Histogram("latency_ms", "Latency", []float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(5000) // lands in +Inf
	if got := h.count.Load(); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
}

func TestHandlerExposition(t *testing.T) {
	r := NewRegistry()
	r.Counter("scan_total", "Similarity scans").Inc()
	r.Gauge("alerts_gauge", "Open alerts").Set(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		"# TYPE scan_total counter",
		"scan_total 1",
		"# TYPE alerts_gauge gauge",
		"alerts_gauge 2",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q:\n%s", want, body)
		}
	}
}
