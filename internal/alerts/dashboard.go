package alerts

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"business-verification-portal/internal/constants"
	"business-verification-portal/internal/similarity"
	"business-verification-portal/pkg/events"
	"business-verification-portal/pkg/logging"
	"business-verification-portal/pkg/metrics"
)

// Dashboard produces the top alert pairs for the admin dashboard widget.
// It keeps the latest scan result cached so page renders never wait on a
// registry round trip.
type Dashboard struct {
	src RecordSource
	log *logging.Logger

	mu        sync.RWMutex
	threshold float64
	pairs     []similarity.Pair
	lastScan  time.Time

	// Guards against overlapping scan cycles. A caller losing the race
	// gets the cached snapshot instead of a second concurrent scan.
	scanning atomic.Bool

	sink    events.EventStore
	flagged map[string]bool

	mScans    *metrics.Counter
	mFailures *metrics.Counter
	mAlerts   *metrics.Gauge
	mDuration *metrics.Histogram
}

func NewDashboard(src RecordSource, log *logging.Logger) *Dashboard {
	return &Dashboard{
		src:       src,
		log:       log.WithComponent("alerts.dashboard"),
		threshold: similarity.DefaultThreshold,
		pairs:     []similarity.Pair{},
		flagged:   make(map[string]bool),
		mScans:    metrics.Default.Counter("similarity_dashboard_scans_total", "Dashboard similarity scans"),
		mFailures: metrics.Default.Counter("similarity_dashboard_fetch_failures_total", "Dashboard scans degraded by fetch failure"),
		mAlerts:   metrics.Default.Gauge("similarity_dashboard_alerts", "Alert pairs in latest dashboard scan"),
		mDuration: metrics.Default.Histogram("similarity_dashboard_scan_seconds", "Dashboard scan duration", nil),
	}
}

// SetEventStore enables similarity.flagged audit events for high-risk
// pairs. Each pair is recorded once per process lifetime.
func (d *Dashboard) SetEventStore(es events.EventStore) {
	d.mu.Lock()
	d.sink = es
	d.mu.Unlock()
}

// SetThreshold applies a hot-reloaded threshold. Takes effect on the
// next scan; the cached snapshot is not rescored.
func (d *Dashboard) SetThreshold(t float64) {
	d.mu.Lock()
	d.threshold = t
	d.mu.Unlock()
}

// Alerts returns the cached snapshot and when it was taken.
func (d *Dashboard) Alerts() ([]similarity.Pair, time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pairs, d.lastScan
}

// Scan runs one fetch-then-scan cycle and caches the result. A fetch
// failure yields an empty alert list, not an error. If another scan is
// already in flight the cached snapshot is returned as is.
func (d *Dashboard) Scan(ctx context.Context) []similarity.Pair {
	if !d.scanning.CompareAndSwap(false, true) {
		pairs, _ := d.Alerts()
		return pairs
	}
	defer d.scanning.Store(false)

	d.mScans.Inc()
	timer := d.mDuration.Start()
	defer timer.Observe()

	d.mu.RLock()
	threshold := d.threshold
	d.mu.RUnlock()

	pairs := []similarity.Pair{}
	records, err := d.src(ctx)
	if err != nil {
		d.mFailures.Inc()
		d.log.Warn("record fetch failed, rendering no alerts", logging.Err(err))
	} else {
		pairs = similarity.FindSimilarPairs(records, threshold, constants.DashboardAlertLimit)
	}

	d.mu.Lock()
	d.pairs = pairs
	d.lastScan = time.Now()
	sink := d.sink
	d.mu.Unlock()
	d.mAlerts.Set(float64(len(pairs)))

	if sink != nil {
		d.recordFlagged(ctx, sink, pairs)
	}
	return pairs
}

func (d *Dashboard) recordFlagged(ctx context.Context, sink events.EventStore, pairs []similarity.Pair) {
	now := time.Now()
	for _, p := range pairs {
		if p.Risk != similarity.TierHigh {
			continue
		}
		key := p.First.ID + "|" + p.Second.ID
		d.mu.Lock()
		seen := d.flagged[key]
		d.flagged[key] = true
		d.mu.Unlock()
		if seen {
			continue
		}
		e := events.SimilarityFlagged{
			Base:    events.Base{Ts: now, BizID: p.First.ID},
			OtherID: p.Second.ID,
			Score:   p.Score,
			Risk:    string(p.Risk),
		}
		if err := sink.Append(ctx, e); err != nil {
			d.log.Warn("failed to record similarity event", logging.Err(err))
		}
	}
}

// Poller re-runs the dashboard scan on a fixed cadence. Cycles run
// synchronously in one goroutine, so a slow scan delays the next tick
// instead of overlapping it.
type Poller struct {
	d   *Dashboard
	log *logging.Logger

	mu       sync.Mutex
	interval time.Duration
	ticker   *time.Ticker
	cancel   context.CancelFunc
}

func NewPoller(d *Dashboard, interval time.Duration, log *logging.Logger) *Poller {
	if interval <= 0 {
		interval = constants.AlertPollIntervalDefault
	}
	return &Poller{d: d, log: log.WithComponent("alerts.poller"), interval: interval}
}

// Start launches the poll loop. Safe to call once.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.ticker = time.NewTicker(p.interval)
	go p.loop(ctx)
	p.log.Info("alert poller started", logging.String("interval", p.interval.String()))
}

// Stop halts the poll loop.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.ticker.Stop()
	p.cancel = nil
}

// SetInterval applies a hot-reloaded poll cadence.
func (p *Poller) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = interval
	if p.ticker != nil {
		p.ticker.Reset(interval)
	}
}

func (p *Poller) loop(ctx context.Context) {
	// Prime the cache so the first dashboard render has data.
	p.d.Scan(ctx)
	for {
		p.mu.Lock()
		tick := p.ticker.C
		p.mu.Unlock()
		select {
		case <-ctx.Done():
			return
		case <-tick:
			p.d.Scan(ctx)
		}
	}
}
