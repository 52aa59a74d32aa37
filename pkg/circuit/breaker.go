// Package circuit implements a small circuit breaker for external HTTP
// dependencies (geocoding, AI triage). Closed: normal; Open: fail fast;
// HalfOpen: probing.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"business-verification-portal/pkg/logging"
	"business-verification-portal/pkg/metrics"
)

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

// ErrOpen indicates the breaker is open and calls are short-circuited.
var ErrOpen = errors.New("circuit open")

// Config tunes a breaker instance.
type Config struct {
	Name              string
	OperationTimeout  time.Duration // per-call timeout
	OpenFor           time.Duration // how long to stay open before probing
	MaxConsecFailures int           // consecutive failures to open
	WindowSize        int           // sliding window of recent calls
	FailureRate       float64       // 0..1 fraction in window to open
	SlowCallThreshold time.Duration // calls over this count as slow
	SlowCallRate      float64       // 0..1 fraction in window to open
}

type sample struct {
	success bool
	slow    bool
}

type Breaker struct {
	cfg Config
	log *logging.Logger

	mu         sync.Mutex
	st         State
	nextProbe  time.Time
	consecFail int
	win        []sample
	idx        int
	used       int

	mOpens   *metrics.Counter
	mSuccess *metrics.Counter
	mFailure *metrics.Counter
	mState   *metrics.Gauge
}

func New(cfg Config, log *logging.Logger) *Breaker {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 20
	}
	b := &Breaker{
		cfg:      cfg,
		log:      log,
		win:      make([]sample, cfg.WindowSize),
		mOpens:   metrics.Default.Counter("cb_"+cfg.Name+"_opens", "Circuit opened events"),
		mSuccess: metrics.Default.Counter("cb_"+cfg.Name+"_success", "Successful calls through circuit"),
		mFailure: metrics.Default.Counter("cb_"+cfg.Name+"_failure", "Failed calls through circuit"),
		mState:   metrics.Default.Gauge("cb_"+cfg.Name+"_state", "Circuit state (0=closed,1=open,2=half-open)"),
	}
	b.mState.Set(0)
	return b
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.st
}

func (b *Breaker) setStateLocked(st State) {
	if b.st == st {
		return
	}
	b.st = st
	b.mState.Set(float64(st))
	if st == Open {
		b.mOpens.Inc()
		b.nextProbe = time.Now().Add(b.cfg.OpenFor)
	}
	if b.log != nil {
		b.log.WithComponent("circuit").Info("breaker state change",
			logging.String("name", b.cfg.Name), logging.Int("state", int(st)))
	}
}

// record adds a sample to the ring and opens the breaker when thresholds trip.
func (b *Breaker) record(success, slow bool) {
	b.win[b.idx] = sample{success: success, slow: slow}
	if b.used < len(b.win) {
		b.used++
	}
	b.idx = (b.idx + 1) % len(b.win)

	if b.st != Closed {
		return
	}
	if b.cfg.MaxConsecFailures > 0 && b.consecFail >= b.cfg.MaxConsecFailures {
		b.setStateLocked(Open)
		return
	}
	var fails, slows int
	for i := 0; i < b.used; i++ {
		if !b.win[i].success {
			fails++
		}
		if b.win[i].slow {
			slows++
		}
	}
	n := float64(b.used)
	if b.cfg.FailureRate > 0 && float64(fails)/n >= b.cfg.FailureRate {
		b.setStateLocked(Open)
		return
	}
	if b.cfg.SlowCallRate > 0 && float64(slows)/n >= b.cfg.SlowCallRate {
		b.setStateLocked(Open)
	}
}

// Do runs op under the breaker. When open, fallback runs if provided,
// otherwise ErrOpen is returned. Outputs are captured via closure vars.
func (b *Breaker) Do(ctx context.Context, op func(ctx context.Context) error, fallback func(ctx context.Context, cause error) error) error {
	b.mu.Lock()
	if b.st == Open {
		if time.Now().Before(b.nextProbe) {
			b.mu.Unlock()
			if fallback != nil {
				return fallback(ctx, ErrOpen)
			}
			return ErrOpen
		}
		b.setStateLocked(HalfOpen)
	}
	b.mu.Unlock()

	if b.cfg.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.OperationTimeout)
		defer cancel()
	}

	start := time.Now()
	err := op(ctx)
	dur := time.Since(start)
	slow := b.cfg.SlowCallThreshold > 0 && dur > b.cfg.SlowCallThreshold

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.consecFail++
		b.mFailure.Inc()
		b.record(false, slow)
		if b.st == HalfOpen {
			b.setStateLocked(Open)
		}
		if fallback != nil {
			return fallback(ctx, err)
		}
		return err
	}

	b.consecFail = 0
	b.mSuccess.Inc()
	b.record(true, slow)
	if b.st == HalfOpen {
		b.setStateLocked(Closed)
	}
	return nil
}
