package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"business-verification-portal/pkg/logging"
)

var errBoom = errors.New("boom")

func fail(context.Context) error { return errBoom }
func ok(context.Context) error   { return nil }

func TestOpensAfterConsecFailures(t *testing.T) {
	b := New(Config{Name: "t1", MaxConsecFailures: 3, OpenFor: time.Minute}, logging.NewNop())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := b.Do(ctx, fail, nil); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if b.State() != Open {
		t.Fatalf("state = %v, want Open", b.State())
	}
	if err := b.Do(ctx, ok, nil); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen while open, got %v", err)
	}
}

func TestFallbackWhileOpen(t *testing.T) {
	b := New(Config{Name: "t2", MaxConsecFailures: 1, OpenFor: time.Minute}, logging.NewNop())
	ctx := context.Background()
	_ = b.Do(ctx, fail, nil)

	called := false
	err := b.Do(ctx, ok, func(ctx context.Context, cause error) error {
		called = true
		if !errors.Is(cause, ErrOpen) {
			t.Fatalf("fallback cause = %v", cause)
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("fallback not used: err=%v called=%v", err, called)
	}
}

func TestHalfOpenProbeRecovers(t *testing.T) {
	b := New(Config{Name: "t3", MaxConsecFailures: 1, OpenFor: time.Millisecond}, logging.NewNop())
	ctx := context.Background()
	_ = b.Do(ctx, fail, nil)
	if b.State() != Open {
		t.Fatalf("state = %v, want Open", b.State())
	}

	time.Sleep(5 * time.Millisecond)
	if err := b.Do(ctx, ok, nil); err != nil {
		t.Fatalf("probe call: %v", err)
	}
	if b.State() != Closed {
		t.Fatalf("state = %v, want Closed after successful probe", b.State())
	}
}

func TestFailureRateWindow(t *testing.T) {
	b := New(Config{Name: "t4", WindowSize: 4, FailureRate: 0.5, OpenFor: time.Minute}, logging.NewNop())
	ctx := context.Background()
	_ = b.Do(ctx, ok, nil)
	_ = b.Do(ctx, fail, nil)
	_ = b.Do(ctx, fail, nil)
	if b.State() != Open {
		t.Fatalf("state = %v, want Open at 50%% failures", b.State())
	}
}
