package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.SimilarityThreshold != 0.6 {
		t.Errorf("SimilarityThreshold = %v, want 0.6", cfg.SimilarityThreshold)
	}
	if cfg.AlertPollIntervalSeconds != 30 {
		t.Errorf("AlertPollIntervalSeconds = %d, want 30", cfg.AlertPollIntervalSeconds)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBReadTimeout != 8*time.Second {
		t.Errorf("DBReadTimeout = %v, want 8s", cfg.DBReadTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SIMILARITY_THRESHOLD", "0.75")
	t.Setenv("ALERT_POLL_INTERVAL_SECONDS", "10")
	t.Setenv("ENV", "production")

	cfg := Load()
	if cfg.SimilarityThreshold != 0.75 {
		t.Errorf("SimilarityThreshold = %v, want 0.75", cfg.SimilarityThreshold)
	}
	if cfg.AlertPollIntervalSeconds != 10 {
		t.Errorf("AlertPollIntervalSeconds = %d, want 10", cfg.AlertPollIntervalSeconds)
	}
	if cfg.ProfilingEnabled {
		t.Error("profiling should default off in production")
	}
}

func TestValidate(t *testing.T) {
	good := Load()
	if err := good.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := Load()
	bad.SimilarityThreshold = 1.0
	if err := bad.Validate(); err == nil {
		t.Error("threshold 1.0 should fail validation")
	}

	bad = Load()
	bad.AlertPollIntervalSeconds = 0
	if err := bad.Validate(); err == nil {
		t.Error("poll interval 0 should fail validation")
	}
}

func TestWatcherDetectsThresholdChange(t *testing.T) {
	t.Setenv("SIMILARITY_THRESHOLD", "0.6")
	w := NewWatcher(time.Hour)
	defer w.Close()
	sub := w.Subscribe()

	t.Setenv("SIMILARITY_THRESHOLD", "0.8")
	w.checkOnce()

	select {
	case chg := <-sub:
		if chg.Err != nil {
			t.Fatalf("unexpected reload error: %v", chg.Err)
		}
		if chg.New.SimilarityThreshold != 0.8 {
			t.Errorf("New.SimilarityThreshold = %v, want 0.8", chg.New.SimilarityThreshold)
		}
		found := false
		for _, f := range chg.Fields {
			if f == "SimilarityThreshold" {
				found = true
			}
		}
		if !found {
			t.Errorf("Fields = %v, want SimilarityThreshold listed", chg.Fields)
		}
	default:
		t.Fatal("no change notification delivered")
	}
}

func TestWatcherRejectsInvalidReload(t *testing.T) {
	t.Setenv("SIMILARITY_THRESHOLD", "0.6")
	w := NewWatcher(time.Hour)
	defer w.Close()
	sub := w.Subscribe()

	t.Setenv("SIMILARITY_THRESHOLD", "1.5")
	w.checkOnce()

	select {
	case chg := <-sub:
		if chg.Err == nil {
			t.Fatal("expected validation error for threshold 1.5")
		}
	default:
		t.Fatal("no notification for invalid reload")
	}

	w.mu.RLock()
	cur := w.cur.SimilarityThreshold
	w.mu.RUnlock()
	if cur != 0.6 {
		t.Errorf("invalid reload applied: threshold = %v", cur)
	}
}
