package alerts

import (
	"context"
	"sort"
	"sync"

	"business-verification-portal/internal/similarity"
	"business-verification-portal/pkg/logging"
	"business-verification-portal/pkg/metrics"
)

// Advisory is one existing record flagged against a searched name.
type Advisory struct {
	Match similarity.Record `json:"match"`
	Score float64           `json:"score"`
	Risk  similarity.Tier   `json:"risk"`
}

// Label returns the display badge for this advisory.
func (a Advisory) Label() string { return similarity.Label(a.Risk, a.Score) }

// Precheck is the pre-submit fraud check on public search: one new name
// against every existing record. Equivalent to scanning a set of size n+1
// and keeping only pairs involving the new entry.
type Precheck struct {
	src RecordSource
	log *logging.Logger

	mu        sync.RWMutex
	threshold float64

	mChecks   *metrics.Counter
	mFailures *metrics.Counter
	mFlagged  *metrics.Counter
}

func NewPrecheck(src RecordSource, log *logging.Logger) *Precheck {
	return &Precheck{
		src:       src,
		log:       log.WithComponent("alerts.precheck"),
		threshold: similarity.DefaultThreshold,
		mChecks:   metrics.Default.Counter("similarity_precheck_total", "Pre-submit fraud checks"),
		mFailures: metrics.Default.Counter("similarity_precheck_fetch_failures_total", "Prechecks degraded by fetch failure"),
		mFlagged:  metrics.Default.Counter("similarity_precheck_flagged_total", "Prechecks with at least one advisory"),
	}
}

// SetThreshold applies a hot-reloaded threshold. Safe to call while
// checks are running.
func (p *Precheck) SetThreshold(t float64) {
	p.mu.Lock()
	p.threshold = t
	p.mu.Unlock()
}

// Check compares name against every existing record and returns advisories
// for scores strictly above the threshold, highest first, ties in record
// order. The check never fails: a fetch error degrades to no advisories so
// the search it gates always proceeds.
func (p *Precheck) Check(ctx context.Context, name string) []Advisory {
	p.mChecks.Inc()

	advisories := []Advisory{}
	if similarity.Normalize(name) == "" {
		return advisories
	}

	records, err := p.src(ctx)
	if err != nil {
		p.mFailures.Inc()
		p.log.Warn("record fetch failed, skipping fraud check", logging.Err(err))
		return advisories
	}

	p.mu.RLock()
	threshold := p.threshold
	p.mu.RUnlock()

	for _, rec := range records {
		score := similarity.Score(name, rec.Name)
		if score <= threshold {
			continue
		}
		advisories = append(advisories, Advisory{
			Match: rec,
			Score: score,
			Risk:  similarity.Classify(score),
		})
	}

	sort.SliceStable(advisories, func(i, j int) bool { return advisories[i].Score > advisories[j].Score })
	if len(advisories) > 0 {
		p.mFlagged.Inc()
	}
	return advisories
}
