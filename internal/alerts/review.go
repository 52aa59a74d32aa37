package alerts

import (
	"context"
	"strings"
	"sync"

	"business-verification-portal/internal/constants"
	"business-verification-portal/internal/similarity"
	"business-verification-portal/pkg/logging"
	"business-verification-portal/pkg/metrics"
)

// Review backs the similarity review page: a wider scan than the
// dashboard widget, with free-text narrowing over the computed pairs.
type Review struct {
	src RecordSource
	log *logging.Logger

	mu        sync.RWMutex
	threshold float64

	mScans    *metrics.Counter
	mFailures *metrics.Counter
}

func NewReview(src RecordSource, log *logging.Logger) *Review {
	return &Review{
		src:       src,
		log:       log.WithComponent("alerts.review"),
		threshold: similarity.DefaultThreshold,
		mScans:    metrics.Default.Counter("similarity_review_scans_total", "Review page similarity scans"),
		mFailures: metrics.Default.Counter("similarity_review_fetch_failures_total", "Review scans degraded by fetch failure"),
	}
}

// SetThreshold applies a hot-reloaded threshold. Safe to call while
// scans are running.
func (r *Review) SetThreshold(t float64) {
	r.mu.Lock()
	r.threshold = t
	r.mu.Unlock()
}

// Pairs runs a full scan and returns up to ReviewPairLimit flagged pairs.
// A fetch failure yields an empty list.
func (r *Review) Pairs(ctx context.Context) []similarity.Pair {
	r.mScans.Inc()
	records, err := r.src(ctx)
	if err != nil {
		r.mFailures.Inc()
		r.log.Warn("record fetch failed, rendering no pairs", logging.Err(err))
		return []similarity.Pair{}
	}
	r.mu.RLock()
	threshold := r.threshold
	r.mu.RUnlock()
	return similarity.FindSimilarPairs(records, threshold, constants.ReviewPairLimit)
}

// FilterPairs narrows already-computed pairs by case-insensitive substring
// match on either business name. It never re-runs the scan. An empty query
// returns the input unchanged.
func FilterPairs(pairs []similarity.Pair, query string) []similarity.Pair {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return pairs
	}
	filtered := make([]similarity.Pair, 0, len(pairs))
	for _, p := range pairs {
		if strings.Contains(strings.ToLower(p.First.Name), q) ||
			strings.Contains(strings.ToLower(p.Second.Name), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
