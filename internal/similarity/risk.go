package similarity

import (
	"fmt"
	"math"
	"strings"
)

// Tier is the coarse risk bucket derived from a similarity score.
// Used purely for display and triage priority.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Classify maps a score to its risk tier. Boundaries are strict:
// exactly 0.8 is medium, exactly 0.6 is low.
func Classify(score float64) Tier {
	switch {
	case score > 0.8:
		return TierHigh
	case score > 0.6:
		return TierMedium
	default:
		return TierLow
	}
}

// Label renders the badge text shown next to a flagged pair,
// e.g. "High Risk (92% similar)".
func Label(tier Tier, score float64) string {
	t := string(tier)
	if t != "" {
		t = strings.ToUpper(t[:1]) + t[1:]
	}
	return fmt.Sprintf("%s Risk (%d%% similar)", t, int(math.Round(score*100)))
}
