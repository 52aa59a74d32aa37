package similarity

import "sort"

// DefaultThreshold is the minimum score (exclusive) for a pair to be flagged.
const DefaultThreshold = 0.6

// MaxRecords bounds the candidate set. The scan is quadratic in record
// count; callers already cap their fetches well below this, the scanner
// truncates anything larger rather than grinding through it.
const MaxRecords = 1000

// Record is a read-only business name record from the registry.
// The scanner never mutates it.
type Record struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
}

// Pair is one flagged unordered pair of records. (a,b) and (b,a) are the
// same pair; results are deduplicated by the sorted ID tuple.
type Pair struct {
	First  Record  `json:"first"`
	Second Record  `json:"second"`
	Score  float64 `json:"score"`
	Risk   Tier    `json:"risk"`
}

// Label returns the display badge for this pair.
func (p Pair) Label() string { return Label(p.Risk, p.Score) }

// FindSimilarPairs evaluates every unordered pair in records and returns
// those with score strictly above threshold, sorted by score descending.
// Ties keep pair-generation order (lower i, then lower j). A negative limit
// means unlimited; limit 0 returns nothing. Nil, empty or single-element
// input yields an empty result. Pure computation, no side effects.
func FindSimilarPairs(records []Record, threshold float64, limit int) []Pair {
	if len(records) < 2 || limit == 0 {
		return []Pair{}
	}
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}

	seen := make(map[[2]string]bool)
	pairs := make([]Pair, 0)
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			// Two rows carrying the same ID are the same record, not a pair.
			if records[i].ID == records[j].ID {
				continue
			}
			key := pairKey(records[i].ID, records[j].ID)
			if seen[key] {
				continue
			}
			seen[key] = true

			score := Score(records[i].Name, records[j].Name)
			if score <= threshold {
				continue
			}
			pairs = append(pairs, Pair{
				First:  records[i],
				Second: records[j],
				Score:  score,
				Risk:   Classify(score),
			})
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].Score > pairs[b].Score })

	if limit >= 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
