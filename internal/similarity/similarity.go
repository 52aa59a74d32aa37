// Package similarity scores how alike two business names are and scans a
// bounded candidate set for suspiciously similar pairs. It is the shared
// engine behind the dashboard alert widget, the similarity review page and
// the pre-submit fraud check; all three must agree on scores and tiers.
package similarity

import "strings"

// Normalize prepares a name for comparison: lowercase, outer whitespace
// trimmed. Internal whitespace and punctuation are significant.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score returns a similarity score in [0,1] between two names.
// 1.0 means the normalized names are equal (two empty names included).
// Otherwise the score is 1 - lev/maxLen using classic Levenshtein distance
// over the normalized strings. Symmetric in its arguments.
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == nb {
		return 1.0
	}
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(na, nb))/float64(maxLen)
}

// levenshtein computes unit-cost edit distance (insert, delete, substitute)
// using the two-row dynamic programming form.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}
