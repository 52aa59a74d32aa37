package constants

// Centralized threshold values used across the application.
// Keep these stable; change deliberately and document why.
// These are not configuration knobs; use pkg/config for env-driven settings.

const (
	// Similarity score tiers (0.0 - 1.0). Strict comparisons: a score of
	// exactly MediumRiskScore is low, exactly HighRiskScore is medium.
	MediumRiskScore = 0.6
	HighRiskScore   = 0.8

	// Candidate set caps per call site.
	DashboardScanRecords = 200
	ReviewScanRecords    = 500

	// Result caps per call site.
	DashboardAlertLimit = 5
	ReviewPairLimit     = 50

	// Triage priority scale (1 = routine, 5 = urgent).
	TriagePriorityMin = 1
	TriagePriorityMax = 5

	// Circuit breaker rate thresholds for external HTTP calls.
	CircuitFailureRate  = 0.6
	CircuitSlowCallRate = 0.7
)
