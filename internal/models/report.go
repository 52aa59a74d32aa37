package models

import "time"

// Fraud report statuses.
const (
	ReportOpen          = "open"
	ReportInvestigating = "investigating"
	ReportResolved      = "resolved"
	ReportDismissed     = "dismissed"
)

// FraudReport is a citizen or inspector report filed against a business.
// Reference is a UUID handed to the reporter for follow-up.
type FraudReport struct {
	ID              int64      `json:"id" db:"id"`
	Reference       string     `json:"reference" db:"reference"`
	BusinessID      string     `json:"business_id" db:"business_id"`
	BusinessName    string     `json:"business_name,omitempty" db:"business_name"`
	ReporterName    *string    `json:"reporter_name" db:"reporter_name"`
	ReporterContact *string    `json:"reporter_contact" db:"reporter_contact"`
	Details         string     `json:"details" db:"details"`
	Status          string     `json:"status" db:"status"`
	TriageSummary   *string    `json:"triage_summary,omitempty" db:"triage_summary"`
	TriagePriority  *int       `json:"triage_priority,omitempty" db:"triage_priority"`
	ResolvedBy      *int       `json:"resolved_by" db:"resolved_by"`
	ResolutionNote  *string    `json:"resolution_note" db:"resolution_note"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at" db:"resolved_at"`
}

// ReportStats aggregates report counts by status for analytics.
type ReportStats struct {
	Open          int `json:"open"`
	Investigating int `json:"investigating"`
	Resolved      int `json:"resolved"`
	Dismissed     int `json:"dismissed"`
	Total         int `json:"total"`
}
