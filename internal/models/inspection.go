package models

import "time"

// Inspection outcomes.
const (
	InspectionScheduled = "scheduled"
	InspectionPassed    = "passed"
	InspectionFailed    = "failed"
	InspectionNoShow    = "no_show"
)

// Inspection records a site visit for a business, including the address
// verification snapshot captured when the visit was scheduled.
type Inspection struct {
	ID           int64      `json:"id" db:"id"`
	BusinessID   string     `json:"business_id" db:"business_id"`
	BusinessName string     `json:"business_name,omitempty" db:"business_name"`
	Inspector    string     `json:"inspector" db:"inspector"`
	ScheduledFor time.Time  `json:"scheduled_for" db:"scheduled_for"`
	Outcome      string     `json:"outcome" db:"outcome"`
	Notes        *string    `json:"notes" db:"notes"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at" db:"completed_at"`

	// Address verification snapshot, if the geocoder was reachable.
	VerifiedAddress *string  `json:"verified_address,omitempty" db:"verified_address"`
	Lat             *float64 `json:"lat,omitempty" db:"lat"`
	Lng             *float64 `json:"lng,omitempty" db:"lng"`
	PlaceID         *string  `json:"place_id,omitempty" db:"place_id"`
}
