// Package events defines the audit events emitted by registry actions.
// Payloads stay small and JSON-friendly so they can be replayed and audited
// without coupling to the main table schemas.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event is the base interface for all registry audit events.
type Event interface {
	Type() string
	BusinessID() string
	Timestamp() time.Time
	Admin() *int
	MarshalData() ([]byte, error)
}

// Base contains common event metadata.
type Base struct {
	Ts      time.Time `json:"ts"`
	BizID   string    `json:"business_id"`
	AdminID *int      `json:"admin_id,omitempty"`
}

func (b Base) Timestamp() time.Time { return b.Ts }
func (b Base) BusinessID() string   { return b.BizID }
func (b Base) Admin() *int          { return b.AdminID }

const (
	TypeVerified          = "business.verified"
	TypeSuspended         = "business.suspended"
	TypeRejected          = "business.rejected"
	TypeReportFiled       = "report.filed"
	TypeReportResolved    = "report.resolved"
	TypeSimilarityFlagged = "similarity.flagged"
)

// BusinessVerified is emitted when an admin verifies a business.
type BusinessVerified struct {
	Base
	Note string `json:"note,omitempty"`
}

func (e BusinessVerified) Type() string                 { return TypeVerified }
func (e BusinessVerified) MarshalData() ([]byte, error) { return json.Marshal(e) }

type BusinessSuspended struct {
	Base
	Reason string `json:"reason"`
}

func (e BusinessSuspended) Type() string                 { return TypeSuspended }
func (e BusinessSuspended) MarshalData() ([]byte, error) { return json.Marshal(e) }

type BusinessRejected struct {
	Base
	Reason string `json:"reason"`
}

func (e BusinessRejected) Type() string                 { return TypeRejected }
func (e BusinessRejected) MarshalData() ([]byte, error) { return json.Marshal(e) }

// ReportFiled records that a fraud report was submitted against a business.
type ReportFiled struct {
	Base
	Reference string `json:"reference"`
}

func (e ReportFiled) Type() string                 { return TypeReportFiled }
func (e ReportFiled) MarshalData() ([]byte, error) { return json.Marshal(e) }

type ReportResolved struct {
	Base
	Reference string `json:"reference"`
	Outcome   string `json:"outcome"` // resolved|dismissed
	Note      string `json:"note,omitempty"`
}

func (e ReportResolved) Type() string                 { return TypeReportResolved }
func (e ReportResolved) MarshalData() ([]byte, error) { return json.Marshal(e) }

// SimilarityFlagged records that the scanner surfaced this business in a
// high-risk pair. OtherID is the counterpart business.
type SimilarityFlagged struct {
	Base
	OtherID string  `json:"other_id"`
	Score   float64 `json:"score"`
	Risk    string  `json:"risk"`
}

func (e SimilarityFlagged) Type() string                 { return TypeSimilarityFlagged }
func (e SimilarityFlagged) MarshalData() ([]byte, error) { return json.Marshal(e) }

// EventStore defines persistence and replay.
// Implementations must guarantee ordering per business.
type EventStore interface {
	Append(ctx context.Context, e ...Event) error
	ListByBusiness(ctx context.Context, businessID string) ([]StoredEvent, error)
	ReplayBusiness(ctx context.Context, businessID string) (*RebuiltState, error)
}

// StoredEvent is a durable representation. Seq is the DB-assigned order.
type StoredEvent struct {
	Seq        int64     `json:"seq"`
	BusinessID string    `json:"business_id"`
	Type       string    `json:"type"`
	Ts         time.Time `json:"ts"`
	AdminID    *int      `json:"admin_id,omitempty"`
	Payload    []byte    `json:"payload"`
}

// RebuiltState is the result of replaying a business's events: current
// status plus the last action taken. Full history stays in the event list.
type RebuiltState struct {
	BusinessID    string     `json:"business_id"`
	Status        string     `json:"status"`
	LastUpdated   time.Time  `json:"last_updated"`
	LastVerified  *time.Time `json:"last_verified,omitempty"`
	LastSuspended *time.Time `json:"last_suspended,omitempty"`
	OpenReports   int        `json:"open_reports"`
	Flagged       bool       `json:"flagged"`
	LastReason    string     `json:"last_reason,omitempty"`
}

// Replay applies events in order and rebuilds state.
func Replay(events []StoredEvent) *RebuiltState {
	st := &RebuiltState{}
	for _, se := range events {
		st.BusinessID = se.BusinessID
		st.LastUpdated = se.Ts
		switch se.Type {
		case TypeVerified:
			st.Status = "verified"
			ts := se.Ts
			st.LastVerified = &ts
			st.Flagged = false
		case TypeSuspended:
			var ev BusinessSuspended
			_ = json.Unmarshal(se.Payload, &ev)
			st.Status = "suspended"
			ts := se.Ts
			st.LastSuspended = &ts
			st.LastReason = ev.Reason
		case TypeRejected:
			var ev BusinessRejected
			_ = json.Unmarshal(se.Payload, &ev)
			st.Status = "rejected"
			st.LastReason = ev.Reason
		case TypeReportFiled:
			st.OpenReports++
		case TypeReportResolved:
			if st.OpenReports > 0 {
				st.OpenReports--
			}
		case TypeSimilarityFlagged:
			st.Flagged = true
		}
	}
	return st
}
