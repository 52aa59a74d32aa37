package events

import (
	"encoding/json"
	"testing"
	"time"
)

func stored(t *testing.T, e Event, seq int64) StoredEvent {
	t.Helper()
	payload, err := e.MarshalData()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return StoredEvent{
		Seq:        seq,
		BusinessID: e.BusinessID(),
		Type:       e.Type(),
		Ts:         e.Timestamp(),
		Payload:    payload,
	}
}

func TestReplay_LifeCycle(t *testing.T) {
	now := time.Now()
	admin := 7
	evs := []StoredEvent{
		stored(t, ReportFiled{Base: Base{Ts: now, BizID: "b1"}, Reference: "r-1"}, 1),
		stored(t, SimilarityFlagged{Base: Base{Ts: now.Add(time.Minute), BizID: "b1"}, OtherID: "b2", Score: 0.93, Risk: "high"}, 2),
		stored(t, BusinessVerified{Base: Base{Ts: now.Add(2 * time.Minute), BizID: "b1", AdminID: &admin}}, 3),
		stored(t, ReportResolved{Base: Base{Ts: now.Add(3 * time.Minute), BizID: "b1"}, Reference: "r-1", Outcome: "dismissed"}, 4),
	}

	st := Replay(evs)
	if st.BusinessID != "b1" {
		t.Fatalf("business id = %q", st.BusinessID)
	}
	if st.Status != "verified" {
		t.Fatalf("status = %q, want verified", st.Status)
	}
	if st.OpenReports != 0 {
		t.Fatalf("open reports = %d, want 0", st.OpenReports)
	}
	// Verification clears the similarity flag.
	if st.Flagged {
		t.Fatalf("flag should be cleared after verification")
	}
	if st.LastVerified == nil {
		t.Fatalf("expected LastVerified set")
	}
}

func TestReplay_SuspensionKeepsReason(t *testing.T) {
	now := time.Now()
	evs := []StoredEvent{
		stored(t, BusinessVerified{Base: Base{Ts: now, BizID: "b9"}}, 1),
		stored(t, BusinessSuspended{Base: Base{Ts: now.Add(time.Hour), BizID: "b9"}, Reason: "duplicate registration"}, 2),
	}
	st := Replay(evs)
	if st.Status != "suspended" {
		t.Fatalf("status = %q, want suspended", st.Status)
	}
	if st.LastReason != "duplicate registration" {
		t.Fatalf("reason = %q", st.LastReason)
	}
}

func TestReplay_Empty(t *testing.T) {
	st := Replay(nil)
	if st.BusinessID != "" || st.Status != "" || st.OpenReports != 0 {
		t.Fatalf("unexpected state from empty replay: %+v", st)
	}
}

func TestEventPayloadRoundTrip(t *testing.T) {
	e := SimilarityFlagged{Base: Base{Ts: time.Now(), BizID: "b1"}, OtherID: "b2", Score: 0.8125, Risk: "high"}
	payload, err := e.MarshalData()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back SimilarityFlagged
	if err := json.Unmarshal(payload, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.OtherID != "b2" || back.Score != 0.8125 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
