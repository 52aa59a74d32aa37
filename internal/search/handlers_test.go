package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"business-verification-portal/internal/alerts"
	"business-verification-portal/internal/models"
	"business-verification-portal/internal/similarity"
	testutil "business-verification-portal/internal/testing"
	"business-verification-portal/internal/triage"
	"business-verification-portal/pkg/events"
	"business-verification-portal/pkg/logging"

	"github.com/gorilla/mux"
)

func seedRepo() *testutil.MemoryRepository {
	return testutil.NewMemoryRepository(
		models.Business{ID: "b1", Name: "Accra Fresh Foods", RegistrationNumber: "REG-100",
			Status: models.StatusVerified, CreatedAt: time.Now()},
		models.Business{ID: "b2", Name: "Accra Fresh Food", RegistrationNumber: "REG-101",
			Status: models.StatusPending, CreatedAt: time.Now()},
		models.Business{ID: "b3", Name: "Kumasi Hardware", RegistrationNumber: "REG-102",
			Status: models.StatusVerified, CreatedAt: time.Now()},
	)
}

type stubTriager struct {
	result *triage.Result
	err    error
	calls  int
}

func (s *stubTriager) TriageReport(ctx context.Context, businessName, details string) (*triage.Result, error) {
	s.calls++
	return s.result, s.err
}

type memoryEventStore struct {
	appended []events.Event
}

func (m *memoryEventStore) Append(ctx context.Context, e ...events.Event) error {
	m.appended = append(m.appended, e...)
	return nil
}

func (m *memoryEventStore) ListByBusiness(ctx context.Context, businessID string) ([]events.StoredEvent, error) {
	return nil, nil
}

func (m *memoryEventStore) ReplayBusiness(ctx context.Context, businessID string) (*events.RebuiltState, error) {
	for _, e := range m.appended {
		if e.BusinessID() == businessID {
			return &events.RebuiltState{BusinessID: businessID, OpenReports: 1}, nil
		}
	}
	return &events.RebuiltState{}, nil
}

func TestSearchHandlerReturnsVerifiedWithAdvisories(t *testing.T) {
	repo := seedRepo()
	precheck := alerts.NewPrecheck(alerts.NameOrderedRecordSource(repo), logging.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=Accra+Fresh+Foods", nil)
	rr := httptest.NewRecorder()
	SearchHandler(repo, precheck, logging.NewNop())(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "b1" {
		t.Errorf("results = %+v, want only the verified exact match", resp.Results)
	}
	// b1 matches exactly and b2 is one deletion away; both clear 0.6.
	if len(resp.Advisories) != 2 {
		t.Fatalf("advisories = %+v, want 2", resp.Advisories)
	}
	if resp.Advisories[0].Score != 1.0 || resp.Advisories[0].Match.ID != "b1" {
		t.Errorf("top advisory = %+v, want exact match first", resp.Advisories[0])
	}
}

func TestSearchHandlerAdvisoryFailureNeverBlocksSearch(t *testing.T) {
	repo := seedRepo()
	precheck := alerts.NewPrecheck(
		func(ctx context.Context) ([]similarity.Record, error) { return nil, errors.New("db down") },
		logging.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=Kumasi+Hardware", nil)
	rr := httptest.NewRecorder()
	SearchHandler(repo, precheck, logging.NewNop())(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, advisory failure must not block search", rr.Code)
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 {
		t.Errorf("results = %+v", resp.Results)
	}
	if len(resp.Advisories) != 0 {
		t.Errorf("advisories = %+v, want none", resp.Advisories)
	}
}

func TestSearchHandlerRequiresQuery(t *testing.T) {
	repo := seedRepo()
	precheck := alerts.NewPrecheck(alerts.NameOrderedRecordSource(repo), logging.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rr := httptest.NewRecorder()
	SearchHandler(repo, precheck, logging.NewNop())(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestBusinessHandler(t *testing.T) {
	repo := seedRepo()
	req := httptest.NewRequest(http.MethodGet, "/api/businesses/b1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "b1"})
	rr := httptest.NewRecorder()
	BusinessHandler(repo)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var b models.Business
	if err := json.NewDecoder(rr.Body).Decode(&b); err != nil {
		t.Fatal(err)
	}
	if b.Name != "Accra Fresh Foods" {
		t.Errorf("name = %q", b.Name)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/businesses/nope", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})
	rr = httptest.NewRecorder()
	BusinessHandler(repo)(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestReportHandlerFilesTriagedReport(t *testing.T) {
	repo := seedRepo()
	sink := &memoryEventStore{}
	SetEventStore(sink)
	defer SetEventStore(nil)

	summary := triage.Result{Summary: "likely duplicate registration", Priority: 4}
	triager := &stubTriager{result: &summary}

	body := `{"business_id":"b1","reporter_name":"Ama","details":"selling under a cloned name"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
	rr := httptest.NewRecorder()
	ReportHandler(repo, triager, logging.NewNop())(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp["reference"]) != 36 {
		t.Errorf("reference = %q, want a UUID", resp["reference"])
	}

	reports, _ := repo.GetFraudReportsForBusinessCtx(context.Background(), "b1")
	if len(reports) != 1 {
		t.Fatalf("reports = %+v", reports)
	}
	r := reports[0]
	if r.TriageSummary == nil || *r.TriageSummary != summary.Summary {
		t.Errorf("triage summary = %v", r.TriageSummary)
	}
	if r.TriagePriority == nil || *r.TriagePriority != 4 {
		t.Errorf("triage priority = %v", r.TriagePriority)
	}
	if r.ReporterName == nil || *r.ReporterName != "Ama" {
		t.Errorf("reporter name = %v", r.ReporterName)
	}
	if len(sink.appended) != 1 || sink.appended[0].Type() != events.TypeReportFiled {
		t.Errorf("events = %+v, want one report.filed", sink.appended)
	}
}

func TestReportHandlerTriageOutageFilesUntriaged(t *testing.T) {
	repo := seedRepo()
	triager := &stubTriager{err: errors.New("openai unavailable")}

	body := `{"business_id":"b3","details":"charging fake inspection fees"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
	rr := httptest.NewRecorder()
	ReportHandler(repo, triager, logging.NewNop())(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, triage outage must not reject the report", rr.Code)
	}
	reports, _ := repo.GetFraudReportsForBusinessCtx(context.Background(), "b3")
	if len(reports) != 1 || reports[0].TriagePriority != nil {
		t.Errorf("reports = %+v, want one untriaged", reports)
	}
}

func TestReportHandlerValidation(t *testing.T) {
	repo := seedRepo()
	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", "{", http.StatusBadRequest},
		{"missing details", `{"business_id":"b1"}`, http.StatusBadRequest},
		{"unknown business", `{"business_id":"nope","details":"x"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			ReportHandler(repo, nil, logging.NewNop())(rr, req)
			if rr.Code != tc.want {
				t.Errorf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestPrecheckHandler(t *testing.T) {
	repo := seedRepo()
	precheck := alerts.NewPrecheck(alerts.NameOrderedRecordSource(repo), logging.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/precheck?name=Accra+Fresh+Foodz", nil)
	rr := httptest.NewRecorder()
	PrecheckHandler(precheck)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Flagged    bool              `json:"flagged"`
		Advisories []alerts.Advisory `json:"advisories"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Flagged || len(resp.Advisories) == 0 {
		t.Errorf("resp = %+v, want lookalike flagged", resp)
	}
}

func TestHistoryHandler(t *testing.T) {
	sink := &memoryEventStore{}
	SetEventStore(sink)
	defer SetEventStore(nil)
	sink.Append(context.Background(), events.ReportFiled{
		Base: events.Base{Ts: time.Now(), BizID: "b1"}, Reference: "ref-1",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/b1/history", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "b1"})
	rr := httptest.NewRecorder()
	HistoryHandler(logging.NewNop())(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var state events.RebuiltState
	if err := json.NewDecoder(rr.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.BusinessID != "b1" || state.OpenReports != 1 {
		t.Errorf("state = %+v", state)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/businesses/zz/history", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "zz"})
	rr = httptest.NewRecorder()
	HistoryHandler(logging.NewNop())(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown business", rr.Code)
	}
}
