// Package search exposes the public JSON API: registry search with the
// pre-submit fraud check, business lookups and fraud report intake. No
// admin identity is required on any of these routes.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"business-verification-portal/internal/alerts"
	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/models"
	"business-verification-portal/internal/triage"
	"business-verification-portal/pkg/events"
	"business-verification-portal/pkg/logging"
	"business-verification-portal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Event sink for public actions. Set from main.
var eventSink events.EventStore

func SetEventStore(es events.EventStore) { eventSink = es }

var (
	mSearches     = metrics.Default.Counter("public_searches_total", "Public registry searches")
	mReportsFiled = metrics.Default.Counter("public_reports_filed_total", "Fraud reports filed via the public API")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// SearchResponse carries verified matches plus the fraud-check advisories
// for the searched name. Advisories may be empty; they never block results.
type SearchResponse struct {
	Query      string            `json:"query"`
	Results    []models.Business `json:"results"`
	Advisories []alerts.Advisory `json:"advisories"`
}

// SearchHandler serves GET /api/search?q=<term>. Only verified businesses
// are returned. The advisory check runs on every query; its failure is
// invisible to the caller.
func SearchHandler(repo domain.Repository, precheck *alerts.Precheck, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("search")
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "query parameter q is required")
			return
		}
		mSearches.Inc()

		results, err := repo.SearchBusinessesCtx(r.Context(), query, 20)
		if err != nil {
			log.Error("registry search failed", err, logging.String("query", query))
			writeError(w, http.StatusInternalServerError, "search unavailable")
			return
		}
		if results == nil {
			results = []models.Business{}
		}

		writeJSON(w, http.StatusOK, SearchResponse{
			Query:      query,
			Results:    results,
			Advisories: precheck.Check(r.Context(), query),
		})
	}
}

// BusinessHandler serves GET /api/businesses/{id}.
func BusinessHandler(repo domain.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, err := repo.GetBusinessByIDCtx(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		writeJSON(w, http.StatusOK, business)
	}
}

// ReportTriager summarizes a fraud report. Triager satisfies this.
type ReportTriager interface {
	TriageReport(ctx context.Context, businessName, details string) (*triage.Result, error)
}

// ReportRequest is the fraud report intake payload.
type ReportRequest struct {
	BusinessID      string `json:"business_id"`
	ReporterName    string `json:"reporter_name"`
	ReporterContact string `json:"reporter_contact"`
	Details         string `json:"details"`
}

// ReportHandler serves POST /api/reports. The reporter gets back a UUID
// reference for follow-up. Triage runs best-effort: an API outage files
// the report untriaged.
func ReportHandler(repo domain.Repository, triager ReportTriager, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("search")
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReportRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.Details = strings.TrimSpace(req.Details)
		if req.BusinessID == "" || req.Details == "" {
			writeError(w, http.StatusBadRequest, "business_id and details are required")
			return
		}

		business, err := repo.GetBusinessByIDCtx(r.Context(), req.BusinessID)
		if err != nil {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}

		report := models.FraudReport{
			Reference:  uuid.NewString(),
			BusinessID: business.ID,
			Details:    req.Details,
			Status:     models.ReportOpen,
		}
		if req.ReporterName != "" {
			report.ReporterName = &req.ReporterName
		}
		if req.ReporterContact != "" {
			report.ReporterContact = &req.ReporterContact
		}

		if triager != nil {
			result, err := triager.TriageReport(r.Context(), business.Name, req.Details)
			if err != nil {
				log.Warn("report triage unavailable",
					logging.String("business_id", business.ID), logging.Err(err))
			} else if result != nil {
				report.TriageSummary = &result.Summary
				report.TriagePriority = &result.Priority
			}
		}

		id, err := repo.CreateFraudReportCtx(r.Context(), &report)
		if err != nil {
			log.Error("failed to store fraud report", err, logging.String("business_id", business.ID))
			writeError(w, http.StatusInternalServerError, "could not file report")
			return
		}

		mReportsFiled.Inc()
		if eventSink != nil {
			e := events.ReportFiled{
				Base:      events.Base{Ts: time.Now(), BizID: business.ID},
				Reference: report.Reference,
			}
			if err := eventSink.Append(r.Context(), e); err != nil {
				log.Error("failed to append audit event", err, logging.String("type", e.Type()))
			}
		}

		log.Info("fraud report filed",
			logging.String("business_id", business.ID),
			logging.Int64("report_id", id),
			logging.Bool("triaged", report.TriagePriority != nil))
		writeJSON(w, http.StatusCreated, map[string]string{
			"reference": report.Reference,
			"status":    models.ReportOpen,
		})
	}
}

// PrecheckHandler serves GET /api/precheck?name=<candidate>. It lets the
// registration form warn about lookalike names before submission.
func PrecheckHandler(precheck *alerts.Precheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeError(w, http.StatusBadRequest, "query parameter name is required")
			return
		}
		advisories := precheck.Check(r.Context(), name)
		writeJSON(w, http.StatusOK, map[string]any{
			"name":       name,
			"advisories": advisories,
			"flagged":    len(advisories) > 0,
		})
	}
}

// HistoryHandler serves GET /api/businesses/{id}/history: the audit trail
// replayed into current state. 404 when no events exist for the business.
func HistoryHandler(log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("search")
	return func(w http.ResponseWriter, r *http.Request) {
		if eventSink == nil {
			writeError(w, http.StatusNotFound, "history unavailable")
			return
		}
		id := mux.Vars(r)["id"]
		state, err := eventSink.ReplayBusiness(r.Context(), id)
		if err != nil {
			log.Error("event replay failed", err, logging.String("business_id", id))
			writeError(w, http.StatusInternalServerError, "history unavailable")
			return
		}
		if state == nil || state.BusinessID == "" {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no history for business %s", id))
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
