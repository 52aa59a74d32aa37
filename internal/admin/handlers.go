package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"business-verification-portal/internal/alerts"
	"business-verification-portal/internal/auth"
	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/models"
	"business-verification-portal/internal/similarity"
	"business-verification-portal/pkg/events"
	"business-verification-portal/pkg/logging"
	"business-verification-portal/pkg/metrics"

	"github.com/gorilla/mux"
)

// Event sink for admin actions. Set from main.
var eventSink events.EventStore

func SetEventStore(es events.EventStore) { eventSink = es }

// metrics
var (
	mAdminVerified  = metrics.Default.Counter("admin_verified_total", "Businesses verified by admins")
	mAdminSuspended = metrics.Default.Counter("admin_suspended_total", "Businesses suspended by admins")
	mAdminRejected  = metrics.Default.Counter("admin_rejected_total", "Businesses rejected by admins")
	mReportResolved = metrics.Default.Counter("admin_reports_resolved_total", "Fraud reports closed by admins")
)

func emit(ctx context.Context, log *logging.Logger, e events.Event) {
	if eventSink == nil {
		return
	}
	if err := eventSink.Append(ctx, e); err != nil {
		log.Error("failed to append audit event", err, logging.String("type", e.Type()))
	}
}

// DashboardData feeds dashboard.tmpl.
type DashboardData struct {
	Stats       models.BusinessStats
	OpenReports int
	Alerts      []similarity.Pair
	AlertsAt    time.Time
	PollSeconds int
	Recent      []models.Business
}

func DashboardHandler(repo domain.Repository, dash *alerts.Dashboard, pollSeconds int, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("admin")
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := repo.GetBusinessStatisticsCtx(r.Context())
		if err != nil {
			log.Error("failed to fetch business statistics", err)
			stats = &models.BusinessStats{}
		}

		openReports := 0
		if rstats, err := repo.GetReportStatisticsCtx(r.Context()); err == nil {
			openReports = rstats.Open
		}

		pairs, at := dash.Alerts()

		recent, err := repo.GetRecentBusinessesCtx(r.Context(), 20)
		if err != nil {
			log.Error("failed to fetch recent businesses", err)
			recent = []models.Business{}
		}

		data := DashboardData{
			Stats:       *stats,
			OpenReports: openReports,
			Alerts:      pairs,
			AlertsAt:    at,
			PollSeconds: pollSeconds,
			Recent:      recent,
		}
		if err := ExecuteTemplate(w, "dashboard.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

func BusinessesHandler(repo domain.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		status := r.URL.Query().Get("status")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		limit := 50
		offset := (page - 1) * limit

		businesses, total, err := repo.GetBusinessesFilteredCtx(r.Context(), status, search, limit, offset)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error fetching businesses: %v", err), http.StatusInternalServerError)
			return
		}

		data := struct {
			Businesses []models.Business
			Total      int
			Page       int
			TotalPages int
			Search     string
			Status     string
		}{
			Businesses: businesses,
			Total:      total,
			Page:       page,
			TotalPages: (total + limit - 1) / limit,
			Search:     search,
			Status:     status,
		}
		if err := ExecuteTemplate(w, "businesses.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

func BusinessDetailHandler(repo domain.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		business, err := repo.GetBusinessByIDCtx(r.Context(), id)
		if err != nil {
			http.Error(w, "Business not found", http.StatusNotFound)
			return
		}

		reports, err := repo.GetFraudReportsForBusinessCtx(r.Context(), id)
		if err != nil {
			reports = []models.FraudReport{}
		}
		inspections, err := repo.ListInspectionsCtx(r.Context(), id, 50)
		if err != nil {
			inspections = []models.Inspection{}
		}

		data := struct {
			Business    models.Business
			Reports     []models.FraudReport
			Inspections []models.Inspection
		}{*business, reports, inspections}
		if err := ExecuteTemplate(w, "business_detail.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

// UpdateStatusHandler handles the verify/suspend/reject actions.
func UpdateStatusHandler(repo domain.Repository, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("admin")
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		status := r.FormValue("status")
		note := r.FormValue("note")

		switch status {
		case models.StatusVerified, models.StatusSuspended, models.StatusRejected:
		default:
			http.Error(w, fmt.Sprintf("invalid status %q", status), http.StatusBadRequest)
			return
		}

		admin, ok := auth.AdminFromContext(r.Context())
		if !ok {
			http.Error(w, "admin identity required", http.StatusForbidden)
			return
		}

		if err := repo.UpdateBusinessStatusCtx(r.Context(), id, status, note, admin.ID); err != nil {
			http.Error(w, fmt.Sprintf("update failed: %v", err), http.StatusInternalServerError)
			return
		}

		adminID := admin.ID
		base := events.Base{Ts: time.Now(), BizID: id, AdminID: &adminID}
		switch status {
		case models.StatusVerified:
			mAdminVerified.Inc()
			emit(r.Context(), log, events.BusinessVerified{Base: base, Note: note})
		case models.StatusSuspended:
			mAdminSuspended.Inc()
			emit(r.Context(), log, events.BusinessSuspended{Base: base, Reason: note})
		case models.StatusRejected:
			mAdminRejected.Inc()
			emit(r.Context(), log, events.BusinessRejected{Base: base, Reason: note})
		}

		log.Info("business status updated",
			logging.String("business_id", id),
			logging.String("status", status),
			logging.Int("admin_id", admin.ID))
		http.Redirect(w, r, basePath+"admin/businesses/"+id, http.StatusSeeOther)
	}
}

func ReportsHandler(repo domain.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		reports, err := repo.GetFraudReportsCtx(r.Context(), status, 200)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error fetching reports: %v", err), http.StatusInternalServerError)
			return
		}
		data := struct {
			Reports []models.FraudReport
			Status  string
		}{reports, status}
		if err := ExecuteTemplate(w, "reports.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

// ResolveReportHandler closes a report; with suspend=1 the business is
// suspended in the same transaction.
func ResolveReportHandler(uowf domain.UnitOfWorkFactory, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("admin")
	return func(w http.ResponseWriter, r *http.Request) {
		reportID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "invalid report id", http.StatusBadRequest)
			return
		}
		resolution := r.FormValue("resolution")
		note := r.FormValue("note")
		businessID := r.FormValue("business_id")
		suspend := r.FormValue("suspend") == "1"

		admin, ok := auth.AdminFromContext(r.Context())
		if !ok {
			http.Error(w, "admin identity required", http.StatusForbidden)
			return
		}

		uow, err := uowf.Begin(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("transaction failed: %v", err), http.StatusInternalServerError)
			return
		}
		defer uow.Rollback()

		if err := uow.ResolveFraudReportCtx(r.Context(), reportID, resolution, note, admin.ID); err != nil {
			http.Error(w, fmt.Sprintf("resolve failed: %v", err), http.StatusInternalServerError)
			return
		}
		if suspend && businessID != "" {
			if err := uow.UpdateBusinessStatusCtx(r.Context(), businessID, models.StatusSuspended, note, admin.ID); err != nil {
				http.Error(w, fmt.Sprintf("suspend failed: %v", err), http.StatusInternalServerError)
				return
			}
		}
		if err := uow.Commit(); err != nil {
			http.Error(w, fmt.Sprintf("commit failed: %v", err), http.StatusInternalServerError)
			return
		}

		mReportResolved.Inc()
		adminID := admin.ID
		base := events.Base{Ts: time.Now(), BizID: businessID, AdminID: &adminID}
		emit(r.Context(), log, events.ReportResolved{Base: base, Outcome: resolution, Note: note})
		if suspend && businessID != "" {
			mAdminSuspended.Inc()
			emit(r.Context(), log, events.BusinessSuspended{Base: base, Reason: note})
		}

		log.Info("report resolved",
			logging.Int64("report_id", reportID),
			logging.String("resolution", resolution),
			logging.Bool("suspended", suspend))
		if businessID != "" {
			http.Redirect(w, r, basePath+"admin/businesses/"+businessID, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, basePath+"admin/reports", http.StatusSeeOther)
	}
}

// SimilarityReviewHandler renders the review page: a fresh scan narrowed
// by the optional q filter. The filter applies to computed pairs only.
func SimilarityReviewHandler(review *alerts.Review, scanRecords int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		pairs := review.Pairs(r.Context())
		filtered := alerts.FilterPairs(pairs, query)

		data := struct {
			Pairs   []similarity.Pair
			Query   string
			Scanned int
		}{filtered, query, scanRecords}
		if err := ExecuteTemplate(w, "similarity.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

// StatsAPIHandler serves the dashboard numbers as JSON for scripted use.
func StatsAPIHandler(repo domain.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bstats, err := repo.GetBusinessStatisticsCtx(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("stats unavailable: %v", err), http.StatusInternalServerError)
			return
		}
		rstats, err := repo.GetReportStatisticsCtx(r.Context())
		if err != nil {
			rstats = &models.ReportStats{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"businesses": bstats,
			"reports":    rstats,
		})
	}
}

// CostReporter is the triage cost surface used by the analytics page.
type CostReporter interface {
	GetCostStats() (totalTokens, totalRequests int, estimatedCostUSD float64, duration time.Duration)
}

func AnalyticsHandler(repo domain.Repository, costs CostReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bstats, err := repo.GetBusinessStatisticsCtx(r.Context())
		if err != nil {
			bstats = &models.BusinessStats{}
		}
		rstats, err := repo.GetReportStatisticsCtx(r.Context())
		if err != nil {
			rstats = &models.ReportStats{}
		}

		var tokens, requests int
		var cost float64
		if costs != nil {
			tokens, requests, cost, _ = costs.GetCostStats()
		}

		data := struct {
			BusinessStats  models.BusinessStats
			ReportStats    models.ReportStats
			TriageTokens   int
			TriageRequests int
			TriageCostUSD  float64
		}{*bstats, *rstats, tokens, requests, cost}
		if err := ExecuteTemplate(w, "analytics.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}
