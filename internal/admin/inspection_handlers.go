package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"business-verification-portal/internal/addrcheck"
	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/models"
	"business-verification-portal/pkg/logging"

	"github.com/gorilla/mux"
)

// ScheduleInspectionHandler creates a site visit for a business. The
// registered address is verified against the geocoder first; an outage
// just leaves the snapshot empty.
func ScheduleInspectionHandler(repo domain.Repository, verifier *addrcheck.Verifier, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("admin")
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := mux.Vars(r)["id"]
		inspector := r.FormValue("inspector")
		if inspector == "" {
			http.Error(w, "inspector name required", http.StatusBadRequest)
			return
		}

		scheduledFor := time.Now().Add(72 * time.Hour)
		if raw := r.FormValue("scheduled_for"); raw != "" {
			if t, err := time.Parse("2006-01-02", raw); err == nil {
				scheduledFor = t
			}
		}

		business, err := repo.GetBusinessByIDCtx(r.Context(), businessID)
		if err != nil {
			http.Error(w, "Business not found", http.StatusNotFound)
			return
		}

		in := models.Inspection{
			BusinessID:   businessID,
			Inspector:    inspector,
			ScheduledFor: scheduledFor,
			Outcome:      models.InspectionScheduled,
		}

		if verifier != nil {
			snap, err := verifier.VerifyAddress(r.Context(),
				deref(business.Address), deref(business.City), deref(business.Region))
			if err != nil {
				log.Warn("address verification unavailable",
					logging.String("business_id", businessID), logging.Err(err))
			}
			addrcheck.AttachSnapshot(&in, snap)
		}

		if _, err := repo.CreateInspectionCtx(r.Context(), &in); err != nil {
			http.Error(w, fmt.Sprintf("failed to schedule inspection: %v", err), http.StatusInternalServerError)
			return
		}

		log.Info("inspection scheduled",
			logging.String("business_id", businessID),
			logging.String("inspector", inspector),
			logging.Bool("address_verified", in.VerifiedAddress != nil))
		http.Redirect(w, r, basePath+"admin/businesses/"+businessID, http.StatusSeeOther)
	}
}

// CompleteInspectionHandler records the outcome of a finished visit.
func CompleteInspectionHandler(repo domain.Repository, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("admin")
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "invalid inspection id", http.StatusBadRequest)
			return
		}
		outcome := r.FormValue("outcome")
		notes := r.FormValue("notes")

		if err := repo.CompleteInspectionCtx(r.Context(), id, outcome, notes); err != nil {
			http.Error(w, fmt.Sprintf("failed to complete inspection: %v", err), http.StatusInternalServerError)
			return
		}

		log.Info("inspection completed",
			logging.Int64("inspection_id", id), logging.String("outcome", outcome))
		if businessID := r.FormValue("business_id"); businessID != "" {
			http.Redirect(w, r, basePath+"admin/businesses/"+businessID, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, basePath+"admin", http.StatusSeeOther)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
