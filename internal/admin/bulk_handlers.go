package admin

import (
	"fmt"
	"net/http"
	"time"

	"business-verification-portal/internal/bulkload"
	"business-verification-portal/internal/domain"
	"business-verification-portal/pkg/logging"
)

// maxImportBytes caps CSV uploads.
const maxImportBytes = 10 << 20

// ImportPageHandler renders the import form.
func ImportPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := struct {
			Imported  int
			RowErrors []bulkload.RowError
		}{}
		if err := ExecuteTemplate(w, "import.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

// ImportHandler accepts a CSV upload and inserts the parseable rows.
func ImportHandler(repo domain.Repository, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("admin")
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "CSV file required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		businesses, rowErrs, err := bulkload.Import(file)
		if err != nil {
			http.Error(w, fmt.Sprintf("import failed: %v", err), http.StatusBadRequest)
			return
		}

		inserted := 0
		if len(businesses) > 0 {
			inserted, err = repo.BulkInsertBusinessesCtx(r.Context(), businesses)
			if err != nil {
				http.Error(w, fmt.Sprintf("insert failed: %v", err), http.StatusInternalServerError)
				return
			}
		}

		log.Info("bulk import finished",
			logging.Int("inserted", inserted), logging.Int("rejected", len(rowErrs)))
		data := struct {
			Imported  int
			RowErrors []bulkload.RowError
		}{inserted, rowErrs}
		if err := ExecuteTemplate(w, "import.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

// ExportHandler streams the registry as CSV.
func ExportHandler(repo domain.Repository, log *logging.Logger) http.HandlerFunc {
	log = log.WithComponent("admin")
	return func(w http.ResponseWriter, r *http.Request) {
		// The registry is small enough to export in one page.
		businesses, _, err := repo.GetBusinessesFilteredCtx(r.Context(), "", "", 100000, 0)
		if err != nil {
			http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("registry-%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		if err := bulkload.Export(w, businesses); err != nil {
			log.Error("export write failed", err)
		}
	}
}
