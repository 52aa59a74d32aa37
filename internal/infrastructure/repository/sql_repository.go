package repository

import (
	"context"

	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/models"
	"business-verification-portal/pkg/database"
)

// SQLRepository is a thin adapter over pkg/database.DB to satisfy domain
// repositories. It keeps handlers decoupled from the SQL layer.
type SQLRepository struct {
	db *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Ensure interface compliance at compile time
var _ domain.Repository = (*SQLRepository)(nil)

// BusinessRepository methods
func (r *SQLRepository) GetBusinessesFilteredCtx(ctx context.Context, status string, search string, limit int, offset int) ([]models.Business, int, error) {
	return r.db.GetBusinessesFilteredCtx(ctx, status, search, limit, offset)
}

func (r *SQLRepository) GetBusinessByIDCtx(ctx context.Context, id string) (*models.Business, error) {
	return r.db.GetBusinessByIDCtx(ctx, id)
}

func (r *SQLRepository) GetRecentBusinessesCtx(ctx context.Context, limit int) ([]models.Business, error) {
	return r.db.GetRecentBusinessesCtx(ctx, limit)
}

func (r *SQLRepository) GetBusinessesOrderedByNameCtx(ctx context.Context, limit int) ([]models.Business, error) {
	return r.db.GetBusinessesOrderedByNameCtx(ctx, limit)
}

func (r *SQLRepository) SearchBusinessesCtx(ctx context.Context, term string, limit int) ([]models.Business, error) {
	return r.db.SearchBusinessesCtx(ctx, term, limit)
}

func (r *SQLRepository) GetBusinessStatisticsCtx(ctx context.Context) (*models.BusinessStats, error) {
	return r.db.GetBusinessStatisticsCtx(ctx)
}

func (r *SQLRepository) UpdateBusinessStatusCtx(ctx context.Context, id string, status string, note string, adminID int) error {
	return r.db.UpdateBusinessStatusCtx(ctx, id, status, note, adminID)
}

func (r *SQLRepository) BulkInsertBusinessesCtx(ctx context.Context, businesses []models.Business) (int, error) {
	return r.db.BulkInsertBusinessesCtx(ctx, businesses)
}

// ReportRepository methods
func (r *SQLRepository) CreateFraudReportCtx(ctx context.Context, rep *models.FraudReport) (int64, error) {
	return r.db.CreateFraudReportCtx(ctx, rep)
}

func (r *SQLRepository) GetFraudReportsCtx(ctx context.Context, status string, limit int) ([]models.FraudReport, error) {
	return r.db.GetFraudReportsCtx(ctx, status, limit)
}

func (r *SQLRepository) GetFraudReportsForBusinessCtx(ctx context.Context, businessID string) ([]models.FraudReport, error) {
	return r.db.GetFraudReportsForBusinessCtx(ctx, businessID)
}

func (r *SQLRepository) ResolveFraudReportCtx(ctx context.Context, id int64, status string, note string, adminID int) error {
	return r.db.ResolveFraudReportCtx(ctx, id, status, note, adminID)
}

func (r *SQLRepository) GetReportStatisticsCtx(ctx context.Context) (*models.ReportStats, error) {
	return r.db.GetReportStatisticsCtx(ctx)
}

// InspectionRepository methods
func (r *SQLRepository) CreateInspectionCtx(ctx context.Context, in *models.Inspection) (int64, error) {
	return r.db.CreateInspectionCtx(ctx, in)
}

func (r *SQLRepository) ListInspectionsCtx(ctx context.Context, businessID string, limit int) ([]models.Inspection, error) {
	return r.db.ListInspectionsCtx(ctx, businessID, limit)
}

func (r *SQLRepository) CompleteInspectionCtx(ctx context.Context, id int64, outcome string, notes string) error {
	return r.db.CompleteInspectionCtx(ctx, id, outcome, notes)
}
