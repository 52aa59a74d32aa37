package domain

import (
	"context"

	"business-verification-portal/internal/models"
)

// BusinessRepository defines data access for registry listings and the
// record sets the similarity scanners operate on.
type BusinessRepository interface {
	GetBusinessesFilteredCtx(ctx context.Context, status string, search string, limit int, offset int) ([]models.Business, int, error)
	GetBusinessByIDCtx(ctx context.Context, id string) (*models.Business, error)
	GetRecentBusinessesCtx(ctx context.Context, limit int) ([]models.Business, error)
	GetBusinessesOrderedByNameCtx(ctx context.Context, limit int) ([]models.Business, error)
	SearchBusinessesCtx(ctx context.Context, term string, limit int) ([]models.Business, error)
	GetBusinessStatisticsCtx(ctx context.Context) (*models.BusinessStats, error)

	UpdateBusinessStatusCtx(ctx context.Context, id string, status string, note string, adminID int) error
	BulkInsertBusinessesCtx(ctx context.Context, businesses []models.Business) (int, error)
}

// ReportRepository defines access for fraud reports.
type ReportRepository interface {
	CreateFraudReportCtx(ctx context.Context, r *models.FraudReport) (int64, error)
	GetFraudReportsCtx(ctx context.Context, status string, limit int) ([]models.FraudReport, error)
	GetFraudReportsForBusinessCtx(ctx context.Context, businessID string) ([]models.FraudReport, error)
	ResolveFraudReportCtx(ctx context.Context, id int64, status string, note string, adminID int) error
	GetReportStatisticsCtx(ctx context.Context) (*models.ReportStats, error)
}

// InspectionRepository defines access for site visits.
type InspectionRepository interface {
	CreateInspectionCtx(ctx context.Context, in *models.Inspection) (int64, error)
	ListInspectionsCtx(ctx context.Context, businessID string, limit int) ([]models.Inspection, error)
	CompleteInspectionCtx(ctx context.Context, id int64, outcome string, notes string) error
}

// Repository aggregates the repos commonly required by handlers.
type Repository interface {
	BusinessRepository
	ReportRepository
	InspectionRepository
}
