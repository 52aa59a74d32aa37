package repository

import (
	"context"
	"database/sql"
	"fmt"

	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/models"
	"business-verification-portal/pkg/database"
)

// SQLUnitOfWorkFactory starts SQL-backed UnitOfWork transactions.
type SQLUnitOfWorkFactory struct {
	db *database.DB
}

func NewSQLUnitOfWorkFactory(db *database.DB) *SQLUnitOfWorkFactory {
	return &SQLUnitOfWorkFactory{db: db}
}

// Ensure interface conformance
var _ domain.UnitOfWorkFactory = (*SQLUnitOfWorkFactory)(nil)

func (f *SQLUnitOfWorkFactory) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	tx, err := f.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("uow: begin tx: %w", err)
	}
	return &SQLUnitOfWork{db: f.db, tx: tx}, nil
}

// SQLUnitOfWork coordinates operations using a single *sql.Tx.
type SQLUnitOfWork struct {
	db *database.DB
	tx *sql.Tx
	// simple guard to avoid double commit/rollback
	closed bool
}

var _ domain.UnitOfWork = (*SQLUnitOfWork)(nil)

func (u *SQLUnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return nil
	}
	tx, err := u.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("uow: begin: %w", err)
	}
	u.tx = tx
	return nil
}

func (u *SQLUnitOfWork) Commit() error {
	if u.closed {
		return nil
	}
	u.closed = true
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit()
}

func (u *SQLUnitOfWork) Rollback() error {
	if u.closed {
		return nil
	}
	u.closed = true
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback()
}

// Writes go through the transaction.
func (u *SQLUnitOfWork) UpdateBusinessStatusCtx(ctx context.Context, id string, status string, note string, adminID int) error {
	if u.tx == nil {
		return fmt.Errorf("uow: no active transaction for UpdateBusinessStatusCtx")
	}
	return u.db.UpdateBusinessStatusTx(ctx, u.tx, id, status, note, adminID)
}

func (u *SQLUnitOfWork) ResolveFraudReportCtx(ctx context.Context, id int64, status string, note string, adminID int) error {
	if u.tx == nil {
		return fmt.Errorf("uow: no active transaction for ResolveFraudReportCtx")
	}
	return u.db.ResolveFraudReportTx(ctx, u.tx, id, status, note, adminID)
}

func (u *SQLUnitOfWork) BulkInsertBusinessesCtx(ctx context.Context, businesses []models.Business) (int, error) {
	return u.db.BulkInsertBusinessesCtx(ctx, businesses)
}

func (u *SQLUnitOfWork) CreateFraudReportCtx(ctx context.Context, r *models.FraudReport) (int64, error) {
	return u.db.CreateFraudReportCtx(ctx, r)
}

// Reads can be served outside the tx as needed
func (u *SQLUnitOfWork) GetBusinessesFilteredCtx(ctx context.Context, status string, search string, limit int, offset int) ([]models.Business, int, error) {
	return u.db.GetBusinessesFilteredCtx(ctx, status, search, limit, offset)
}

func (u *SQLUnitOfWork) GetBusinessByIDCtx(ctx context.Context, id string) (*models.Business, error) {
	return u.db.GetBusinessByIDCtx(ctx, id)
}

func (u *SQLUnitOfWork) GetRecentBusinessesCtx(ctx context.Context, limit int) ([]models.Business, error) {
	return u.db.GetRecentBusinessesCtx(ctx, limit)
}

func (u *SQLUnitOfWork) GetBusinessesOrderedByNameCtx(ctx context.Context, limit int) ([]models.Business, error) {
	return u.db.GetBusinessesOrderedByNameCtx(ctx, limit)
}

func (u *SQLUnitOfWork) SearchBusinessesCtx(ctx context.Context, term string, limit int) ([]models.Business, error) {
	return u.db.SearchBusinessesCtx(ctx, term, limit)
}

func (u *SQLUnitOfWork) GetBusinessStatisticsCtx(ctx context.Context) (*models.BusinessStats, error) {
	return u.db.GetBusinessStatisticsCtx(ctx)
}

func (u *SQLUnitOfWork) GetFraudReportsCtx(ctx context.Context, status string, limit int) ([]models.FraudReport, error) {
	return u.db.GetFraudReportsCtx(ctx, status, limit)
}

func (u *SQLUnitOfWork) GetFraudReportsForBusinessCtx(ctx context.Context, businessID string) ([]models.FraudReport, error) {
	return u.db.GetFraudReportsForBusinessCtx(ctx, businessID)
}

func (u *SQLUnitOfWork) GetReportStatisticsCtx(ctx context.Context) (*models.ReportStats, error) {
	return u.db.GetReportStatisticsCtx(ctx)
}
