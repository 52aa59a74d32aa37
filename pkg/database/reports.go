package database

import (
	"context"
	"database/sql"
	"fmt"

	"business-verification-portal/internal/models"
	errs "business-verification-portal/pkg/errors"
)

const reportColumns = `r.id, r.reference, r.business_id, COALESCE(b.name, ''), r.reporter_name,
        r.reporter_contact, r.details, r.status, r.triage_summary, r.triage_priority,
        r.resolved_by, r.resolution_note, r.created_at, r.resolved_at`

func scanReportRow(rows *sql.Rows) (*models.FraudReport, error) {
	var r models.FraudReport
	err := rows.Scan(
		&r.ID, &r.Reference, &r.BusinessID, &r.BusinessName, &r.ReporterName,
		&r.ReporterContact, &r.Details, &r.Status, &r.TriageSummary, &r.TriagePriority,
		&r.ResolvedBy, &r.ResolutionNote, &r.CreatedAt, &r.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateFraudReportCtx stores a new report and returns its row ID.
func (db *DB) CreateFraudReportCtx(ctx context.Context, r *models.FraudReport) (int64, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	result, err := db.stmts["insertFraudReport"].ExecContext(ctx,
		r.Reference, r.BusinessID, r.ReporterName, r.ReporterContact, r.Details,
		r.TriageSummary, r.TriagePriority)
	if err != nil {
		return 0, errs.NewDB("database.CreateFraudReportCtx", "failed to insert fraud report", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errs.NewDB("database.CreateFraudReportCtx", "failed to read insert id", err)
	}
	return id, nil
}

// GetFraudReportsCtx lists reports, optionally filtered by status,
// newest first with triage priority breaking ties.
func (db *DB) GetFraudReportsCtx(ctx context.Context, status string, limit int) ([]models.FraudReport, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := "SELECT " + reportColumns + ` FROM fraud_reports r
        LEFT JOIN businesses b ON b.id = r.business_id`
	var args []any
	if status != "" {
		query += " WHERE r.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY COALESCE(r.triage_priority, 0) DESC, r.created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.GetFraudReportsCtx", "failed to query fraud reports", err)
	}
	defer rows.Close()

	var reports []models.FraudReport
	for rows.Next() {
		r, err := scanReportRow(rows)
		if err != nil {
			return nil, errs.NewDB("database.GetFraudReportsCtx", "failed to scan report row", err)
		}
		reports = append(reports, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetFraudReportsCtx", "row iteration error", err)
	}
	return reports, nil
}

// GetFraudReportsForBusinessCtx lists all reports filed against one business.
func (db *DB) GetFraudReportsForBusinessCtx(ctx context.Context, businessID string) ([]models.FraudReport, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := "SELECT " + reportColumns + ` FROM fraud_reports r
        LEFT JOIN businesses b ON b.id = r.business_id
        WHERE r.business_id = ? ORDER BY r.created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, errs.NewDB("database.GetFraudReportsForBusinessCtx", "failed to query fraud reports", err)
	}
	defer rows.Close()

	var reports []models.FraudReport
	for rows.Next() {
		r, err := scanReportRow(rows)
		if err != nil {
			return nil, errs.NewDB("database.GetFraudReportsForBusinessCtx", "failed to scan report row", err)
		}
		reports = append(reports, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetFraudReportsForBusinessCtx", "row iteration error", err)
	}
	return reports, nil
}

// ResolveFraudReportCtx closes a report as resolved or dismissed.
func (db *DB) ResolveFraudReportCtx(ctx context.Context, id int64, status, note string, adminID int) error {
	if status != models.ReportResolved && status != models.ReportDismissed {
		return errs.NewValidation("database.ResolveFraudReportCtx",
			fmt.Sprintf("invalid resolution status %q", status), nil)
	}
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	result, err := db.stmts["resolveFraudReport"].ExecContext(ctx, status, adminID, note, id)
	if err != nil {
		return errs.NewDB("database.ResolveFraudReportCtx", "failed to resolve fraud report", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NewBiz("database.ResolveFraudReportCtx", fmt.Sprintf("report %d not found", id), sql.ErrNoRows)
	}
	return nil
}

// ResolveFraudReportTx is the transactional variant used by the unit of work.
func (db *DB) ResolveFraudReportTx(ctx context.Context, tx *sql.Tx, id int64, status, note string, adminID int) error {
	if status != models.ReportResolved && status != models.ReportDismissed {
		return errs.NewValidation("database.ResolveFraudReportTx",
			fmt.Sprintf("invalid resolution status %q", status), nil)
	}
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	result, err := tx.ExecContext(ctx, `UPDATE fraud_reports SET status = ?, resolved_by = ?,
        resolution_note = ?, resolved_at = NOW() WHERE id = ?`, status, adminID, note, id)
	if err != nil {
		return errs.NewDB("database.ResolveFraudReportTx", "failed to resolve fraud report", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NewBiz("database.ResolveFraudReportTx", fmt.Sprintf("report %d not found", id), sql.ErrNoRows)
	}
	return nil
}

// GetReportStatisticsCtx returns report counts by status for analytics.
func (db *DB) GetReportStatisticsCtx(ctx context.Context) (*models.ReportStats, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := `SELECT
        COALESCE(SUM(status = 'open'), 0),
        COALESCE(SUM(status = 'investigating'), 0),
        COALESCE(SUM(status = 'resolved'), 0),
        COALESCE(SUM(status = 'dismissed'), 0),
        COUNT(*)
        FROM fraud_reports`

	var s models.ReportStats
	err := db.conn.QueryRowContext(ctx, query).Scan(&s.Open, &s.Investigating, &s.Resolved, &s.Dismissed, &s.Total)
	if err != nil {
		return nil, errs.NewDB("database.GetReportStatisticsCtx", "failed to query report statistics", err)
	}
	return &s, nil
}
