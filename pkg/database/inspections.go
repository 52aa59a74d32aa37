package database

import (
	"context"
	"database/sql"
	"fmt"

	"business-verification-portal/internal/models"
	errs "business-verification-portal/pkg/errors"
)

const inspectionColumns = `i.id, i.business_id, COALESCE(b.name, ''), i.inspector, i.scheduled_for,
        i.outcome, i.notes, i.created_at, i.completed_at,
        i.verified_address, i.lat, i.lng, i.place_id`

func scanInspectionRow(rows *sql.Rows) (*models.Inspection, error) {
	var in models.Inspection
	err := rows.Scan(
		&in.ID, &in.BusinessID, &in.BusinessName, &in.Inspector, &in.ScheduledFor,
		&in.Outcome, &in.Notes, &in.CreatedAt, &in.CompletedAt,
		&in.VerifiedAddress, &in.Lat, &in.Lng, &in.PlaceID,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// CreateInspectionCtx schedules a site visit, storing the geocoder snapshot
// when one was captured.
func (db *DB) CreateInspectionCtx(ctx context.Context, in *models.Inspection) (int64, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx, `INSERT INTO inspections
        (business_id, inspector, scheduled_for, outcome, notes,
         verified_address, lat, lng, place_id, created_at)
        VALUES (?, ?, ?, 'scheduled', ?, ?, ?, ?, ?, NOW())`,
		in.BusinessID, in.Inspector, in.ScheduledFor, in.Notes,
		in.VerifiedAddress, in.Lat, in.Lng, in.PlaceID)
	if err != nil {
		return 0, errs.NewDB("database.CreateInspectionCtx", "failed to insert inspection", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errs.NewDB("database.CreateInspectionCtx", "failed to read insert id", err)
	}
	return id, nil
}

// ListInspectionsCtx lists inspections, optionally for one business.
func (db *DB) ListInspectionsCtx(ctx context.Context, businessID string, limit int) ([]models.Inspection, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := "SELECT " + inspectionColumns + ` FROM inspections i
        LEFT JOIN businesses b ON b.id = i.business_id`
	var args []any
	if businessID != "" {
		query += " WHERE i.business_id = ?"
		args = append(args, businessID)
	}
	query += " ORDER BY i.scheduled_for DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.ListInspectionsCtx", "failed to query inspections", err)
	}
	defer rows.Close()

	var inspections []models.Inspection
	for rows.Next() {
		in, err := scanInspectionRow(rows)
		if err != nil {
			return nil, errs.NewDB("database.ListInspectionsCtx", "failed to scan inspection row", err)
		}
		inspections = append(inspections, *in)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDB("database.ListInspectionsCtx", "row iteration error", err)
	}
	return inspections, nil
}

// CompleteInspectionCtx records the outcome of a finished visit.
func (db *DB) CompleteInspectionCtx(ctx context.Context, id int64, outcome, notes string) error {
	switch outcome {
	case models.InspectionPassed, models.InspectionFailed, models.InspectionNoShow:
	default:
		return errs.NewValidation("database.CompleteInspectionCtx",
			fmt.Sprintf("invalid inspection outcome %q", outcome), nil)
	}
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE inspections SET outcome = ?, notes = ?, completed_at = NOW() WHERE id = ?`,
		outcome, notes, id)
	if err != nil {
		return errs.NewDB("database.CompleteInspectionCtx", "failed to update inspection", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NewBiz("database.CompleteInspectionCtx", fmt.Sprintf("inspection %d not found", id), sql.ErrNoRows)
	}
	return nil
}
