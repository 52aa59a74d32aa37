package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"business-verification-portal/internal/constants"
	"business-verification-portal/internal/models"
	"business-verification-portal/pkg/config"
	errs "business-verification-portal/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
)

type DB struct {
	conn         *sql.DB
	stmts        map[string]*sql.Stmt
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(50)
	conn.SetMaxIdleConns(15)
	conn.SetConnMaxLifetime(10 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{
		conn:         conn,
		stmts:        make(map[string]*sql.Stmt),
		readTimeout:  constants.DBReadTimeoutDefault,
		writeTimeout: constants.DBWriteTimeoutDefault,
	}

	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.New", "failed to prepare statements", err)
	}

	return db, nil
}

// NewWithConfig creates a database connection using configured pool settings.
func NewWithConfig(databaseURL string, cfg *config.Config) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	rt := cfg.DBReadTimeout
	if rt == 0 {
		rt = constants.DBReadTimeoutDefault
	}
	wt := cfg.DBWriteTimeout
	if wt == 0 {
		wt = constants.DBWriteTimeoutDefault
	}

	db := &DB{
		conn:         conn,
		stmts:        make(map[string]*sql.Stmt),
		readTimeout:  rt,
		writeTimeout: wt,
	}

	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.NewWithConfig", "failed to prepare statements", err)
	}

	return db, nil
}

// prepareStatements prepares frequently used SQL statements
func (db *DB) prepareStatements() error {
	statements := map[string]string{
		"updateBusinessStatus": `UPDATE businesses SET status = ?, admin_note = ?, updated_at = NOW(),
                             verified_by = ?, verified_at = CASE WHEN ? = 'verified' THEN NOW() ELSE verified_at END
                             WHERE id = ?`,
		"insertFraudReport": `INSERT INTO fraud_reports
                             (reference, business_id, reporter_name, reporter_contact, details,
                              status, triage_summary, triage_priority, created_at)
                             VALUES (?, ?, ?, ?, ?, 'open', ?, ?, NOW())`,
		"resolveFraudReport": `UPDATE fraud_reports SET status = ?, resolved_by = ?, resolution_note = ?,
                             resolved_at = NOW() WHERE id = ?`,
	}

	for name, query := range statements {
		stmt, err := db.conn.Prepare(query)
		if err != nil {
			return errs.NewDB("database.prepareStatements", fmt.Sprintf("failed to prepare statement %s", name), err)
		}
		db.stmts[name] = stmt
	}

	return nil
}

// Close closes database connection and prepared statements
func (db *DB) Close() error {
	for _, stmt := range db.stmts {
		stmt.Close()
	}
	return db.conn.Close()
}

// Conn exposes the underlying handle for health checks and the event store.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// withReadTimeout creates a context with standard read timeout.
func (db *DB) withReadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.readTimeout)
}

// withWriteTimeout creates a context with standard write timeout.
func (db *DB) withWriteTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.writeTimeout)
}

const businessColumns = `id, name, registration_number, category, status, address, city, region,
        phone, email, website, owner_name, tax_id, employee_count, admin_note,
        verified_by, verified_at, created_at, updated_at`

// scanBusinessRow scans a complete business row into a Business struct
func (db *DB) scanBusinessRow(rows *sql.Rows) (*models.Business, error) {
	var b models.Business
	err := rows.Scan(
		&b.ID, &b.Name, &b.RegistrationNumber, &b.Category, &b.Status,
		&b.Address, &b.City, &b.Region, &b.Phone, &b.Email, &b.Website,
		&b.OwnerName, &b.TaxID, &b.EmployeeCount, &b.AdminNote,
		&b.VerifiedBy, &b.VerifiedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBusinessesFilteredCtx retrieves a page of businesses with optional
// status and free-text filters. Returns the page and the total count for
// pagination.
func (db *DB) GetBusinessesFilteredCtx(ctx context.Context, status, search string, limit, offset int) ([]models.Business, int, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	var conds []string
	var args []any
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if search != "" {
		conds = append(conds, "(name LIKE ? OR registration_number LIKE ? OR city LIKE ?)")
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM businesses"+where, args...).Scan(&total); err != nil {
		return nil, 0, errs.NewDB("database.GetBusinessesFilteredCtx", "failed to count businesses", err)
	}

	query := "SELECT " + businessColumns + " FROM businesses" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := db.conn.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errs.NewDB("database.GetBusinessesFilteredCtx", "failed to query businesses", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := db.scanBusinessRow(rows)
		if err != nil {
			return nil, 0, errs.NewDB("database.GetBusinessesFilteredCtx", "failed to scan business row", err)
		}
		businesses = append(businesses, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, errs.NewDB("database.GetBusinessesFilteredCtx", "row iteration error", err)
	}

	return businesses, total, nil
}

// GetBusinessByIDCtx retrieves a single business by ID.
func (db *DB) GetBusinessByIDCtx(ctx context.Context, id string) (*models.Business, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := "SELECT " + businessColumns + " FROM businesses WHERE id = ?"
	rows, err := db.conn.QueryContext(ctx, query, id)
	if err != nil {
		return nil, errs.NewDB("database.GetBusinessByIDCtx", "failed to query business", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errs.NewDB("database.GetBusinessByIDCtx", "row iteration error", err)
		}
		return nil, errs.NewBiz("database.GetBusinessByIDCtx", fmt.Sprintf("business %s not found", id), sql.ErrNoRows)
	}
	return db.scanBusinessRow(rows)
}

// GetRecentBusinessesCtx returns the newest registrations, capped at limit.
// Used by the dashboard similarity scan.
func (db *DB) GetRecentBusinessesCtx(ctx context.Context, limit int) ([]models.Business, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := "SELECT " + businessColumns + " FROM businesses ORDER BY created_at DESC LIMIT ?"
	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errs.NewDB("database.GetRecentBusinessesCtx", "failed to query recent businesses", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := db.scanBusinessRow(rows)
		if err != nil {
			return nil, errs.NewDB("database.GetRecentBusinessesCtx", "failed to scan business row", err)
		}
		businesses = append(businesses, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetRecentBusinessesCtx", "row iteration error", err)
	}
	return businesses, nil
}

// GetBusinessesOrderedByNameCtx returns businesses in name order, capped at
// limit. Used by the similarity review page.
func (db *DB) GetBusinessesOrderedByNameCtx(ctx context.Context, limit int) ([]models.Business, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := "SELECT " + businessColumns + " FROM businesses ORDER BY name ASC LIMIT ?"
	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errs.NewDB("database.GetBusinessesOrderedByNameCtx", "failed to query businesses", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := db.scanBusinessRow(rows)
		if err != nil {
			return nil, errs.NewDB("database.GetBusinessesOrderedByNameCtx", "failed to scan business row", err)
		}
		businesses = append(businesses, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetBusinessesOrderedByNameCtx", "row iteration error", err)
	}
	return businesses, nil
}

// SearchBusinessesCtx is the public registry search: name or registration
// number, verified listings only.
func (db *DB) SearchBusinessesCtx(ctx context.Context, term string, limit int) ([]models.Business, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := "SELECT " + businessColumns + ` FROM businesses
        WHERE status = 'verified' AND (name LIKE ? OR registration_number = ?)
        ORDER BY name ASC LIMIT ?`
	rows, err := db.conn.QueryContext(ctx, query, "%"+term+"%", term, limit)
	if err != nil {
		return nil, errs.NewDB("database.SearchBusinessesCtx", "failed to search businesses", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := db.scanBusinessRow(rows)
		if err != nil {
			return nil, errs.NewDB("database.SearchBusinessesCtx", "failed to scan business row", err)
		}
		businesses = append(businesses, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDB("database.SearchBusinessesCtx", "row iteration error", err)
	}
	return businesses, nil
}

// UpdateBusinessStatusCtx sets a business status with an admin note.
func (db *DB) UpdateBusinessStatusCtx(ctx context.Context, id, status, note string, adminID int) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	result, err := db.stmts["updateBusinessStatus"].ExecContext(ctx, status, note, adminID, status, id)
	if err != nil {
		return errs.NewDB("database.UpdateBusinessStatusCtx", "failed to update business status", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NewBiz("database.UpdateBusinessStatusCtx", fmt.Sprintf("business %s not found", id), sql.ErrNoRows)
	}
	return nil
}

// UpdateBusinessStatusTx is the transactional variant used by the unit of work.
func (db *DB) UpdateBusinessStatusTx(ctx context.Context, tx *sql.Tx, id, status, note string, adminID int) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	result, err := tx.ExecContext(ctx, `UPDATE businesses SET status = ?, admin_note = ?, updated_at = NOW(),
        verified_by = ?, verified_at = CASE WHEN ? = 'verified' THEN NOW() ELSE verified_at END
        WHERE id = ?`, status, note, adminID, status, id)
	if err != nil {
		return errs.NewDB("database.UpdateBusinessStatusTx", "failed to update business status", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NewBiz("database.UpdateBusinessStatusTx", fmt.Sprintf("business %s not found", id), sql.ErrNoRows)
	}
	return nil
}

// GetBusinessStatisticsCtx returns registry-wide counts for the dashboard.
func (db *DB) GetBusinessStatisticsCtx(ctx context.Context) (*models.BusinessStats, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := `SELECT
        COALESCE(SUM(status = 'pending'), 0),
        COALESCE(SUM(status = 'verified'), 0),
        COALESCE(SUM(status = 'suspended'), 0),
        COALESCE(SUM(status = 'rejected'), 0),
        COUNT(*)
        FROM businesses`

	var s models.BusinessStats
	err := db.conn.QueryRowContext(ctx, query).Scan(&s.Pending, &s.Verified, &s.Suspended, &s.Rejected, &s.Total)
	if err != nil {
		return nil, errs.NewDB("database.GetBusinessStatisticsCtx", "failed to query business statistics", err)
	}
	return &s, nil
}

// BulkInsertBusinessesCtx inserts imported businesses in a single
// transaction. Rows with duplicate IDs abort the whole batch.
func (db *DB) BulkInsertBusinessesCtx(ctx context.Context, businesses []models.Business) (int, error) {
	if len(businesses) == 0 {
		return 0, nil
	}
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.NewDB("database.BulkInsertBusinessesCtx", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO businesses
        (id, name, registration_number, category, status, address, city, region,
         phone, email, website, owner_name, tax_id, employee_count, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`)
	if err != nil {
		return 0, errs.NewDB("database.BulkInsertBusinessesCtx", "failed to prepare insert", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range businesses {
		b := &businesses[i]
		status := b.Status
		if status == "" {
			status = models.StatusPending
		}
		_, err := stmt.ExecContext(ctx, b.ID, b.Name, b.RegistrationNumber, b.Category, status,
			b.Address, b.City, b.Region, b.Phone, b.Email, b.Website,
			b.OwnerName, b.TaxID, b.EmployeeCount)
		if err != nil {
			return 0, errs.NewDB("database.BulkInsertBusinessesCtx",
				fmt.Sprintf("failed to insert business %s", b.ID), err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.NewDB("database.BulkInsertBusinessesCtx", "failed to commit", err)
	}
	return inserted, nil
}
