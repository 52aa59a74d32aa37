package events

import (
	"context"
	"database/sql"
	"time"

	"business-verification-portal/internal/constants"
	errs "business-verification-portal/pkg/errors"
)

// SQLEventStore stores audit events in a MySQL table with ordered IDs.
// Table schema:
// CREATE TABLE IF NOT EXISTS business_events (
//   id BIGINT AUTO_INCREMENT PRIMARY KEY,
//   business_id VARCHAR(64) NOT NULL,
//   type VARCHAR(64) NOT NULL,
//   at DATETIME(6) NOT NULL,
//   admin_id INT NULL,
//   data JSON NOT NULL,
//   KEY idx_business_id (business_id),
//   KEY idx_business_time (business_id, id)
// );
// NOTE: JSON may be emulated as LONGTEXT on older MySQL variants.
type SQLEventStore struct {
	conn *sql.DB
}

var _ EventStore = (*SQLEventStore)(nil)

func NewSQLEventStore(conn *sql.DB) (*SQLEventStore, error) {
	s := &SQLEventStore{conn: conn}
	if err := s.ensureTable(); err != nil {
		return nil, errs.NewDB("events.NewSQLEventStore", "ensure business_events table", err)
	}
	return s, nil
}

func (s *SQLEventStore) ensureTable() error {
	qry := `CREATE TABLE IF NOT EXISTS business_events (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		business_id VARCHAR(64) NOT NULL,
		type VARCHAR(64) NOT NULL,
		at DATETIME(6) NOT NULL,
		admin_id INT NULL,
		data JSON NOT NULL,
		KEY idx_business_id (business_id),
		KEY idx_business_time (business_id, id)
	)`
	_, err := s.conn.Exec(qry)
	return err
}

func (s *SQLEventStore) Append(ctx context.Context, evs ...Event) error {
	if len(evs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, constants.EventsSQLTimeoutDefault)
	defer cancel()

	const qry = `INSERT INTO business_events (business_id, type, at, admin_id, data) VALUES (?, ?, ?, ?, ?)`
	for _, e := range evs {
		payload, err := e.MarshalData()
		if err != nil {
			return errs.NewDB("events.Append", "marshal event payload", err)
		}
		ts := e.Timestamp()
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := s.conn.ExecContext(ctx, qry, e.BusinessID(), e.Type(), ts, e.Admin(), payload); err != nil {
			return errs.NewDB("events.Append", "insert event", err)
		}
	}
	return nil
}

func (s *SQLEventStore) ListByBusiness(ctx context.Context, businessID string) ([]StoredEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.EventsSQLTimeoutDefault)
	defer cancel()

	const qry = `SELECT id, business_id, type, at, admin_id, data
		FROM business_events WHERE business_id = ? ORDER BY id ASC`
	rows, err := s.conn.QueryContext(ctx, qry, businessID)
	if err != nil {
		return nil, errs.NewDB("events.ListByBusiness", "query events", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var se StoredEvent
		if err := rows.Scan(&se.Seq, &se.BusinessID, &se.Type, &se.Ts, &se.AdminID, &se.Payload); err != nil {
			return nil, errs.NewDB("events.ListByBusiness", "scan event row", err)
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

func (s *SQLEventStore) ReplayBusiness(ctx context.Context, businessID string) (*RebuiltState, error) {
	evs, err := s.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return Replay(evs), nil
}
