package domain

import "context"

// UnitOfWork coordinates a set of repository operations within a single
// database transaction. Suspending a business while resolving the report
// that triggered it is the main consumer.
//
// Typical usage:
//  uow, err := factory.Begin(ctx)
//  if err != nil { ... }
//  defer uow.Rollback()
//  if err := uow.UpdateBusinessStatusCtx(ctx, id, status, note, adminID); err != nil { ... }
//  if err := uow.ResolveFraudReportCtx(ctx, reportID, resolution, note, adminID); err != nil { ... }
//  if err := uow.Commit(); err != nil { ... }
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BusinessRepository
	ReportRepository
}

// UnitOfWorkFactory starts new UnitOfWork instances.
// A returned UnitOfWork is already begun; Begin may be a no-op.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
