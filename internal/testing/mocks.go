package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/models"
	errs "business-verification-portal/pkg/errors"
)

// MemoryRepository is an in-memory domain.Repository for handler tests.
// Err, when set, is returned by every method; use it to exercise the
// degrade-to-empty paths.
type MemoryRepository struct {
	Mu          sync.Mutex
	Businesses  []models.Business
	Reports     []models.FraudReport
	Inspections []models.Inspection
	Err         error

	nextReportID     int64
	nextInspectionID int64
}

func NewMemoryRepository(businesses ...models.Business) *MemoryRepository {
	return &MemoryRepository{Businesses: businesses}
}

var _ domain.Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) GetBusinessesFilteredCtx(ctx context.Context, status, search string, limit, offset int) ([]models.Business, int, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	var matched []models.Business
	for _, b := range m.Businesses {
		if status != "" && b.Status != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(search)) &&
			!strings.Contains(b.RegistrationNumber, search) {
			continue
		}
		matched = append(matched, b)
	}
	total := len(matched)
	if offset >= len(matched) {
		return []models.Business{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *MemoryRepository) GetBusinessByIDCtx(ctx context.Context, id string) (*models.Business, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Businesses {
		if m.Businesses[i].ID == id {
			b := m.Businesses[i]
			return &b, nil
		}
	}
	return nil, errs.NewBiz("testutil.GetBusinessByIDCtx", fmt.Sprintf("business %s not found", id), sql.ErrNoRows)
}

func (m *MemoryRepository) GetRecentBusinessesCtx(ctx context.Context, limit int) ([]models.Business, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]models.Business(nil), m.Businesses...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) GetBusinessesOrderedByNameCtx(ctx context.Context, limit int) ([]models.Business, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]models.Business(nil), m.Businesses...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) SearchBusinessesCtx(ctx context.Context, term string, limit int) ([]models.Business, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Business
	for _, b := range m.Businesses {
		if b.Status != models.StatusVerified {
			continue
		}
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(term)) || b.RegistrationNumber == term {
			out = append(out, b)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) GetBusinessStatisticsCtx(ctx context.Context) (*models.BusinessStats, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var s models.BusinessStats
	for _, b := range m.Businesses {
		switch b.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusVerified:
			s.Verified++
		case models.StatusSuspended:
			s.Suspended++
		case models.StatusRejected:
			s.Rejected++
		}
		s.Total++
	}
	return &s, nil
}

func (m *MemoryRepository) UpdateBusinessStatusCtx(ctx context.Context, id, status, note string, adminID int) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Businesses {
		if m.Businesses[i].ID == id {
			now := time.Now()
			m.Businesses[i].Status = status
			m.Businesses[i].AdminNote = &note
			m.Businesses[i].UpdatedAt = &now
			if status == models.StatusVerified {
				m.Businesses[i].VerifiedBy = &adminID
				m.Businesses[i].VerifiedAt = &now
			}
			return nil
		}
	}
	return errs.NewBiz("testutil.UpdateBusinessStatusCtx", fmt.Sprintf("business %s not found", id), sql.ErrNoRows)
}

func (m *MemoryRepository) BulkInsertBusinessesCtx(ctx context.Context, businesses []models.Business) (int, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	for _, b := range businesses {
		for _, existing := range m.Businesses {
			if existing.ID == b.ID {
				return 0, errs.NewDB("testutil.BulkInsertBusinessesCtx", fmt.Sprintf("duplicate id %s", b.ID), nil)
			}
		}
	}
	m.Businesses = append(m.Businesses, businesses...)
	return len(businesses), nil
}

func (m *MemoryRepository) CreateFraudReportCtx(ctx context.Context, r *models.FraudReport) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextReportID++
	rep := *r
	rep.ID = m.nextReportID
	if rep.Status == "" {
		rep.Status = models.ReportOpen
	}
	rep.CreatedAt = time.Now()
	m.Reports = append(m.Reports, rep)
	return rep.ID, nil
}

func (m *MemoryRepository) GetFraudReportsCtx(ctx context.Context, status string, limit int) ([]models.FraudReport, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.FraudReport
	for _, r := range m.Reports {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) GetFraudReportsForBusinessCtx(ctx context.Context, businessID string) ([]models.FraudReport, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.FraudReport
	for _, r := range m.Reports {
		if r.BusinessID == businessID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryRepository) ResolveFraudReportCtx(ctx context.Context, id int64, status, note string, adminID int) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Reports {
		if m.Reports[i].ID == id {
			now := time.Now()
			m.Reports[i].Status = status
			m.Reports[i].ResolvedBy = &adminID
			m.Reports[i].ResolutionNote = &note
			m.Reports[i].ResolvedAt = &now
			return nil
		}
	}
	return errs.NewBiz("testutil.ResolveFraudReportCtx", fmt.Sprintf("report %d not found", id), sql.ErrNoRows)
}

func (m *MemoryRepository) GetReportStatisticsCtx(ctx context.Context) (*models.ReportStats, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var s models.ReportStats
	for _, r := range m.Reports {
		switch r.Status {
		case models.ReportOpen:
			s.Open++
		case models.ReportInvestigating:
			s.Investigating++
		case models.ReportResolved:
			s.Resolved++
		case models.ReportDismissed:
			s.Dismissed++
		}
		s.Total++
	}
	return &s, nil
}

func (m *MemoryRepository) CreateInspectionCtx(ctx context.Context, in *models.Inspection) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextInspectionID++
	insp := *in
	insp.ID = m.nextInspectionID
	if insp.Outcome == "" {
		insp.Outcome = models.InspectionScheduled
	}
	insp.CreatedAt = time.Now()
	m.Inspections = append(m.Inspections, insp)
	return insp.ID, nil
}

func (m *MemoryRepository) ListInspectionsCtx(ctx context.Context, businessID string, limit int) ([]models.Inspection, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Inspection
	for _, in := range m.Inspections {
		if businessID == "" || in.BusinessID == businessID {
			out = append(out, in)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MemoryUnitOfWorkFactory hands out units of work over a shared
// MemoryRepository. Rollback after Commit is a no-op, matching the SQL
// implementation; actual write reversal is not simulated.
type MemoryUnitOfWorkFactory struct {
	Repo *MemoryRepository

	BeginErr  error
	CommitErr error
	Commits   int
	Rollbacks int
}

func (f *MemoryUnitOfWorkFactory) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	if f.BeginErr != nil {
		return nil, f.BeginErr
	}
	return &memoryUnitOfWork{f: f, MemoryRepository: f.Repo}, nil
}

type memoryUnitOfWork struct {
	*MemoryRepository
	f      *MemoryUnitOfWorkFactory
	closed bool
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error { return nil }

func (u *memoryUnitOfWork) Commit() error {
	if u.f.CommitErr != nil {
		return u.f.CommitErr
	}
	u.closed = true
	u.f.Commits++
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	if u.closed {
		return nil
	}
	u.closed = true
	u.f.Rollbacks++
	return nil
}

func (m *MemoryRepository) CompleteInspectionCtx(ctx context.Context, id int64, outcome, notes string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Inspections {
		if m.Inspections[i].ID == id {
			now := time.Now()
			m.Inspections[i].Outcome = outcome
			m.Inspections[i].Notes = &notes
			m.Inspections[i].CompletedAt = &now
			return nil
		}
	}
	return errs.NewBiz("testutil.CompleteInspectionCtx", fmt.Sprintf("inspection %d not found", id), sql.ErrNoRows)
}
