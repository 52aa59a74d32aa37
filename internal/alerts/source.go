// Package alerts adapts the similarity engine to its three call sites:
// the dashboard alert widget, the review page and the pre-submit fraud
// check on public search. All adapters degrade to empty results when the
// registry fetch fails; similarity alerts are advisory and must never
// take a host page down with them.
package alerts

import (
	"context"

	"business-verification-portal/internal/constants"
	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/models"
	"business-verification-portal/internal/similarity"
)

// RecordSource fetches the candidate set for a similarity scan.
type RecordSource func(ctx context.Context) ([]similarity.Record, error)

// RecordsFromBusinesses projects registry rows onto scan records.
func RecordsFromBusinesses(businesses []models.Business) []similarity.Record {
	records := make([]similarity.Record, 0, len(businesses))
	for _, b := range businesses {
		records = append(records, similarity.Record{
			ID:                 b.ID,
			Name:               b.Name,
			RegistrationNumber: b.RegistrationNumber,
		})
	}
	return records
}

// RecentRecordSource feeds the dashboard scan: newest registrations first,
// capped at DashboardScanRecords.
func RecentRecordSource(repo domain.BusinessRepository) RecordSource {
	return func(ctx context.Context) ([]similarity.Record, error) {
		businesses, err := repo.GetRecentBusinessesCtx(ctx, constants.DashboardScanRecords)
		if err != nil {
			return nil, err
		}
		return RecordsFromBusinesses(businesses), nil
	}
}

// NameOrderedRecordSource feeds the review page scan: alphabetical, capped
// at ReviewScanRecords.
func NameOrderedRecordSource(repo domain.BusinessRepository) RecordSource {
	return func(ctx context.Context) ([]similarity.Record, error) {
		businesses, err := repo.GetBusinessesOrderedByNameCtx(ctx, constants.ReviewScanRecords)
		if err != nil {
			return nil, err
		}
		return RecordsFromBusinesses(businesses), nil
	}
}
