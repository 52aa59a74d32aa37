// Package addrcheck verifies registered business addresses against the
// Google Maps geocoding API before an inspection is scheduled. The check
// is best effort: when the geocoder is unreachable the inspection is
// created without a verification snapshot.
package addrcheck

import (
	"context"
	"strings"

	"business-verification-portal/internal/constants"
	"business-verification-portal/internal/models"
	"business-verification-portal/pkg/circuit"
	"business-verification-portal/pkg/logging"

	"googlemaps.github.io/maps"
)

// Snapshot is the geocoder's view of an address at verification time.
type Snapshot struct {
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PlaceID          string  `json:"place_id"`
	Partial          bool    `json:"partial"`
}

// geocoder is the slice of the maps client the verifier uses.
type geocoder interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Verifier wraps the geocoder in a circuit breaker so a Maps outage
// degrades to unverified inspections instead of piling up latency.
type Verifier struct {
	client  geocoder
	breaker *circuit.Breaker
	log     *logging.Logger
	region  string
}

func New(apiKey string, log *logging.Logger) (*Verifier, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return NewWithClient(client, log), nil
}

// NewWithClient exists for tests and custom client setups.
func NewWithClient(client geocoder, log *logging.Logger) *Verifier {
	return &Verifier{
		client: client,
		log:    log.WithComponent("addrcheck"),
		region: "gh",
		breaker: circuit.New(circuit.Config{
			Name:              "maps_geocode",
			OperationTimeout:  constants.GeocodeOperationTimeout,
			OpenFor:           constants.GeocodeOpenFor,
			MaxConsecFailures: 3,
			WindowSize:        20,
			FailureRate:       constants.CircuitFailureRate,
			SlowCallThreshold: constants.GeocodeSlowCallThreshold,
			SlowCallRate:      constants.CircuitSlowCallRate,
		}, log),
	}
}

// VerifyAddress geocodes a business address. A nil snapshot with nil error
// means the geocoder had no result; errors mean the service was unusable.
func (v *Verifier) VerifyAddress(ctx context.Context, address, city, region string) (*Snapshot, error) {
	full := joinAddress(address, city, region)
	if full == "" {
		return nil, nil
	}

	var snap *Snapshot
	err := v.breaker.Do(ctx, func(ctx context.Context) error {
		results, err := v.client.Geocode(ctx, &maps.GeocodingRequest{
			Address: full,
			Region:  v.region,
		})
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		r := results[0]
		snap = &Snapshot{
			FormattedAddress: r.FormattedAddress,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
			PlaceID:          r.PlaceID,
			Partial:          r.PartialMatch,
		}
		return nil
	}, nil)
	if err != nil {
		v.log.Warn("geocode unavailable, inspection will be unverified",
			logging.String("address", full), logging.Err(err))
		return nil, err
	}
	return snap, nil
}

// AttachSnapshot copies a verification snapshot onto an inspection.
// A nil snapshot leaves the inspection unverified.
func AttachSnapshot(in *models.Inspection, snap *Snapshot) {
	if snap == nil {
		return
	}
	addr := snap.FormattedAddress
	lat, lng, placeID := snap.Lat, snap.Lng, snap.PlaceID
	in.VerifiedAddress = &addr
	in.Lat = &lat
	in.Lng = &lng
	in.PlaceID = &placeID
}

func joinAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}
