package addrcheck

import (
	"context"
	"errors"
	"testing"

	"business-verification-portal/internal/models"
	"business-verification-portal/pkg/logging"

	"googlemaps.github.io/maps"
)

type stubGeocoder struct {
	results []maps.GeocodingResult
	err     error
}

func (s *stubGeocoder) Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	return s.results, s.err
}

func TestVerifyAddress(t *testing.T) {
	stub := &stubGeocoder{results: []maps.GeocodingResult{{
		FormattedAddress: "12 High Street, Accra, Ghana",
		PlaceID:          "place-123",
	}}}
	stub.results[0].Geometry.Location.Lat = 5.56
	stub.results[0].Geometry.Location.Lng = -0.2

	v := NewWithClient(stub, logging.NewNop())
	snap, err := v.VerifyAddress(context.Background(), "12 High Street", "Accra", "")
	if err != nil {
		t.Fatalf("VerifyAddress: %v", err)
	}
	if snap == nil || snap.FormattedAddress != "12 High Street, Accra, Ghana" || snap.PlaceID != "place-123" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Lat != 5.56 || snap.Lng != -0.2 {
		t.Errorf("coords = %v,%v", snap.Lat, snap.Lng)
	}
}

func TestVerifyAddress_NoResult(t *testing.T) {
	v := NewWithClient(&stubGeocoder{}, logging.NewNop())
	snap, err := v.VerifyAddress(context.Background(), "nowhere", "", "")
	if err != nil || snap != nil {
		t.Fatalf("snap=%v err=%v, want nil,nil for no result", snap, err)
	}
}

func TestVerifyAddress_EmptyAddress(t *testing.T) {
	v := NewWithClient(&stubGeocoder{err: errors.New("should not be called")}, logging.NewNop())
	snap, err := v.VerifyAddress(context.Background(), "  ", "", "")
	if err != nil || snap != nil {
		t.Fatalf("blank address should skip geocoding, got snap=%v err=%v", snap, err)
	}
}

func TestVerifyAddress_GeocoderError(t *testing.T) {
	v := NewWithClient(&stubGeocoder{err: errors.New("quota exceeded")}, logging.NewNop())
	if _, err := v.VerifyAddress(context.Background(), "12 High Street", "Accra", ""); err == nil {
		t.Fatal("expected error from failing geocoder")
	}
}

func TestAttachSnapshot(t *testing.T) {
	var in models.Inspection
	AttachSnapshot(&in, nil)
	if in.VerifiedAddress != nil {
		t.Fatal("nil snapshot should leave inspection unverified")
	}

	AttachSnapshot(&in, &Snapshot{FormattedAddress: "addr", Lat: 1, Lng: 2, PlaceID: "p"})
	if in.VerifiedAddress == nil || *in.VerifiedAddress != "addr" {
		t.Fatalf("VerifiedAddress = %v", in.VerifiedAddress)
	}
	if in.Lat == nil || *in.Lat != 1 || in.Lng == nil || *in.Lng != 2 || in.PlaceID == nil || *in.PlaceID != "p" {
		t.Errorf("snapshot fields not attached: %+v", in)
	}
}

func TestJoinAddress(t *testing.T) {
	if got := joinAddress("a", "", " b "); got != "a, b" {
		t.Fatalf("joinAddress = %q", got)
	}
	if got := joinAddress("", "  "); got != "" {
		t.Fatalf("joinAddress = %q, want empty", got)
	}
}
