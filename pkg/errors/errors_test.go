package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := NewDB("database.GetBusinessByID", "query failed", errors.New("timeout"))
	want := "db: database.GetBusinessByID: query failed: timeout"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestExternalUsesSystemPrefix(t *testing.T) {
	err := NewExternal("addrcheck.Verify", "google", "geocode failed", nil)
	want := "google: addrcheck.Verify: geocode failed"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := NewValidation("config.Load", "bad threshold", nil)
	wrapped := fmt.Errorf("startup: %w", inner)
	if KindOf(wrapped) != KindValidation {
		t.Fatalf("KindOf(wrapped) = %q, want validation", KindOf(wrapped))
	}
	if !IsKind(wrapped, KindValidation) {
		t.Fatalf("IsKind should see through wrapping")
	}
	if IsKind(wrapped, KindDB) {
		t.Fatalf("IsKind matched the wrong kind")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain error should have no kind")
	}
}
