package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"business-verification-portal/pkg/logging"
)

func writeAdminsYAML(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "admins.yaml")
	yamlContent := `"10.0.1.5":
  id: 123456
  name: "A. Mensah"
"10.0.1.8":
  id: 789012
  name: "K. Osei"
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return yamlPath
}

func newTestResolver(t *testing.T, yamlPath string) *AdminResolver {
	t.Helper()
	resolver := &AdminResolver{
		ipToAdmin: make(map[string]Admin),
		yamlPath:  yamlPath,
		log:       logging.NewNop(),
	}
	if err := resolver.loadConfig(yamlPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return resolver
}

func TestAdminResolver_ResolveAdmin(t *testing.T) {
	resolver := newTestResolver(t, writeAdminsYAML(t))

	tests := []struct {
		name          string
		remoteAddr    string
		xForwardedFor string
		xRealIP       string
		expectedID    int
		expectedFound bool
	}{
		{
			name:          "Valid IP - RemoteAddr",
			remoteAddr:    "10.0.1.5:12345",
			expectedID:    123456,
			expectedFound: true,
		},
		{
			name:          "Valid IP - X-Forwarded-For",
			remoteAddr:    "192.168.1.1:12345",
			xForwardedFor: "10.0.1.8",
			expectedID:    789012,
			expectedFound: true,
		},
		{
			name:          "Valid IP - X-Real-IP",
			remoteAddr:    "192.168.1.1:12345",
			xRealIP:       "10.0.1.5",
			expectedID:    123456,
			expectedFound: true,
		},
		{
			name:          "X-Forwarded-For list takes first",
			remoteAddr:    "192.168.1.1:12345",
			xForwardedFor: "10.0.1.8,172.16.0.1",
			expectedID:    789012,
			expectedFound: true,
		},
		{
			name:          "Unknown IP",
			remoteAddr:    "203.0.113.7:44321",
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			admin, found := resolver.ResolveAdmin(req)
			if found != tt.expectedFound {
				t.Fatalf("found = %v, want %v", found, tt.expectedFound)
			}
			if found && admin.ID != tt.expectedID {
				t.Errorf("admin.ID = %d, want %d", admin.ID, tt.expectedID)
			}
		})
	}
}

func TestAdminResolver_Reload(t *testing.T) {
	yamlPath := writeAdminsYAML(t)
	resolver := newTestResolver(t, yamlPath)

	updated := `"10.0.2.9":
  id: 555555
  name: "New Officer"
`
	if err := os.WriteFile(yamlPath, []byte(updated), 0644); err != nil {
		t.Fatalf("Failed to rewrite YAML: %v", err)
	}
	if err := resolver.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.RemoteAddr = "10.0.2.9:1000"
	admin, found := resolver.ResolveAdmin(req)
	if !found || admin.ID != 555555 {
		t.Fatalf("after reload: admin=%+v found=%v", admin, found)
	}

	req.RemoteAddr = "10.0.1.5:1000"
	if _, found := resolver.ResolveAdmin(req); found {
		t.Error("stale mapping survived reload")
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	resolver := newTestResolver(t, writeAdminsYAML(t))

	var unauthorizedIP string
	mw := NewAdminAuthMiddleware(resolver, func(w http.ResponseWriter, ip string) {
		unauthorizedIP = ip
		w.WriteHeader(http.StatusForbidden)
	})

	var gotAdmin Admin
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAdmin, _ = AdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.RemoteAddr = "10.0.1.5:9999"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("mapped IP got %d, want 200", rr.Code)
	}
	if gotAdmin.ID != 123456 || gotAdmin.Name != "A. Mensah" {
		t.Errorf("context admin = %+v", gotAdmin)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.RemoteAddr = "198.51.100.4:1234"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("unmapped IP got %d, want 403", rr.Code)
	}
	if unauthorizedIP != "198.51.100.4" {
		t.Errorf("unauthorized page IP = %q", unauthorizedIP)
	}
}
