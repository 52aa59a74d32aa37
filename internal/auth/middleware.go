package auth

import (
	"context"
	"net/http"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// AdminKey is the context key for the resolved officer entry
	AdminKey contextKey = "admin"
	// ClientIPKey is the context key for the client IP address
	ClientIPKey contextKey = "client_ip"
)

// AdminAuthMiddleware resolves an officer from the client IP. Requests
// from unmapped IPs get the unauthorized page.
type AdminAuthMiddleware struct {
	resolver           *AdminResolver
	renderUnauthorized func(w http.ResponseWriter, ip string)
}

func NewAdminAuthMiddleware(resolver *AdminResolver, renderUnauthorized func(w http.ResponseWriter, ip string)) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		resolver:           resolver,
		renderUnauthorized: renderUnauthorized,
	}
}

// Handler wraps an HTTP handler with admin authentication
func (m *AdminAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := m.resolver.GetClientIP(r)

		if !m.resolver.IsLoaded() {
			m.renderUnauthorized(w, clientIP)
			return
		}

		admin, found := m.resolver.ResolveAdmin(r)
		if !found {
			m.renderUnauthorized(w, clientIP)
			return
		}

		ctx := context.WithValue(r.Context(), AdminKey, admin)
		ctx = context.WithValue(ctx, ClientIPKey, clientIP)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminFromContext retrieves the resolved officer from the request context.
func AdminFromContext(ctx context.Context) (Admin, bool) {
	admin, ok := ctx.Value(AdminKey).(Admin)
	return admin, ok
}

// ClientIPFromContext retrieves the client IP from the request context.
func ClientIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(ClientIPKey).(string)
	return ip, ok
}
