package auth

import (
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"business-verification-portal/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Admin is one registry officer entry from admins.yaml.
type Admin struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// AdminResolver resolves client IP addresses to registry officers. The
// portal sits behind the ministry VPN; source IP is the identity signal.
//
// admins.yaml maps IPs to officer entries:
//
//	"10.0.1.5":
//	  id: 123456
//	  name: "A. Mensah"
type AdminResolver struct {
	mu        sync.RWMutex
	ipToAdmin map[string]Admin
	loaded    bool
	yamlPath  string
	log       *logging.Logger
}

// NewAdminResolver loads admins.yaml from ADMINS_YAML_PATH or, failing
// that, the working directory. A missing file is not fatal; admin write
// actions stay blocked until the file appears and Reload succeeds.
func NewAdminResolver(log *logging.Logger) *AdminResolver {
	resolver := &AdminResolver{
		ipToAdmin: make(map[string]Admin),
		log:       log.WithComponent("auth"),
	}

	var yamlPath string
	if envPath := os.Getenv("ADMINS_YAML_PATH"); envPath != "" {
		yamlPath = envPath
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			resolver.log.Warn("cannot determine working directory", logging.Err(err))
			return resolver
		}
		yamlPath = filepath.Join(cwd, "admins.yaml")
	}

	if err := resolver.loadConfig(yamlPath); err != nil {
		resolver.log.Warn("admins.yaml not loaded, admin actions blocked",
			logging.String("path", yamlPath), logging.Err(err))
	} else {
		resolver.yamlPath = yamlPath
		resolver.log.Info("loaded admin IP mappings",
			logging.String("path", yamlPath), logging.Int("entries", len(resolver.ipToAdmin)))
	}

	return resolver
}

func (r *AdminResolver) loadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var config map[string]Admin
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ipToAdmin = config
	r.loaded = true
	return nil
}

// Reload re-reads the mapping from disk.
func (r *AdminResolver) Reload() error {
	if r.yamlPath == "" {
		return nil
	}
	return r.loadConfig(r.yamlPath)
}

// IsLoaded reports whether a mapping file has been read successfully.
func (r *AdminResolver) IsLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// ResolveAdmin maps the request's client IP to an officer entry.
func (r *AdminResolver) ResolveAdmin(req *http.Request) (Admin, bool) {
	ip := extractClientIP(req)

	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, found := r.ipToAdmin[ip]
	if !found {
		r.log.Warn("no admin mapping for client IP", logging.String("ip", ip))
	}
	return admin, found
}

// GetClientIP returns the client IP address from the request.
func (r *AdminResolver) GetClientIP(req *http.Request) string {
	return extractClientIP(req)
}

// extractClientIP handles X-Forwarded-For and X-Real-IP for reverse proxy
// setups before falling back to RemoteAddr.
func extractClientIP(req *http.Request) string {
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}
	if xri := req.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return ip
}

// parseFirstIP extracts the first IP from a comma-separated list.
func parseFirstIP(xff string) string {
	for i := 0; i < len(xff); i++ {
		if xff[i] == ',' {
			return xff[:i]
		}
	}
	return xff
}
