package admin

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"time"

	"business-verification-portal/internal/similarity"
)

// adminTemplates holds the parsed templates for the admin UI.
var adminTemplates *template.Template

// basePath holds the base path for URLs in templates
var basePath = "/"

// funcMap provides template helper functions used across templates.
var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"seq": func(start, end int) []int {
		var s []int
		for i := start; i <= end; i++ {
			s = append(s, i)
		}
		return s
	},
	"pct": func(score float64) int {
		return int(math.Round(score * 100))
	},
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"fmtTimePtr": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"strVal": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"intVal": func(i *int, def int) int {
		if i == nil {
			return def
		}
		return *i
	},
	"riskClass": func(risk similarity.Tier) string {
		// Tier strings are already css-safe (low/medium/high).
		return "risk-" + string(risk)
	},
	"basePath": func() string {
		return basePath
	},
}

// LoadTemplates parses the inline admin templates. Call at startup.
func LoadTemplates() error {
	t := template.New("").Funcs(funcMap)
	for name, src := range templateSources() {
		var err error
		t, err = t.New(name).Parse(src)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	adminTemplates = t
	return nil
}

// SetBasePath sets the base path for URLs in templates.
func SetBasePath(path string) {
	basePath = path
}

// ExecuteTemplate renders a named template to the ResponseWriter.
func ExecuteTemplate(w http.ResponseWriter, name string, data interface{}) error {
	if adminTemplates == nil {
		return fmt.Errorf("templates not loaded: call admin.LoadTemplates at startup")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return adminTemplates.ExecuteTemplate(w, name, data)
}

// RenderUnauthorized renders the unauthorized access page
func RenderUnauthorized(w http.ResponseWriter, ip string) {
	data := struct {
		IP string
	}{
		IP: ip,
	}
	w.WriteHeader(http.StatusForbidden)
	if err := ExecuteTemplate(w, "unauthorized.tmpl", data); err != nil {
		http.Error(w, "Unauthorized", http.StatusForbidden)
	}
}
