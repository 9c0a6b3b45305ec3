package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/odo-atelier/budget-api/internal/config"
)

// swaggerPrefix serves the interactive docs, whose inline scripts a strict CSP would block
const swaggerPrefix = "/swagger/"

// SecurityHeaders sets the configured security headers on every response.
// API responses are additionally marked non-cacheable since budgets are private.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	static := map[string]string{
		"X-Frame-Options":    cfg.FrameOptions,
		"X-XSS-Protection":   cfg.XSSProtection,
		"Referrer-Policy":    cfg.ReferrerPolicy,
		"Permissions-Policy": cfg.PermissionsPolicy,
	}
	if cfg.ContentTypeNosniff {
		static["X-Content-Type-Options"] = "nosniff"
	}
	if cfg.EnableHSTS {
		hsts := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		static["Strict-Transport-Security"] = hsts
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range static {
				if value != "" {
					h.Set(name, value)
				}
			}

			if cfg.ContentSecurityPolicy != "" && !strings.HasPrefix(r.URL.Path, swaggerPrefix) {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if strings.HasPrefix(r.URL.Path, "/api/") {
				h.Set("Cache-Control", "no-store")
			}

			h.Del("X-Powered-By")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}
