package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	strictCSP = "default-src 'self'"

	// docsCSP lets the Scalar bundle load its scripts, fonts and styles
	docsCSP = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.jsdelivr.net; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com https://cdn.jsdelivr.net; " +
		"font-src 'self' https://fonts.gstatic.com https://cdn.jsdelivr.net data:; " +
		"img-src 'self' data: https: blob:; " +
		"connect-src 'self'; " +
		"worker-src 'self' blob:"

	noStore = "no-store, no-cache, must-revalidate, private"
)

var staticSecurityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
}

// SecurityHeaders sets the hardening headers on every response. Transaction data,
// whether a result page or an export download, is never stored by caches; the docs
// routes get a CSP that admits the Scalar bundle and leave caching to their handler.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			for _, kv := range staticSecurityHeaders {
				header.Set(kv[0], kv[1])
			}

			if isDocsPath(c.Path()) {
				header.Set("Content-Security-Policy", docsCSP)
				return next(c)
			}

			header.Set("Content-Security-Policy", strictCSP)
			header.Set("Cache-Control", noStore)
			header.Set("Pragma", "no-cache")
			header.Set("Expires", "0")
			return next(c)
		}
	}
}

func isDocsPath(path string) bool {
	return path == "/docs" || strings.HasPrefix(path, "/docs/")
}
