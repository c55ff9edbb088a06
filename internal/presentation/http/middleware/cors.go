package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/config"
)

var (
	defaultCORSOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

	// the dashboard cannot work without these, whatever CORS_ALLOWED_HEADERS says
	requiredCORSHeaders = []string{"Authorization", "Content-Type", IdempotencyKeyHeader}

	// the dashboard reads these from responses: request ids for support
	// tickets, rate limit budget, replay markers and the xlsx file name
	exposedCORSHeaders = []string{
		"Content-Length",
		"Content-Disposition",
		"X-Request-ID",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
		ReplayedHeader,
	}
)

// CORSMiddleware builds the gin-contrib/cors handler for the dashboard origins.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     withHeaders(cfg.AllowedHeaders, requiredCORSHeaders...),
		ExposeHeaders:    exposedCORSHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// withHeaders appends each of extra missing from headers, compared case-insensitively.
func withHeaders(headers []string, extra ...string) []string {
	out := append([]string(nil), headers...)
	for _, h := range extra {
		found := false
		for _, have := range out {
			if strings.EqualFold(have, h) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, h)
		}
	}
	return out
}
