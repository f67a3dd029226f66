// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/middleware"
	"github.com/tomtom215/palisade/internal/models"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// Rate limiting configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns a secure default configuration.
// CORS origins default to empty, requiring explicit configuration.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins:   []string{},
		CORSAllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSExposedHeaders:   []string{"X-Request-ID"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: false,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config   *ChiMiddlewareConfig
	cors     func(http.Handler) http.Handler
	recorder SecurityRecorder
}

// NewChiMiddleware creates a Chi middleware factory. recorder receives
// security.rate_limit_exceeded events and may be nil.
func NewChiMiddleware(config *ChiMiddlewareConfig, recorder SecurityRecorder) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   config.CORSAllowedMethods,
		AllowedHeaders:   config.CORSAllowedHeaders,
		ExposedHeaders:   config.CORSExposedHeaders,
		AllowCredentials: config.CORSAllowCredentials,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config:   config,
		cors:     corsHandler,
		recorder: recorder,
	}
}

// CORS returns a Chi-compatible CORS middleware using go-chi/cors.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns a per-address limiter using go-chi/httprate. It keys on
// the address resolved by middleware.ClientIPResolver, so it must run after
// that middleware. Rejections are recorded as security events.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(keyByClientIP),
		httprate.WithLimitHandler(m.onLimit),
	)
}

func keyByClientIP(r *http.Request) (string, error) {
	return middleware.ClientIP(r), nil
}

func (m *ChiMiddleware) onLimit(w http.ResponseWriter, r *http.Request) {
	ip := middleware.ClientIP(r)
	logging.Ctx(r.Context()).Warn().
		Str("ip", logging.SanitizeIP(ip)).
		Str("path", logging.SanitizeValue(r.URL.Path)).
		Msg("Rate limit exceeded")

	if m.recorder != nil {
		m.recorder.Record(r.Context(), detection.EventInput{
			Type:      detection.EventRateLimitExceeded,
			Severity:  detection.SeverityMedium,
			IPAddress: ip,
			UserAgent: r.UserAgent(),
			Action:    "request rate limited",
			Resource:  r.URL.Path,
			Result:    detection.ResultBlocked,
			Details: map[string]interface{}{
				"method":         r.Method,
				"limit":          m.config.RateLimitRequests,
				"window_seconds": int(m.config.RateLimitWindow.Seconds()),
			},
		})
	}

	w.Header().Set("Retry-After", retryAfter(m.config.RateLimitWindow))
	respondError(w, http.StatusTooManyRequests, models.ErrCodeRateLimitExceeded, "Too many requests", nil)
}

// APISecurityHeaders returns a middleware that adds security headers to API responses.
//
// Headers added:
//   - X-Content-Type-Options: nosniff
//   - X-Frame-Options: DENY
//   - Referrer-Policy: strict-origin-when-cross-origin
//   - Strict-Transport-Security, only over HTTPS or behind a TLS-terminating proxy
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}
