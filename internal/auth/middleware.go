// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/metrics"
	"github.com/tomtom215/palisade/internal/middleware"
	"github.com/tomtom215/palisade/internal/models"
)

// EventRecorder receives auth.access_denied events for rejected credentials.
type EventRecorder interface {
	Record(ctx context.Context, in detection.EventInput) detection.Event
}

// DefaultAnonymousRole is the role given to every caller in none mode.
const DefaultAnonymousRole = "admin"

// Middleware authenticates requests to the administrative API.
type Middleware struct {
	mode          AuthMode
	jwtManager    *JWTManager
	recorder      EventRecorder
	anonymousRole string
}

// NewMiddleware creates the authentication middleware. jwtManager may be nil
// in none mode; recorder may be nil to skip security event recording.
func NewMiddleware(mode AuthMode, jwtManager *JWTManager, recorder EventRecorder, anonymousRole string) *Middleware {
	if anonymousRole == "" {
		anonymousRole = DefaultAnonymousRole
	}
	return &Middleware{
		mode:          mode,
		jwtManager:    jwtManager,
		recorder:      recorder,
		anonymousRole: anonymousRole,
	}
}

// Authenticate is middleware that enforces authentication
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.mode == AuthModeNone || m.jwtManager == nil {
			subject := &AuthSubject{
				ID:         "anonymous",
				Roles:      []string{m.anonymousRole},
				Issuer:     "local",
				AuthMethod: AuthModeNone,
			}
			next(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
			return
		}

		token, err := bearerToken(r)
		if err != nil {
			m.reject(w, r, "missing", err)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.reject(w, r, "invalid", err)
			return
		}

		subject := AuthSubjectFromClaims(claims)
		ctx := ContextWithSubject(r.Context(), subject)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidCredentials
	}
	return strings.TrimSpace(token), nil
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, reason string, err error) {
	metrics.RecordAuthFailure(reason)
	logging.Ctx(r.Context()).Debug().
		Str("reason", reason).
		Str("error", logging.SanitizeValue(err.Error())).
		Str("path", logging.SanitizeValue(r.URL.Path)).
		Msg("Authentication rejected")

	if m.recorder != nil {
		m.recorder.Record(r.Context(), detection.EventInput{
			Type:      detection.EventAccessDenied,
			Severity:  detection.SeverityMedium,
			IPAddress: middleware.ClientIP(r),
			UserAgent: r.UserAgent(),
			Action:    "bearer token rejected",
			Resource:  r.URL.Path,
			Result:    detection.ResultFailure,
			Details:   map[string]interface{}{"reason": reason, "method": r.Method},
		})
	}

	message := "Authentication required"
	if !errors.Is(err, ErrNoCredentials) {
		message = "Invalid or expired token"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="palisade"`)
	WriteError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, message)
}

// WriteError writes a models.APIResponse error envelope. It is shared with
// the authorization layer, which cannot import the api package.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	data, err := json.Marshal(models.NewErrorResponse(code, message))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal error response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write error response")
	}
}
