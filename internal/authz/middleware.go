// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package authz

import (
	"net/http"
	"strings"

	"github.com/tomtom215/palisade/internal/auth"
	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/metrics"
	"github.com/tomtom215/palisade/internal/middleware"
	"github.com/tomtom215/palisade/internal/models"
)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
	recorder auth.EventRecorder
}

// NewMiddleware creates a new authorization middleware. recorder may be nil.
func NewMiddleware(enforcer *Enforcer, recorder auth.EventRecorder) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		recorder: recorder,
	}
}

// AuthorizeRequest derives the action from the HTTP method and authorizes
// the authenticated subject against the request path.
func (m *Middleware) AuthorizeRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := auth.GetAuthSubject(r.Context())
		if subject == nil {
			metrics.RecordAuthzDecision("deny")
			auth.WriteError(w, http.StatusForbidden, models.ErrCodeForbidden, "Forbidden: no authentication context")
			return
		}

		action := methodToAction(r.Method)
		object := r.URL.Path

		allowed, err := m.enforcer.EnforceWithRoles(subject.ID, subject.Roles, object, action)
		if err != nil {
			metrics.RecordAuthzDecision("error")
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			auth.WriteError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Internal server error")
			return
		}

		if !allowed {
			metrics.RecordAuthzDecision("deny")
			m.recordDenial(r, subject, action)
			auth.WriteError(w, http.StatusForbidden, models.ErrCodeForbidden, "Forbidden: insufficient permissions")
			return
		}

		metrics.RecordAuthzDecision("allow")
		next(w, r)
	}
}

func (m *Middleware) recordDenial(r *http.Request, subject *auth.AuthSubject, action string) {
	logging.Ctx(r.Context()).Warn().
		Str("subject", logging.SanitizeValue(subject.ID)).
		Str("roles", logging.SanitizeValue(strings.Join(subject.Roles, ","))).
		Str("action", action).
		Str("path", logging.SanitizeValue(r.URL.Path)).
		Msg("Access denied: insufficient permissions")

	if m.recorder == nil {
		return
	}
	m.recorder.Record(r.Context(), detection.EventInput{
		Type:      detection.EventAccessDenied,
		Severity:  detection.SeverityMedium,
		UserID:    subject.ID,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Action:    action,
		Resource:  r.URL.Path,
		Result:    detection.ResultFailure,
		Details:   map[string]interface{}{"method": r.Method, "roles": strings.Join(subject.Roles, ",")},
	})
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}
