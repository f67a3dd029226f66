// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/palisade/internal/auth"
	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/middleware"
	ws "github.com/tomtom215/palisade/internal/websocket"
)

// SecurityRecorder records security events. *detection.Engine satisfies it.
type SecurityRecorder interface {
	Record(ctx context.Context, in detection.EventInput) detection.Event
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerConfig holds the collaborators of Handler. Hub and Store may be
// nil: without a hub the stream endpoint answers 503, without a store
// readiness only reflects the process.
type HandlerConfig struct {
	Engine         *detection.Engine
	Hub            *ws.Hub
	Store          Pinger
	AllowedOrigins []string
}

// Handler serves the administrative security API.
type Handler struct {
	engine         *detection.Engine
	hub            *ws.Hub
	store          Pinger
	allowedOrigins []string
	startTime      time.Time
}

// NewHandler creates the API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		engine:         cfg.Engine,
		hub:            cfg.Hub,
		store:          cfg.Store,
		allowedOrigins: cfg.AllowedOrigins,
		startTime:      time.Now(),
	}
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Browsers
// always send Origin, so a missing header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", logging.SanitizeValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// recordAdminChange records an admin.config_change event attributed to the
// authenticated subject.
func (h *Handler) recordAdminChange(r *http.Request, action, resource string, details map[string]interface{}) {
	in := detection.EventInput{
		Type:      detection.EventConfigChange,
		Severity:  detection.SeverityMedium,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Action:    action,
		Resource:  resource,
		Result:    detection.ResultSuccess,
		Details:   details,
	}
	if subject := auth.GetAuthSubject(r.Context()); subject != nil {
		in.UserID = subject.ID
	}
	h.engine.Record(r.Context(), in)
}
