// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/models"
	ws "github.com/tomtom215/palisade/internal/websocket"
)

// Events handles GET /api/v1/security/events.
//
// Query parameters: type and severity (comma-separated), ip, email,
// result, since and until (RFC3339), limit (1-1000, default 100), offset.
// Results are newest first.
// @Summary List security events
// @Description Returns retained events newest first, filtered and paginated
// @Tags Events
// @Produce json
// @Param type query string false "Event types, comma-separated (e.g. auth.failed_login,security.sql_injection)"
// @Param severity query string false "Severities, comma-separated (low, medium, high, critical)"
// @Param ip query string false "Source address"
// @Param email query string false "User email"
// @Param result query string false "Result (success, failure, blocked)"
// @Param since query string false "Earliest timestamp (RFC3339)"
// @Param until query string false "Latest timestamp (RFC3339)"
// @Param limit query int false "Page size (1-1000)" default(100)
// @Param offset query int false "Events to skip" default(0)
// @Success 200 {object} models.APIResponse{data=[]detection.Event}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/events [get]
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	req := EventsRequest{
		Types:      parseCommaSeparated(q.Get("type")),
		Severities: parseCommaSeparated(q.Get("severity")),
		IP:         q.Get("ip"),
		Email:      q.Get("email"),
		Result:     q.Get("result"),
		Since:      q.Get("since"),
		Until:      q.Get("until"),
		Limit:      getIntParam(r, "limit", 100),
		Offset:     getIntParam(r, "offset", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	events := h.engine.Events(req.Filter())
	respondSuccess(w, http.StatusOK, events, start, intPtr(len(events)))
}

// RecordEvent handles POST /api/v1/security/events. Producers report
// events here; the stored event is returned with its ID and timestamp.
// @Summary Record a security event
// @Description Producers report an event; rules are evaluated against it before the response
// @Tags Events
// @Accept json
// @Produce json
// @Param event body EventRequest true "Event to record"
// @Success 201 {object} models.APIResponse{data=detection.Event}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/events [post]
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req EventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	ev := h.engine.Record(r.Context(), req.Input())
	respondSuccess(w, http.StatusCreated, ev, start, nil)
}

// EventStream handles GET /api/v1/security/events/stream, upgrading to a
// websocket that receives every new event at or above min_severity.
// @Summary Stream security events
// @Description Upgrades to a WebSocket delivering {"type":"security_event","data":Event} messages
// @Tags Realtime
// @Param min_severity query string false "Lowest severity delivered" Enums(low, medium, high, critical) default(low)
// @Success 101 "Switching Protocols"
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/events/stream [get]
func (h *Handler) EventStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Event stream unavailable", nil)
		return
	}

	minSeverity := detection.Severity(r.URL.Query().Get("min_severity"))
	if minSeverity == "" {
		minSeverity = detection.SeverityLow
	}
	if !minSeverity.Valid() {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "min_severity must be one of: low, medium, high, critical", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ws.NewClient(h.hub, conn, minSeverity).Start()
}
