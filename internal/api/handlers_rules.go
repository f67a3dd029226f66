// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/models"
)

// Stats handles GET /api/v1/security/stats?range=1h|24h|7d|30d.
// @Summary Security statistics
// @Description Aggregates retained events over a time range, with the top offending addresses
// @Tags Events
// @Produce json
// @Param range query string false "Time range" Enums(1h, 24h, 7d, 30d) default(24h)
// @Success 200 {object} models.APIResponse{data=detection.Stats}
// @Failure 400 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := StatsRequest{Range: r.URL.Query().Get("range")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	tr, err := detection.ParseTimeRange(req.Range)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "range must be one of: 1h, 24h, 7d, 30d", nil)
		return
	}

	respondSuccess(w, http.StatusOK, h.engine.Stats(tr), start, nil)
}

// Rules handles GET /api/v1/security/rules. Rules are listed in
// evaluation order.
// @Summary List detection rules
// @Tags Rules
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]detection.Rule}
// @Security BearerAuth
// @Router /security/rules [get]
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rules := h.engine.Rules()
	respondSuccess(w, http.StatusOK, rules, start, intPtr(len(rules)))
}

// UpdateRule handles PATCH /api/v1/security/rules/{id}.
// @Summary Update a detection rule
// @Description Applies a partial update. Absent fields are unchanged; clear_threshold removes the threshold
// @Tags Rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param patch body RulePatchRequest true "Fields to change"
// @Success 200 {object} models.APIResponse{data=detection.Rule}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/rules/{id} [patch]
func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	var req RulePatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	fields := req.changedFields()
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Patch changes no fields", nil)
		return
	}

	rule, err := h.engine.UpdateRule(r.Context(), id, req.Patch())
	if err != nil {
		respondEngineError(w, err)
		return
	}

	h.recordAdminChange(r, "rule updated", r.URL.Path, map[string]interface{}{
		"rule_id": rule.ID,
		"fields":  fields,
		"enabled": rule.Enabled,
		"action":  string(rule.Action),
	})
	respondSuccess(w, http.StatusOK, rule, start, nil)
}
