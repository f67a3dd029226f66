// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package api

import (
	"net/http"
	"net/netip"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/palisade/internal/models"
)

// BlockResponse reports the outcome of a block or unblock request.
type BlockResponse struct {
	IP      string `json:"ip"`
	Blocked bool   `json:"blocked"`
	Changed bool   `json:"changed"`
}

// RiskResponse is the body of GET /risk/{ip}.
type RiskResponse struct {
	IP        string `json:"ip"`
	RiskLevel string `json:"risk_level"`
}

// ipParam reads and parses the {ip} route parameter. IPv6 addresses may
// arrive percent-encoded.
func ipParam(r *http.Request) (netip.Addr, bool) {
	raw := chi.URLParam(r, "ip")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// BlockedIPs handles GET /api/v1/security/blocked, newest first.
// @Summary List blocked addresses
// @Tags Blocks
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]detection.BlockEntry}
// @Security BearerAuth
// @Router /security/blocked [get]
func (h *Handler) BlockedIPs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entries := h.engine.BlockedIPs()
	respondSuccess(w, http.StatusOK, entries, start, intPtr(len(entries)))
}

// BlockIP handles POST /api/v1/security/blocked. It answers 201 when the
// address is newly blocked and 200 when it already was.
// @Summary Block an address
// @Tags Blocks
// @Accept json
// @Produce json
// @Param block body BlockRequest true "Address and reason"
// @Success 200 {object} models.APIResponse{data=BlockResponse} "Already blocked"
// @Success 201 {object} models.APIResponse{data=BlockResponse} "Newly blocked"
// @Failure 400 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/blocked [post]
func (h *Handler) BlockIP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BlockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	added, err := h.engine.BlockIP(r.Context(), req.IP, req.Reason)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	addr, _ := netip.ParseAddr(req.IP)
	ip := addr.Unmap().String()
	status := http.StatusOK
	if added {
		status = http.StatusCreated
		h.recordAdminChange(r, "address blocked", r.URL.Path, map[string]interface{}{
			"blocked_ip": ip,
			"reason":     req.Reason,
		})
	}
	respondSuccess(w, status, BlockResponse{IP: ip, Blocked: true, Changed: added}, start, nil)
}

// UnblockIP handles DELETE /api/v1/security/blocked/{ip}.
// @Summary Unblock an address
// @Tags Blocks
// @Produce json
// @Param ip path string true "Address (IPv6 may be percent-encoded)"
// @Success 200 {object} models.APIResponse{data=BlockResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/blocked/{ip} [delete]
func (h *Handler) UnblockIP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	addr, ok := ipParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid IP address", nil)
		return
	}
	ip := addr.String()

	if !h.engine.UnblockIP(r.Context(), ip) {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Address is not blocked", nil)
		return
	}

	h.recordAdminChange(r, "address unblocked", r.URL.Path, map[string]interface{}{
		"unblocked_ip": ip,
	})
	respondSuccess(w, http.StatusOK, BlockResponse{IP: ip, Blocked: false, Changed: true}, start, nil)
}

// Risk handles GET /api/v1/security/risk/{ip}.
// @Summary Risk level of an address
// @Tags Blocks
// @Produce json
// @Param ip path string true "Address (IPv6 may be percent-encoded)"
// @Success 200 {object} models.APIResponse{data=RiskResponse}
// @Failure 400 {object} models.APIResponse
// @Security BearerAuth
// @Router /security/risk/{ip} [get]
func (h *Handler) Risk(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	addr, ok := ipParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid IP address", nil)
		return
	}
	ip := addr.String()

	respondSuccess(w, http.StatusOK, RiskResponse{IP: ip, RiskLevel: string(h.engine.RiskOf(ip))}, start, nil)
}
