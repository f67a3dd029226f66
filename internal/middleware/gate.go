// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package middleware

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/metrics"
	"github.com/tomtom215/palisade/internal/signature"
)

// SecurityRecorder is the part of *detection.Engine the request gate uses.
type SecurityRecorder interface {
	IsBlocked(addr string) bool
	Record(ctx context.Context, in detection.EventInput) detection.Event
}

// GateConfig configures the request gate.
type GateConfig struct {
	// MaxBodyBytes caps how much of a request body the injection guard
	// buffers. Larger bodies are refused with 413.
	MaxBodyBytes int64

	// DisableInjectionGuard turns InjectionGuard into a pass-through.
	DisableInjectionGuard bool

	// Detector overrides signature.Default().
	Detector *signature.Detector
}

// DefaultMaxBodyBytes is the injection guard body cap when none is set.
const DefaultMaxBodyBytes = 1 << 20

// Gate enforces the block list and screens requests for injection
// payloads before they reach handlers.
type Gate struct {
	rec          SecurityRecorder
	detector     *signature.Detector
	maxBodyBytes int64
	guard        bool
}

// NewGate builds a gate that records into rec.
func NewGate(rec SecurityRecorder, cfg GateConfig) *Gate {
	g := &Gate{
		rec:          rec,
		detector:     cfg.Detector,
		maxBodyBytes: cfg.MaxBodyBytes,
		guard:        !cfg.DisableInjectionGuard,
	}
	if g.detector == nil {
		g.detector = signature.Default()
	}
	if g.maxBodyBytes <= 0 {
		g.maxBodyBytes = DefaultMaxBodyBytes
	}
	return g
}

// rejection is the fixed body of gate responses. It never carries request
// input, rule names or internal state.
type rejection struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var (
	forbiddenBody  = mustMarshal(rejection{Error: "Forbidden", Message: "Access denied"})
	badRequestBody = mustMarshal(rejection{Error: "Bad Request", Message: "Invalid request"})
	tooLargeBody   = mustMarshal(rejection{Error: "Request Entity Too Large", Message: "Request body too large"})
)

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func writeRejection(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("Failed to write gate rejection")
	}
}

// BlockGate rejects requests from blocked addresses with 403 and records a
// security.intrusion_attempt event. The event goes through rule evaluation
// so persistence rules can alert; blocking an already blocked address is a
// no-op, so this cannot loop.
func (g *Gate) BlockGate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if ip == "" || !g.rec.IsBlocked(ip) {
			next(w, r)
			return
		}

		g.rec.Record(r.Context(), detection.EventInput{
			Type:      detection.EventIntrusionAttempt,
			Severity:  detection.SeverityHigh,
			IPAddress: ip,
			UserAgent: r.UserAgent(),
			Action:    "request from blocked address",
			Resource:  r.URL.Path,
			Result:    detection.ResultBlocked,
			Details:   map[string]interface{}{"method": r.Method},
		})
		metrics.RecordGateRejection("blocked")
		writeRejection(w, http.StatusForbidden, forbiddenBody)
	}
}
