// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/models"
)

type captureRecorder struct {
	mu     sync.Mutex
	events []detection.EventInput
}

func (c *captureRecorder) Record(_ context.Context, in detection.EventInput) detection.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, in)
	return detection.Event{Type: in.Type}
}

func (c *captureRecorder) recorded() []detection.EventInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]detection.EventInput(nil), c.events...)
}

func TestAuthenticate_NoneMode(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(AuthModeNone, nil, nil, "analyst")
	var subject *AuthSubject
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		subject = GetAuthSubject(r.Context())
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/security/stats", nil))

	if subject == nil || subject.ID != "anonymous" || !slices.Contains(subject.Roles, "analyst") {
		t.Errorf("subject = %+v", subject)
	}
}

func TestAuthenticate_JWT(t *testing.T) {
	t.Parallel()

	manager, err := NewJWTManager(testSecret, time.Hour, "")
	if err != nil {
		t.Fatal(err)
	}
	valid, _ := manager.GenerateToken("ops-7", []string{"admin"})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantEvent  bool
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, false},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, false},
		{"missing header", "", http.StatusUnauthorized, true},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, true},
		{"tampered token", "Bearer " + valid + "x", http.StatusUnauthorized, true},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &captureRecorder{}
			mw := NewMiddleware(AuthModeJWT, manager, rec, "")

			var subject *AuthSubject
			handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
				subject = GetAuthSubject(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/security/rules", nil)
			req.RemoteAddr = "198.51.100.23:5555"
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			events := rec.recorded()
			if !tt.wantEvent {
				if subject == nil || subject.ID != "ops-7" || !slices.Contains(subject.Roles, "admin") {
					t.Errorf("subject = %+v", subject)
				}
				if len(events) != 0 {
					t.Errorf("recorded %d events for a valid token", len(events))
				}
				return
			}

			if w.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate challenge")
			}
			var resp models.APIResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != models.ErrCodeUnauthorized {
				t.Errorf("response = %+v", resp)
			}
			if len(events) != 1 {
				t.Fatalf("recorded %d events, want 1", len(events))
			}
			ev := events[0]
			if ev.Type != detection.EventAccessDenied || ev.Result != detection.ResultFailure || ev.IPAddress != "198.51.100.23" {
				t.Errorf("event = %+v", ev)
			}
		})
	}
}

// Repeated bad tokens from one address are picked up by the engine's
// access-denied rule like any other denial.
func TestAuthenticate_FeedsEngine(t *testing.T) {
	t.Parallel()

	engine := detection.NewEngine(detection.Config{}, nil, nil)
	defer engine.Close()
	manager, _ := NewJWTManager(testSecret, time.Hour, "")
	mw := NewMiddleware(AuthModeJWT, manager, engine, "")
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/security/rules", nil)
		req.RemoteAddr = "203.0.113.80:1000"
		req.Header.Set("Authorization", "Bearer forged")
		handler(httptest.NewRecorder(), req)
	}

	if n := engine.CountRecentEvents("203.0.113.80", []detection.EventType{detection.EventAccessDenied}, 5); n != 3 {
		t.Errorf("access denied events = %d, want 3", n)
	}
}
