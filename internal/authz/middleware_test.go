// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/tomtom215/palisade/internal/auth"
	"github.com/tomtom215/palisade/internal/detection"
)

type denialRecorder struct {
	mu     sync.Mutex
	events []detection.EventInput
}

func (d *denialRecorder) Record(_ context.Context, in detection.EventInput) detection.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, in)
	return detection.Event{Type: in.Type}
}

func TestMiddleware_AuthorizeRequest(t *testing.T) {
	t.Parallel()

	enforcer := newTestEnforcer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		subject    *auth.AuthSubject
		wantStatus int
	}{
		{"admin patches rule", http.MethodPatch, "/api/v1/security/rules/brute-force-login", &auth.AuthSubject{ID: "ops", Roles: []string{"admin"}}, http.StatusOK},
		{"analyst reads events", http.MethodGet, "/api/v1/security/events", &auth.AuthSubject{ID: "ana", Roles: []string{"analyst"}}, http.StatusOK},
		{"analyst cannot unblock", http.MethodDelete, "/api/v1/security/blocked/203.0.113.9", &auth.AuthSubject{ID: "ana", Roles: []string{"analyst"}}, http.StatusForbidden},
		{"producer posts events", http.MethodPost, "/api/v1/security/events", &auth.AuthSubject{ID: "svc", Roles: []string{"producer"}}, http.StatusOK},
		{"producer cannot read stats", http.MethodGet, "/api/v1/security/stats", &auth.AuthSubject{ID: "svc", Roles: []string{"producer"}}, http.StatusForbidden},
		{"no subject", http.MethodGet, "/api/v1/security/stats", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &denialRecorder{}
			m := NewMiddleware(enforcer, rec)

			called := false
			handler := m.AuthorizeRequest(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.0.2.44:8000"
			if tt.subject != nil {
				req = req.WithContext(auth.ContextWithSubject(req.Context(), tt.subject))
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler called = %v", called)
			}

			rec.mu.Lock()
			defer rec.mu.Unlock()
			wantEvents := 0
			if tt.wantStatus == http.StatusForbidden && tt.subject != nil {
				wantEvents = 1
			}
			if len(rec.events) != wantEvents {
				t.Fatalf("recorded %d events, want %d", len(rec.events), wantEvents)
			}
			if wantEvents == 1 {
				ev := rec.events[0]
				if ev.Type != detection.EventAccessDenied || ev.UserID != tt.subject.ID || ev.IPAddress != "192.0.2.44" || ev.Resource != tt.path {
					t.Errorf("event = %+v", ev)
				}
			}
		})
	}
}

func TestMethodToAction(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		http.MethodGet:     ActionRead,
		http.MethodHead:    ActionRead,
		http.MethodOptions: ActionRead,
		http.MethodPost:    ActionWrite,
		http.MethodPut:     ActionWrite,
		http.MethodPatch:   ActionWrite,
		http.MethodDelete:  ActionDelete,
		"PROPFIND":         ActionRead,
	}
	for method, want := range tests {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}
