// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/palisade/internal/detection"
)

type fakeRecorder struct {
	mu      sync.Mutex
	blocked map[string]bool
	events  []detection.EventInput
}

func newFakeRecorder(blocked ...string) *fakeRecorder {
	f := &fakeRecorder{blocked: map[string]bool{}}
	for _, b := range blocked {
		f.blocked[b] = true
	}
	return f
}

func (f *fakeRecorder) IsBlocked(addr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blocked[addr]
}

func (f *fakeRecorder) Record(_ context.Context, in detection.EventInput) detection.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, in)
	return detection.Event{Type: in.Type}
}

func (f *fakeRecorder) recorded() []detection.EventInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]detection.EventInput(nil), f.events...)
}

func okHandler(called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func decodeRejection(t *testing.T, body io.Reader) rejection {
	t.Helper()
	var rej rejection
	if err := json.NewDecoder(body).Decode(&rej); err != nil {
		t.Fatalf("rejection body is not JSON: %v", err)
	}
	return rej
}

func TestBlockGate(t *testing.T) {
	t.Parallel()

	rec := newFakeRecorder("203.0.113.66")
	gate := NewGate(rec, GateConfig{})

	var called bool
	handler := gate.BlockGate(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.RemoteAddr = "203.0.113.66:5000"
	req.Header.Set("User-Agent", "scanner/1.0")
	w := httptest.NewRecorder()
	handler(w, req)

	if called {
		t.Fatal("blocked request reached the handler")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	rej := decodeRejection(t, w.Body)
	if rej.Error != "Forbidden" || rej.Message != "Access denied" {
		t.Errorf("body = %+v", rej)
	}

	events := rec.recorded()
	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != detection.EventIntrusionAttempt || ev.Result != detection.ResultBlocked || ev.Severity != detection.SeverityHigh {
		t.Errorf("event = %+v", ev)
	}
	if ev.IPAddress != "203.0.113.66" || ev.Resource != "/api/v1/orders" || ev.UserAgent != "scanner/1.0" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Derived {
		t.Error("gate events must go through rule evaluation")
	}

	// Unblocked caller passes.
	called = false
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.RemoteAddr = "198.51.100.1:5000"
	w = httptest.NewRecorder()
	handler(w, req)
	if !called || w.Code != http.StatusOK {
		t.Errorf("unblocked request: called=%v status=%d", called, w.Code)
	}
}

func TestInjectionGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		wantType    detection.EventType
		wantLoc     string
		wantField   string
	}{
		{name: "clean get", method: http.MethodGet, target: "/api/v1/products?q=blue+shoes&page=2"},
		{name: "clean json", method: http.MethodPost, target: "/api/v1/orders", contentType: "application/json", body: `{"note":"please ring the bell","qty":2}`},
		{name: "query tautology", method: http.MethodGet, target: "/api/v1/products?q=" + url.QueryEscape("' OR '1'='1"), wantType: detection.EventSQLInjection, wantLoc: "query", wantField: "q"},
		{name: "query union", method: http.MethodGet, target: "/api/v1/products?id=" + url.QueryEscape("1 UNION SELECT password FROM users"), wantType: detection.EventSQLInjection, wantLoc: "query", wantField: "id"},
		{name: "path segment", method: http.MethodGet, target: "/api/v1/users/" + url.PathEscape("1; DROP TABLE users"), wantType: detection.EventSQLInjection, wantLoc: "path", wantField: "segment_3"},
		{name: "json nested field", method: http.MethodPost, target: "/api/v1/orders", contentType: "application/json", body: `{"customer":{"name":"x' or 'a'='a"}}`, wantType: detection.EventSQLInjection, wantLoc: "body", wantField: "customer.name"},
		{name: "json array", method: http.MethodPost, target: "/api/v1/orders", contentType: "application/json; charset=utf-8", body: `{"tags":["ok","<script>alert(1)</script>"]}`, wantType: detection.EventXSSAttempt, wantLoc: "body", wantField: "tags[1]"},
		{name: "form field", method: http.MethodPost, target: "/login", contentType: "application/x-www-form-urlencoded", body: "user=admin'--&pass=x", wantType: detection.EventSQLInjection, wantLoc: "body", wantField: "user"},
		{name: "malformed json scanned raw", method: http.MethodPost, target: "/api/v1/orders", contentType: "application/json", body: `{"q": "1 union select 1`, wantType: detection.EventSQLInjection, wantLoc: "body", wantField: "(raw)"},
		{name: "clean text body", method: http.MethodPost, target: "/upload", contentType: "text/plain", body: "quarterly report, final draft"},
		{name: "text plain raw", method: http.MethodPost, target: "/upload", contentType: "text/plain", body: "' OR '1'='1", wantType: detection.EventSQLInjection, wantLoc: "body", wantField: "(raw)"},
		{name: "text plain carrying json", method: http.MethodPatch, target: "/api/v1/security/rules/x", contentType: "text/plain", body: `{"name":"x' OR '1'='1"}`, wantType: detection.EventSQLInjection, wantLoc: "body", wantField: "name"},
		{name: "missing content type json", method: http.MethodPatch, target: "/api/v1/security/rules/x", body: `{"name":"x' OR '1'='1"}`, wantType: detection.EventSQLInjection, wantLoc: "body", wantField: "name"},
		{name: "unparseable form scanned raw", method: http.MethodPost, target: "/login", contentType: "application/x-www-form-urlencoded", body: "user=%zz&q=1 UNION SELECT pass FROM users", wantType: detection.EventSQLInjection, wantLoc: "body", wantField: "(raw)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := newFakeRecorder()
			gate := NewGate(rec, GateConfig{})

			var called bool
			handler := gate.InjectionGuard(okHandler(&called))

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if tt.wantType == "" {
				if !called || w.Code != http.StatusOK {
					t.Fatalf("clean request rejected: status %d", w.Code)
				}
				if n := len(rec.recorded()); n != 0 {
					t.Errorf("recorded %d events for clean request", n)
				}
				return
			}

			if called {
				t.Fatal("injection reached the handler")
			}
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			raw := w.Body.String()
			rej := decodeRejection(t, strings.NewReader(raw))
			if rej.Error != "Bad Request" || rej.Message != "Invalid request" {
				t.Errorf("body = %+v", rej)
			}
			for _, leak := range []string{"union", "script", "'", "DROP"} {
				if strings.Contains(raw, leak) {
					t.Errorf("response echoes input fragment %q: %s", leak, raw)
				}
			}

			events := rec.recorded()
			if len(events) != 1 {
				t.Fatalf("recorded %d events, want 1", len(events))
			}
			ev := events[0]
			if ev.Type != tt.wantType || ev.Result != detection.ResultBlocked {
				t.Errorf("event type=%s result=%s", ev.Type, ev.Result)
			}
			if tt.wantType == detection.EventSQLInjection && ev.Severity != detection.SeverityCritical {
				t.Errorf("severity = %s, want critical", ev.Severity)
			}
			if ev.Details["location"] != tt.wantLoc || ev.Details["field"] != tt.wantField {
				t.Errorf("details = %v, want location %s field %s", ev.Details, tt.wantLoc, tt.wantField)
			}
			if tt.wantLoc == "path" && ev.Resource != "" {
				t.Errorf("path payload stored as resource: %q", ev.Resource)
			}
		})
	}
}

func TestInjectionGuard_BodyRestored(t *testing.T) {
	t.Parallel()

	gate := NewGate(newFakeRecorder(), GateConfig{})
	payload := `{"note":"hello","qty":3}`

	var got string
	handler := gate.InjectionGuard(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler(httptest.NewRecorder(), req)

	if got != payload {
		t.Errorf("handler read %q, want %q", got, payload)
	}
}

func TestInjectionGuard_OversizedBodyRefused(t *testing.T) {
	t.Parallel()

	rec := newFakeRecorder()
	gate := NewGate(rec, GateConfig{MaxBodyBytes: 16})

	var called bool
	handler := gate.InjectionGuard(okHandler(&called))
	for _, contentType := range []string{"application/json", "text/plain", ""} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
			strings.NewReader(`{"pad":"................","q":"1 union select password from users"}`))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		w := httptest.NewRecorder()
		handler(w, req)

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("content-type %q: status = %d, want 413", contentType, w.Code)
		}
		if rej := decodeRejection(t, w.Body); rej.Error != "Request Entity Too Large" {
			t.Errorf("content-type %q: body = %+v", contentType, rej)
		}
	}
	if called {
		t.Error("oversized body reached the handler")
	}

	// A body at the limit is still scanned and passed on.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"note":"hello"}`))
	handler(httptest.NewRecorder(), req)
	if !called {
		t.Error("body within the limit was refused")
	}
	if n := len(rec.recorded()); n != 0 {
		t.Errorf("recorded %d events, want 0", n)
	}
}

func TestInjectionGuard_Disabled(t *testing.T) {
	t.Parallel()

	gate := NewGate(newFakeRecorder(), GateConfig{DisableInjectionGuard: true})
	var called bool
	handler := gate.InjectionGuard(okHandler(&called))
	req := httptest.NewRequest(http.MethodGet, "/?q="+url.QueryEscape("' OR '1'='1"), nil)
	handler(httptest.NewRecorder(), req)
	if !called {
		t.Error("disabled guard should pass requests through")
	}
}

// The gate must work against the real engine: a request carrying an
// injection is recorded and the second attempt from the same address gets
// the address blocked by the repeated-injection rule.
func TestGate_WithEngine(t *testing.T) {
	t.Parallel()

	engine := detection.NewEngine(detection.Config{}, nil, nil)
	defer engine.Close()
	gate := NewGate(engine, GateConfig{})

	var called bool
	handler := gate.BlockGate(gate.InjectionGuard(okHandler(&called)))
	attack := "/search?q=" + url.QueryEscape("1' UNION SELECT * FROM users--")

	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, attack, nil)
		req.RemoteAddr = "198.51.100.99:1234"
		handler(httptest.NewRecorder(), req)
	}
	if called {
		t.Fatal("attack reached the handler")
	}

	got := engine.Events(detection.EventFilter{Types: []detection.EventType{detection.EventSQLInjection}})
	if len(got) == 0 {
		t.Fatal("no sql injection events recorded")
	}
	if !engine.IsBlocked("198.51.100.99") {
		t.Fatal("repeated injections should block the address")
	}

	req := httptest.NewRequest(http.MethodGet, "/search?q=shoes", nil)
	req.RemoteAddr = "198.51.100.99:1234"
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("blocked address status = %d, want 403", w.Code)
	}
}
