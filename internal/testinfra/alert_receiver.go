// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// AlertCapture represents a captured alert delivery.
type AlertCapture struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// AlertReceiver is an HTTP endpoint that records every delivery it
// receives.
type AlertReceiver struct {
	Server *httptest.Server

	mu       sync.Mutex
	captures []AlertCapture
	status   int
	notify   chan struct{}
}

// NewAlertReceiver starts a receiver that answers 200 and closes with the
// test.
func NewAlertReceiver(t *testing.T) *AlertReceiver {
	t.Helper()

	ar := &AlertReceiver{status: http.StatusOK, notify: make(chan struct{}, 64)}
	ar.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		r.Body.Close()

		ar.mu.Lock()
		ar.captures = append(ar.captures, AlertCapture{
			Method:  r.Method,
			Path:    r.URL.Path,
			Headers: r.Header.Clone(),
			Body:    body,
		})
		status := ar.status
		ar.mu.Unlock()

		select {
		case ar.notify <- struct{}{}:
		default:
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(ar.Server.Close)
	return ar
}

// URL returns the server URL.
func (a *AlertReceiver) URL() string {
	return a.Server.URL
}

// SetStatus changes the status code returned for later deliveries.
func (a *AlertReceiver) SetStatus(code int) {
	a.mu.Lock()
	a.status = code
	a.mu.Unlock()
}

// Captures returns a copy of all captured deliveries.
func (a *AlertReceiver) Captures() []AlertCapture {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make([]AlertCapture, len(a.captures))
	copy(result, a.captures)
	return result
}

// WaitFor blocks until at least n deliveries arrived or timeout elapses.
func (a *AlertReceiver) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		a.mu.Lock()
		count := len(a.captures)
		a.mu.Unlock()
		if count >= n {
			return true
		}
		select {
		case <-a.notify:
		case <-deadline.C:
			return false
		}
	}
}
