// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"sync"
	"time"
)

// failedLogin counts consecutive failures for one account or address.
type failedLogin struct {
	count        int
	firstAttempt time.Time
}

// failedAuthTracker counts failed logins per key (email, else address),
// independently of the rule engine.
type failedAuthTracker struct {
	mu        sync.Mutex
	records   map[string]*failedLogin
	threshold int
	window    time.Duration
	retention time.Duration
}

func newFailedAuthTracker(threshold int, window, retention time.Duration) *failedAuthTracker {
	return &failedAuthTracker{
		records:   make(map[string]*failedLogin),
		threshold: threshold,
		window:    window,
		retention: retention,
	}
}

// failedLoginKey is the tracking key for ev: the email when present,
// otherwise the address.
func failedLoginKey(ev *Event) string {
	if ev.UserEmail != "" {
		return "email:" + ev.UserEmail
	}
	return "ip:" + ev.IPAddress
}

// record registers one failure for key and reports whether the threshold
// was reached inside the window. Stale records are pruned first.
func (t *failedAuthTracker) record(key string, now time.Time) (count int, exceeded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked(now)

	rec, ok := t.records[key]
	if !ok {
		rec = &failedLogin{firstAttempt: now}
		t.records[key] = rec
	}
	rec.count++
	return rec.count, rec.count >= t.threshold && now.Sub(rec.firstAttempt) < t.window
}

func (t *failedAuthTracker) clear(key string) {
	t.mu.Lock()
	delete(t.records, key)
	t.mu.Unlock()
}

func (t *failedAuthTracker) prune(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pruneLocked(now)
}

func (t *failedAuthTracker) pruneLocked(now time.Time) int {
	removed := 0
	for key, rec := range t.records {
		if now.Sub(rec.firstAttempt) > t.retention {
			delete(t.records, key)
			removed++
		}
	}
	return removed
}

func (t *failedAuthTracker) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
