// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import "time"

// CountRecentEvents counts retained events from ip whose type is in types
// (any type when types is empty) and whose timestamp falls inside the
// trailing window. Events older than the oldest retained one are not
// visible, so long windows on a busy engine undercount.
func (e *Engine) CountRecentEvents(ip string, types []EventType, windowMinutes int) int {
	cutoff := e.now().Add(-time.Duration(windowMinutes) * time.Minute)
	return e.countSince(normalizeAddress(ip), types, cutoff)
}

func (e *Engine) countSince(ip string, types []EventType, cutoff time.Time) int {
	count := 0
	e.events.each(func(ev *Event) bool {
		if ev.Timestamp.Before(cutoff) {
			return false
		}
		if ev.IPAddress == ip && typeIn(ev.Type, types) {
			count++
		}
		return true
	})
	return count
}

func typeIn(t EventType, types []EventType) bool {
	if len(types) == 0 {
		return true
	}
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
