// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"sync"
	"time"
)

// eventStore is a fixed-capacity ring of events. Once full, each append
// overwrites the oldest entry.
type eventStore struct {
	mu   sync.RWMutex
	buf  []Event
	head int // index of the next write
	size int
}

func newEventStore(capacity int) *eventStore {
	if capacity <= 0 {
		capacity = 10000
	}
	return &eventStore{buf: make([]Event, capacity)}
}

// append stamps e with now() under the write lock, so the ring stays
// ordered by timestamp, and returns the stored copy.
func (s *eventStore) append(e Event, now func() time.Time) Event {
	s.mu.Lock()
	e.Timestamp = now()
	s.buf[s.head] = e
	s.head = (s.head + 1) % len(s.buf)
	if s.size < len(s.buf) {
		s.size++
	}
	s.mu.Unlock()
	return e
}

// each calls fn for retained events newest first until fn returns false.
// The read lock is held for the duration; fn must not call back into the store.
func (s *eventStore) each(fn func(*Event) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.buf)
	for i := 0; i < s.size; i++ {
		idx := (s.head - 1 - i + n) % n
		if !fn(&s.buf[idx]) {
			return
		}
	}
}

func (s *eventStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// oldest returns the oldest retained event.
func (s *eventStore) oldest() (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.size == 0 {
		return Event{}, false
	}
	n := len(s.buf)
	return s.buf[(s.head-s.size+n)%n], true
}
