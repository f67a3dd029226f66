// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"net/netip"
	"sort"
	"strings"
	"sync"
)

// normalizeAddress returns the canonical text form of a parseable IP
// ("::ffff:10.0.0.1" and "10.0.0.1" are the same key) and the trimmed input
// otherwise.
func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if ip, err := netip.ParseAddr(addr); err == nil {
		return ip.Unmap().String()
	}
	return addr
}

// blockRegistry is the in-memory block set.
type blockRegistry struct {
	mu      sync.RWMutex
	entries map[string]BlockEntry
}

func newBlockRegistry() *blockRegistry {
	return &blockRegistry{entries: make(map[string]BlockEntry)}
}

// add inserts entry and reports whether the address was newly added. An
// existing entry keeps its original reason and timestamp.
func (b *blockRegistry) add(entry BlockEntry) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[entry.Address]; ok {
		return false
	}
	b.entries[entry.Address] = entry
	return true
}

func (b *blockRegistry) remove(addr string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[addr]; !ok {
		return false
	}
	delete(b.entries, addr)
	return true
}

func (b *blockRegistry) contains(addr string) bool {
	b.mu.RLock()
	_, ok := b.entries[addr]
	b.mu.RUnlock()
	return ok
}

// list returns all entries, newest block first.
func (b *blockRegistry) list() []BlockEntry {
	b.mu.RLock()
	out := make([]BlockEntry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].BlockedAt.Equal(out[j].BlockedAt) {
			return out[i].Address < out[j].Address
		}
		return out[i].BlockedAt.After(out[j].BlockedAt)
	})
	return out
}

func (b *blockRegistry) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// merge adds entries not already present and returns how many were new.
// Local entries are never removed by a merge.
func (b *blockRegistry) merge(entries []BlockEntry) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	added := 0
	for _, e := range entries {
		e.Address = normalizeAddress(e.Address)
		if e.Address == "" {
			continue
		}
		if _, ok := b.entries[e.Address]; !ok {
			b.entries[e.Address] = e
			added++
		}
	}
	return added
}
