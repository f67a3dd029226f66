// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/palisade/internal/metrics"
)

type riskEntry struct {
	level RiskLevel
	at    time.Time
}

// riskCache holds computed or challenge-assigned levels per address.
type riskCache struct {
	mu      sync.Mutex
	entries map[string]riskEntry
	ttl     time.Duration
}

func newRiskCache(ttl time.Duration) *riskCache {
	return &riskCache{entries: make(map[string]riskEntry), ttl: ttl}
}

func (c *riskCache) get(addr string, now time.Time) (RiskLevel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[addr]
	if !ok {
		return "", false
	}
	if now.Sub(e.at) >= c.ttl {
		delete(c.entries, addr)
		return "", false
	}
	return e.level, true
}

func (c *riskCache) set(addr string, level RiskLevel, now time.Time) {
	c.mu.Lock()
	c.entries[addr] = riskEntry{level: level, at: now}
	c.mu.Unlock()
}

func (c *riskCache) delete(addr string) {
	c.mu.Lock()
	delete(c.entries, addr)
	c.mu.Unlock()
}

func (c *riskCache) prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for addr, e := range c.entries {
		if now.Sub(e.at) >= c.ttl {
			delete(c.entries, addr)
			removed++
		}
	}
	return removed
}

// RiskOf classifies an address. Blocked addresses are always RiskBlocked;
// otherwise a cached level younger than the cache TTL is returned, else the
// level is computed from the trailing risk window and cached:
//
//	high:   any security.* event, or more than 3 failed logins
//	medium: more than 50 events, or more than 1 failed login
//	low:    everything else
func (e *Engine) RiskOf(addr string) RiskLevel {
	addr = normalizeAddress(addr)
	if e.blocks.contains(addr) {
		metrics.RecordRiskEvaluation(string(RiskBlocked), false)
		return RiskBlocked
	}

	now := e.now()
	if level, ok := e.risk.get(addr, now); ok {
		metrics.RecordRiskEvaluation(string(level), true)
		return level
	}

	level := e.computeRisk(addr, now)
	e.risk.set(addr, level, now)
	metrics.RecordRiskEvaluation(string(level), false)
	return level
}

func (e *Engine) computeRisk(addr string, now time.Time) RiskLevel {
	cutoff := now.Add(-e.cfg.RiskWindow)
	var total, failed, security int
	e.events.each(func(ev *Event) bool {
		if ev.Timestamp.Before(cutoff) {
			return false
		}
		if ev.IPAddress != addr {
			return true
		}
		total++
		if ev.Type == EventFailedLogin {
			failed++
		}
		if strings.HasPrefix(string(ev.Type), "security.") {
			security++
		}
		return true
	})

	switch {
	case security > 0 || failed > 3:
		return RiskHigh
	case total > 50 || failed > 1:
		return RiskMedium
	default:
		return RiskLow
	}
}
