// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package authz

import (
	"sync"
	"time"
)

// maxCachedDecisions bounds the cache; request paths carry addresses and
// rule IDs, so the key space is attacker-influenced.
const maxCachedDecisions = 4096

type decision struct {
	allowed   bool
	expiresAt time.Time
}

// decisionCache caches enforcement results per (subject, object, action).
type decisionCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]decision
	now   func() time.Time
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	return &decisionCache{
		ttl:   ttl,
		items: make(map[string]decision),
		now:   time.Now,
	}
}

func cacheKey(subject, object, action string) string {
	return subject + "\x00" + object + "\x00" + action
}

func (c *decisionCache) get(subject, object, action string) (allowed, ok bool) {
	c.mu.RLock()
	d, found := c.items[cacheKey(subject, object, action)]
	c.mu.RUnlock()
	if !found || c.now().After(d.expiresAt) {
		return false, false
	}
	return d.allowed, true
}

func (c *decisionCache) set(subject, object, action string, allowed bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= maxCachedDecisions {
		for k, d := range c.items {
			if now.After(d.expiresAt) {
				delete(c.items, k)
			}
		}
		// Still full: start over rather than evict selectively.
		if len(c.items) >= maxCachedDecisions {
			c.items = make(map[string]decision)
		}
	}
	c.items[cacheKey(subject, object, action)] = decision{allowed: allowed, expiresAt: now.Add(c.ttl)}
}

func (c *decisionCache) clear() {
	c.mu.Lock()
	c.items = make(map[string]decision)
	c.mu.Unlock()
}

func (c *decisionCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
