// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"context"
	"fmt"
	"maps"

	"github.com/tomtom215/palisade/internal/logging"
)

// Events returns retained events matching f, newest first.
func (e *Engine) Events(f EventFilter) []Event {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	addr := ""
	if f.Address != "" {
		addr = normalizeAddress(f.Address)
	}

	out := make([]Event, 0, min(limit, e.events.len()))
	skipped := 0
	e.events.each(func(ev *Event) bool {
		if f.Since != nil && ev.Timestamp.Before(*f.Since) {
			return false
		}
		if f.Until != nil && ev.Timestamp.After(*f.Until) {
			return true
		}
		if !typeIn(ev.Type, f.Types) {
			return true
		}
		if len(f.Severities) > 0 && !severityIn(ev.Severity, f.Severities) {
			return true
		}
		if addr != "" && ev.IPAddress != addr {
			return true
		}
		if f.UserEmail != "" && ev.UserEmail != f.UserEmail {
			return true
		}
		if f.Result != "" && ev.Result != f.Result {
			return true
		}
		if skipped < f.Offset {
			skipped++
			return true
		}
		cp := *ev
		cp.Details = maps.Clone(ev.Details)
		out = append(out, cp)
		return len(out) < limit
	})
	return out
}

func severityIn(s Severity, set []Severity) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

// Rules returns a copy of the rule set in evaluation order.
func (e *Engine) Rules() []Rule {
	e.rulesMu.RLock()
	defer e.rulesMu.RUnlock()
	out := make([]Rule, 0, len(e.rules))
	for _, cr := range e.rules {
		out = append(out, cloneRule(cr.Rule))
	}
	return out
}

// Rule returns one rule by ID.
func (e *Engine) Rule(id string) (Rule, error) {
	e.rulesMu.RLock()
	defer e.rulesMu.RUnlock()
	for _, cr := range e.rules {
		if cr.ID == id {
			return cloneRule(cr.Rule), nil
		}
	}
	return Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// UpdateRule applies patch to the rule with id and persists the result.
// A patch that would produce an invalid rule is rejected with ErrInvalidRule
// and leaves the rule unchanged.
func (e *Engine) UpdateRule(ctx context.Context, id string, patch RulePatch) (Rule, error) {
	e.rulesMu.Lock()
	idx := -1
	for i, cr := range e.rules {
		if cr.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.rulesMu.Unlock()
		return Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}

	updated := applyPatch(e.rules[idx].Rule, &patch)
	if err := validateRule(&updated); err != nil {
		e.rulesMu.Unlock()
		return Rule{}, err
	}
	updated.UpdatedAt = e.now()
	e.rules[idx] = compileRule(updated)
	e.rulesMu.Unlock()

	e.brokenLogged.Delete(id)
	logging.Ctx(ctx).Info().
		Str("rule_id", id).
		Bool("enabled", updated.Enabled).
		Str("action", string(updated.Action)).
		Msg("Detection rule updated")

	if e.ruleStore != nil {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.StoreTimeout)
		defer cancel()
		if err := e.ruleStore.SaveRule(sctx, &updated); err != nil {
			logging.Error().Err(err).Str("rule_id", id).Msg("Failed to persist rule update")
		}
	}
	return cloneRule(updated), nil
}
