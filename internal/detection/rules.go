// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// DefaultRules returns the built-in rule set, stamped with now. It is
// seeded into the rule store on first start.
func DefaultRules(now time.Time) []Rule {
	rules := []Rule{
		{
			ID:   "brute-force-login",
			Name: "Brute force login",
			Condition: RuleCondition{
				EventTypes: []EventType{EventFailedLogin},
				Threshold:  &Threshold{Count: 5, WindowMinutes: 15},
			},
			Action:   ActionBlock,
			Severity: SeverityHigh,
		},
		{
			ID:        "sql-injection-alert",
			Name:      "SQL injection attempt",
			Condition: RuleCondition{EventTypes: []EventType{EventSQLInjection}},
			Action:    ActionAlert,
			Severity:  SeverityCritical,
		},
		{
			ID:   "repeated-injection-block",
			Name: "Repeated SQL injection",
			Condition: RuleCondition{
				EventTypes: []EventType{EventSQLInjection},
				Threshold:  &Threshold{Count: 3, WindowMinutes: 60},
			},
			Action:   ActionBlock,
			Severity: SeverityCritical,
		},
		{
			ID:        "xss-attempt-alert",
			Name:      "Cross-site scripting attempt",
			Condition: RuleCondition{EventTypes: []EventType{EventXSSAttempt}},
			Action:    ActionAlert,
			Severity:  SeverityHigh,
		},
		{
			ID:   "bulk-export-challenge",
			Name: "Bulk data export",
			Condition: RuleCondition{
				EventTypes: []EventType{EventDataExport},
				Threshold:  &Threshold{Count: 10, WindowMinutes: 60},
			},
			Action:   ActionChallenge,
			Severity: SeverityMedium,
		},
		{
			ID:   "access-denied-burst",
			Name: "Access denied burst",
			Condition: RuleCondition{
				EventTypes: []EventType{EventAccessDenied},
				Threshold:  &Threshold{Count: 20, WindowMinutes: 10},
			},
			Action:   ActionAlert,
			Severity: SeverityMedium,
		},
		{
			ID:   "blocked-address-persistence",
			Name: "Blocked address keeps probing",
			Condition: RuleCondition{
				EventTypes: []EventType{EventIntrusionAttempt},
				Threshold:  &Threshold{Count: 10, WindowMinutes: 5},
			},
			Action:   ActionAlert,
			Severity: SeverityHigh,
		},
		{
			ID:        "permission-change-log",
			Name:      "Permission change",
			Condition: RuleCondition{EventTypes: []EventType{EventPermissionChange}},
			Action:    ActionLog,
			Severity:  SeverityMedium,
		},
	}
	for i := range rules {
		rules[i].Enabled = true
		rules[i].Position = i
		rules[i].CreatedAt = now
		rules[i].UpdatedAt = now
	}
	return rules
}

// compiledRule pairs a rule with its compiled patterns. broken is set when
// a pattern failed to compile; such a rule never matches.
type compiledRule struct {
	Rule
	ipRE   *regexp.Regexp
	userRE *regexp.Regexp
	broken error
}

func compileRule(r Rule) *compiledRule {
	cr := &compiledRule{Rule: cloneRule(r)}
	var err error
	if r.Condition.IPPattern != "" {
		if cr.ipRE, err = regexp.Compile(r.Condition.IPPattern); err != nil {
			cr.broken = fmt.Errorf("ip_pattern: %w", err)
			return cr
		}
	}
	if r.Condition.UserPattern != "" {
		if cr.userRE, err = regexp.Compile(r.Condition.UserPattern); err != nil {
			cr.broken = fmt.Errorf("user_pattern: %w", err)
		}
	}
	return cr
}

// matchesStatic checks every condition except the threshold, which needs
// the event store.
func (cr *compiledRule) matchesStatic(ev *Event) bool {
	if cr.broken != nil || !cr.Enabled {
		return false
	}
	if len(cr.Condition.EventTypes) > 0 && !typeIn(ev.Type, cr.Condition.EventTypes) {
		return false
	}
	if cr.ipRE != nil && !cr.ipRE.MatchString(ev.IPAddress) {
		return false
	}
	if cr.userRE != nil && !cr.userRE.MatchString(ev.UserEmail) {
		return false
	}
	return true
}

// validateRule rejects rules the engine cannot evaluate.
func validateRule(r *Rule) error {
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRule)
	}
	if !r.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidRule, r.Action)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidRule, r.Severity)
	}
	for _, t := range r.Condition.EventTypes {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown event type %q", ErrInvalidRule, t)
		}
	}
	if th := r.Condition.Threshold; th != nil && (th.Count < 1 || th.WindowMinutes < 1) {
		return fmt.Errorf("%w: threshold count and window must be positive", ErrInvalidRule)
	}
	if p := r.Condition.IPPattern; p != "" {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: ip_pattern: %v", ErrInvalidRule, err)
		}
	}
	if p := r.Condition.UserPattern; p != "" {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: user_pattern: %v", ErrInvalidRule, err)
		}
	}
	return nil
}

// applyPatch returns a copy of r with p applied.
func applyPatch(r Rule, p *RulePatch) Rule {
	out := cloneRule(r)
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Enabled != nil {
		out.Enabled = *p.Enabled
	}
	if p.Action != nil {
		out.Action = *p.Action
	}
	if p.Severity != nil {
		out.Severity = *p.Severity
	}
	if p.EventTypes != nil {
		out.Condition.EventTypes = append([]EventType(nil), (*p.EventTypes)...)
	}
	if p.IPPattern != nil {
		out.Condition.IPPattern = *p.IPPattern
	}
	if p.UserPattern != nil {
		out.Condition.UserPattern = *p.UserPattern
	}
	switch {
	case p.ClearThreshold:
		out.Condition.Threshold = nil
	case p.Threshold != nil:
		th := *p.Threshold
		out.Condition.Threshold = &th
	}
	return out
}

func cloneRule(r Rule) Rule {
	out := r
	out.Condition.EventTypes = append([]EventType(nil), r.Condition.EventTypes...)
	if r.Condition.Threshold != nil {
		th := *r.Condition.Threshold
		out.Condition.Threshold = &th
	}
	return out
}

func sortRules(rules []*compiledRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Position < rules[j].Position
	})
}
