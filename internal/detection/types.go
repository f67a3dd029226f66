// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// EventType identifies the kind of security-relevant occurrence.
type EventType string

const (
	EventLogin              EventType = "auth.login"
	EventLogout             EventType = "auth.logout"
	EventFailedLogin        EventType = "auth.failed_login"
	EventPasswordReset      EventType = "auth.password_reset"
	EventPermissionChange   EventType = "auth.permission_change"
	EventAccessDenied       EventType = "auth.access_denied"
	EventDataExport         EventType = "data.export"
	EventDataDelete         EventType = "data.delete"
	EventDataBulkUpdate     EventType = "data.bulk_update"
	EventSQLInjection       EventType = "security.sql_injection"
	EventXSSAttempt         EventType = "security.xss_attempt"
	EventIntrusionAttempt   EventType = "security.intrusion_attempt"
	EventRateLimitExceeded  EventType = "security.rate_limit_exceeded"
	EventSuspiciousActivity EventType = "security.suspicious_activity"
	EventConfigChange       EventType = "admin.config_change"
)

// AllEventTypes lists every known event type.
var AllEventTypes = []EventType{
	EventLogin, EventLogout, EventFailedLogin, EventPasswordReset,
	EventPermissionChange, EventAccessDenied, EventDataExport, EventDataDelete,
	EventDataBulkUpdate, EventSQLInjection, EventXSSAttempt, EventIntrusionAttempt,
	EventRateLimitExceeded, EventSuspiciousActivity, EventConfigChange,
}

// Category returns the prefix before the first dot ("auth", "security", ...).
func (t EventType) Category() string {
	if i := strings.IndexByte(string(t), '.'); i > 0 {
		return string(t)[:i]
	}
	return string(t)
}

// Valid reports whether t is one of AllEventTypes.
func (t EventType) Valid() bool {
	for _, known := range AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Severity of an event or of a rule firing.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Result is the outcome of the action an event describes.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultBlocked Result = "blocked"
)

// Valid reports whether r is a known result.
func (r Result) Valid() bool {
	return r == ResultSuccess || r == ResultFailure || r == ResultBlocked
}

// Action is what a rule does when it matches.
type Action string

const (
	ActionAlert     Action = "alert"
	ActionBlock     Action = "block"
	ActionChallenge Action = "challenge"
	ActionLog       Action = "log"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionAlert, ActionBlock, ActionChallenge, ActionLog:
		return true
	}
	return false
}

// RiskLevel is the coarse classification returned by Engine.RiskOf.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskBlocked RiskLevel = "blocked"
)

// Event is an immutable record of one security-relevant occurrence.
// Events returned by the engine are copies; Details must be treated as read-only.
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      EventType              `json:"type"`
	Severity  Severity               `json:"severity"`
	UserID    string                 `json:"user_id,omitempty"`
	UserEmail string                 `json:"user_email,omitempty"`
	IPAddress string                 `json:"ip_address"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource,omitempty"`
	Result    Result                 `json:"result"`
	Details   map[string]interface{} `json:"details,omitempty"`

	// Derived marks events the engine generated itself. Derived events are
	// stored and counted but never evaluated against rules.
	Derived bool `json:"derived,omitempty"`
}

// EventInput is everything a producer supplies to Engine.Record.
type EventInput struct {
	Type      EventType
	Severity  Severity
	UserID    string
	UserEmail string
	IPAddress string
	UserAgent string
	Action    string
	Resource  string
	Result    Result
	Details   map[string]interface{}
	Derived   bool
}

// Threshold requires Count matching events within the trailing WindowMinutes.
type Threshold struct {
	Count         int `json:"count"`
	WindowMinutes int `json:"window_minutes"`
}

// RuleCondition is the match part of a rule. Empty fields match everything.
type RuleCondition struct {
	EventTypes  []EventType `json:"event_types,omitempty"`
	IPPattern   string      `json:"ip_pattern,omitempty"`
	UserPattern string      `json:"user_pattern,omitempty"`
	Threshold   *Threshold  `json:"threshold,omitempty"`
}

// Rule is a condition/action pair evaluated against every new event.
type Rule struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Enabled   bool          `json:"enabled"`
	Condition RuleCondition `json:"condition"`
	Action    Action        `json:"action"`
	Severity  Severity      `json:"severity"`
	Position  int           `json:"position"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RulePatch carries the fields an administrator may change on a rule.
// Nil fields are left untouched.
type RulePatch struct {
	Name           *string
	Enabled        *bool
	Action         *Action
	Severity       *Severity
	EventTypes     *[]EventType
	IPPattern      *string
	UserPattern    *string
	Threshold      *Threshold
	ClearThreshold bool
}

// BlockSource records which path blocked an address.
type BlockSource string

const (
	BlockSourceRule        BlockSource = "rule"
	BlockSourceFailedLogin BlockSource = "failed_login"
	BlockSourceAdmin       BlockSource = "admin"
)

// BlockEntry is one member of the blocked address set. Entries never expire.
type BlockEntry struct {
	Address   string      `json:"address"`
	Reason    string      `json:"reason"`
	Source    BlockSource `json:"source"`
	BlockedAt time.Time   `json:"blocked_at"`
}

// EventFilter narrows Engine.Events. Zero values mean "no constraint".
type EventFilter struct {
	Types      []EventType
	Severities []Severity
	Address    string
	UserEmail  string
	Result     Result
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Offset     int
}

// TimeRange is a named trailing interval used by Engine.Stats.
type TimeRange string

const (
	Range1h  TimeRange = "1h"
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
)

// ParseTimeRange validates s; an empty string selects Range24h.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case "":
		return Range24h, nil
	case Range1h, Range24h, Range7d, Range30d:
		return TimeRange(s), nil
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	switch r {
	case Range1h:
		return time.Hour
	case Range7d:
		return 7 * 24 * time.Hour
	case Range30d:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// OffenderCount is one row of Stats.TopOffenders.
type OffenderCount struct {
	Address string `json:"address"`
	Count   int    `json:"count"`
}

// Stats summarises the retained events inside a time range.
type Stats struct {
	Range            TimeRange         `json:"range"`
	Since            time.Time         `json:"since"`
	TotalEvents      int               `json:"total_events"`
	BySeverity       map[Severity]int  `json:"by_severity"`
	ByCategory       map[string]int    `json:"by_category"`
	ByType           map[EventType]int `json:"by_type"`
	ByResult         map[Result]int    `json:"by_result"`
	TopOffenders     []OffenderCount   `json:"top_offenders"`
	BlockedAddresses int               `json:"blocked_addresses"`
	ActiveRules      int               `json:"active_rules"`
	RetainedEvents   int               `json:"retained_events"`
	OldestRetained   *time.Time        `json:"oldest_retained,omitempty"`
}

// AlertPayload is delivered to every notifier when an alert rule fires.
// alertType carries the rule name.
type AlertPayload struct {
	AlertType string    `json:"alertType"`
	Event     Event     `json:"event"`
	Severity  Severity  `json:"severity"`
	RuleID    string    `json:"ruleId"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Notifier delivers alert payloads to an external transport.
type Notifier interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, payload *AlertPayload) error
}

// BlockStore persists the blocked address set.
type BlockStore interface {
	SaveBlock(ctx context.Context, entry *BlockEntry) error
	DeleteBlock(ctx context.Context, address string) error
	ListBlocks(ctx context.Context) ([]BlockEntry, error)
}

// RuleStore persists rule configuration.
type RuleStore interface {
	SaveRule(ctx context.Context, rule *Rule) error
	ListRules(ctx context.Context) ([]Rule, error)
}
