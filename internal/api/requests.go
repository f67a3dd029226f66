// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package api

import (
	"time"

	"github.com/tomtom215/palisade/internal/detection"
)

// Request structs carry go-playground/validator tags; see validateRequest.
// Domain tags (eventtype, severity, eventresult, ruleaction, timerange,
// regexp, ipaddr) are registered by the validation package.

// EventsRequest is the validated query of GET /events.
type EventsRequest struct {
	Types      []string `validate:"omitempty,max=20,dive,eventtype"`
	Severities []string `validate:"omitempty,max=4,dive,severity"`
	IP         string   `validate:"omitempty,max=64"`
	Email      string   `validate:"omitempty,max=254"`
	Result     string   `validate:"omitempty,eventresult"`
	Since      string   `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until      string   `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit      int      `validate:"min=1,max=1000"`
	Offset     int      `validate:"min=0,max=1000000"`
}

// Filter converts a validated request into an engine filter.
func (req *EventsRequest) Filter() detection.EventFilter {
	f := detection.EventFilter{
		Address:   req.IP,
		UserEmail: req.Email,
		Result:    detection.Result(req.Result),
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	for _, t := range req.Types {
		f.Types = append(f.Types, detection.EventType(t))
	}
	for _, s := range req.Severities {
		f.Severities = append(f.Severities, detection.Severity(s))
	}
	if t, err := time.Parse(time.RFC3339, req.Since); err == nil {
		f.Since = &t
	}
	if t, err := time.Parse(time.RFC3339, req.Until); err == nil {
		f.Until = &t
	}
	return f
}

// EventRequest is the body of POST /events, used by producers to report
// security events. Omitted severity and result take engine defaults.
type EventRequest struct {
	Type      string                 `json:"type" validate:"required,eventtype"`
	Severity  string                 `json:"severity" validate:"omitempty,severity"`
	UserID    string                 `json:"user_id" validate:"omitempty,max=128"`
	UserEmail string                 `json:"user_email" validate:"omitempty,max=254"`
	IPAddress string                 `json:"ip_address" validate:"omitempty,ipaddr"`
	UserAgent string                 `json:"user_agent" validate:"omitempty,max=512"`
	Action    string                 `json:"action" validate:"omitempty,max=256"`
	Resource  string                 `json:"resource" validate:"omitempty,max=1024"`
	Result    string                 `json:"result" validate:"omitempty,eventresult"`
	Details   map[string]interface{} `json:"details" validate:"omitempty,max=32"`
}

// Input converts the request for Engine.Record.
func (req *EventRequest) Input() detection.EventInput {
	return detection.EventInput{
		Type:      detection.EventType(req.Type),
		Severity:  detection.Severity(req.Severity),
		UserID:    req.UserID,
		UserEmail: req.UserEmail,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Action:    req.Action,
		Resource:  req.Resource,
		Result:    detection.Result(req.Result),
		Details:   req.Details,
	}
}

// StatsRequest is the validated query of GET /stats.
type StatsRequest struct {
	Range string `validate:"omitempty,timerange"`
}

// BlockRequest is the body of POST /blocked.
type BlockRequest struct {
	IP     string `json:"ip" validate:"required,ipaddr"`
	Reason string `json:"reason" validate:"omitempty,max=256"`
}

// ThresholdRequest mirrors detection.Threshold with bounds.
type ThresholdRequest struct {
	Count         int `json:"count" validate:"min=1,max=100000"`
	WindowMinutes int `json:"window_minutes" validate:"min=1,max=43200"`
}

// RulePatchRequest is the body of PATCH /rules/{id}. Absent fields are left
// unchanged; clear_threshold removes the threshold.
type RulePatchRequest struct {
	Name           *string           `json:"name" validate:"omitempty,min=1,max=128"`
	Enabled        *bool             `json:"enabled"`
	Action         *string           `json:"action" validate:"omitempty,ruleaction"`
	Severity       *string           `json:"severity" validate:"omitempty,severity"`
	EventTypes     *[]string         `json:"event_types" validate:"omitempty,max=20,dive,eventtype"`
	IPPattern      *string           `json:"ip_pattern" validate:"omitempty,max=512,regexp"`
	UserPattern    *string           `json:"user_pattern" validate:"omitempty,max=512,regexp"`
	Threshold      *ThresholdRequest `json:"threshold"`
	ClearThreshold bool              `json:"clear_threshold"`
}

// Patch converts the request for Engine.UpdateRule.
func (req *RulePatchRequest) Patch() detection.RulePatch {
	p := detection.RulePatch{
		Name:           req.Name,
		Enabled:        req.Enabled,
		IPPattern:      req.IPPattern,
		UserPattern:    req.UserPattern,
		ClearThreshold: req.ClearThreshold,
	}
	if req.Action != nil {
		a := detection.Action(*req.Action)
		p.Action = &a
	}
	if req.Severity != nil {
		s := detection.Severity(*req.Severity)
		p.Severity = &s
	}
	if req.EventTypes != nil {
		types := make([]detection.EventType, 0, len(*req.EventTypes))
		for _, t := range *req.EventTypes {
			types = append(types, detection.EventType(t))
		}
		p.EventTypes = &types
	}
	if req.Threshold != nil {
		p.Threshold = &detection.Threshold{
			Count:         req.Threshold.Count,
			WindowMinutes: req.Threshold.WindowMinutes,
		}
	}
	return p
}

// changedFields lists the JSON names present in the patch for the audit
// event.
func (req *RulePatchRequest) changedFields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(req.Name != nil, "name")
	add(req.Enabled != nil, "enabled")
	add(req.Action != nil, "action")
	add(req.Severity != nil, "severity")
	add(req.EventTypes != nil, "event_types")
	add(req.IPPattern != nil, "ip_pattern")
	add(req.UserPattern != nil, "user_pattern")
	add(req.Threshold != nil, "threshold")
	add(req.ClearThreshold, "clear_threshold")
	return fields
}
