// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for the security domain's closed vocabularies.
//
// Custom tags:
//   - eventtype: a known security event type (auth.login, security.sql_injection, ...)
//   - severity: low, medium, high, critical
//   - eventresult: success, failure, blocked
//   - ruleaction: alert, block, challenge, log
//   - timerange: 1h, 24h, 7d, 30d
//   - regexp: compiles with regexp.Compile
//   - ipaddr: parses as an IPv4 or IPv6 address
//
// Example usage:
//
//	type BlockRequest struct {
//	    IP     string `json:"ip" validate:"required,ipaddr"`
//	    Reason string `json:"reason" validate:"max=256"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
