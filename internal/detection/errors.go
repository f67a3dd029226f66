// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import "errors"

var (
	// ErrRuleNotFound is returned when a rule ID does not exist.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrInvalidRule is returned when a rule patch would leave the rule unusable.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrInvalidAddress is returned for an empty or malformed address.
	ErrInvalidAddress = errors.New("invalid address")
)
