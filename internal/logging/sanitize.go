// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package logging

import (
	"fmt"
	"strings"
)

// maxLoggedValue bounds any attacker-supplied string written to a log line.
const maxLoggedValue = 200

// SanitizeValue escapes control characters and truncates s so that a
// request-supplied value cannot forge or flood log entries.
func SanitizeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return truncateString(b.String(), maxLoggedValue)
}

// SanitizeEmail masks the local part of an address: alice@example.com -> a***@example.com.
func SanitizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return SanitizeValue(email[:1] + "***" + email[at:])
}

// SanitizeIP returns ip with control characters removed. Addresses are kept
// intact because operators need them to act on blocks.
func SanitizeIP(ip string) string {
	return SanitizeValue(ip)
}

// truncateString shortens s to maxLen bytes, appending "..." when cut.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
