// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewErrorResponse(t *testing.T) {
	t.Parallel()

	resp := NewErrorResponse(ErrCodeNotFound, "Rule not found")
	if resp.Status != "error" || resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"status":"error"`, `"data":null`, `"code":"NOT_FOUND"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
	if strings.Contains(s, "details") {
		t.Errorf("empty details should be omitted: %s", s)
	}
}

func TestNewSuccessResponse(t *testing.T) {
	t.Parallel()

	resp := NewSuccessResponse(map[string]int{"blocked": 3})
	if resp.Status != "success" || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("success response carries error field: %s", data)
	}
}
