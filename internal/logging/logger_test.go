// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel("warn") {
		t.Error("ValidLevel(warn) = false, want true")
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) = true, want false")
	}
}

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("ip", "10.0.0.1").Msg("address blocked")
	Debug().Msg("should be filtered")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "address blocked" {
		t.Errorf("message = %v, want address blocked", entry["message"])
	}
	if entry["ip"] != "10.0.0.1" {
		t.Errorf("ip = %v, want 10.0.0.1", entry["ip"])
	}
}

func TestCtxAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	ctx := ContextWithRequestID(context.Background(), "req-123")
	ctx = ContextWithClientIP(ctx, "192.0.2.7")
	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) {
		t.Errorf("missing request_id in %s", out)
	}
	if !strings.Contains(out, `"client_ip":"192.0.2.7"`) {
		t.Errorf("missing client_ip in %s", out)
	}
}

func TestContextAccessorsEmpty(t *testing.T) {
	t.Parallel()
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext = %q, want empty", got)
	}
	if got := ClientIPFromContext(context.Background()); got != "" {
		t.Errorf("ClientIPFromContext = %q, want empty", got)
	}
	if id := GenerateRequestID(); len(id) != 36 {
		t.Errorf("GenerateRequestID length = %d, want 36", len(id))
	}
}

func TestSanitizeValue(t *testing.T) {
	t.Parallel()

	if got := SanitizeValue("line1\nline2"); got != `line1\x0aline2` {
		t.Errorf("SanitizeValue newline = %q", got)
	}
	long := strings.Repeat("a", 500)
	if got := SanitizeValue(long); len(got) != maxLoggedValue || !strings.HasSuffix(got, "...") {
		t.Errorf("SanitizeValue long: len=%d", len(got))
	}
}

func TestSanitizeEmail(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"alice@example.com": "a***@example.com",
		"":                  "",
		"not-an-email":      "***",
		"@example.com":      "***",
	}
	for in, want := range tests {
		if got := SanitizeEmail(in); got != want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlogHandlerRoutesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	logger := NewSlogLogger().With("service", "engine").WithGroup("supervisor")
	logger.Warn("service restarted", slog.Int("attempt", 2))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"engine"`, `"supervisor.attempt":2`, `"message":"service restarted"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}
