// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package authz

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(&EnforcerConfig{CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	t.Parallel()

	e := newTestEnforcer(t)

	tests := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"admin", "/api/v1/security/events", ActionRead, true},
		{"admin", "/api/v1/security/rules/brute-force-login", ActionWrite, true},
		{"admin", "/api/v1/security/blocked/203.0.113.5", ActionDelete, true},
		{"security-lead", "/api/v1/security/blocked", ActionWrite, true},
		{"analyst", "/api/v1/security/stats", ActionRead, true},
		{"analyst", "/api/v1/security/events/stream", ActionRead, true},
		{"analyst", "/api/v1/security/rules/brute-force-login", ActionWrite, false},
		{"analyst", "/api/v1/security/blocked/203.0.113.5", ActionDelete, false},
		{"producer", "/api/v1/security/events", ActionWrite, true},
		{"producer", "/api/v1/security/events", ActionRead, false},
		{"producer", "/api/v1/security/blocked", ActionWrite, false},
		{"admin", "/metrics", ActionRead, false},
		{"stranger", "/api/v1/security/events", ActionRead, false},
	}

	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.object, tt.action)
		if err != nil {
			t.Fatalf("Enforce(%s, %s, %s) error = %v", tt.role, tt.object, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
		}
	}
}

func TestEnforcer_EnforceWithRoles(t *testing.T) {
	t.Parallel()

	e := newTestEnforcer(t)

	allowed, err := e.EnforceWithRoles("svc-1", []string{"producer", "analyst"}, "/api/v1/security/stats", ActionRead)
	if err != nil || !allowed {
		t.Errorf("any matching role should allow: %v %v", allowed, err)
	}
	allowed, err = e.EnforceWithRoles("svc-1", nil, "/api/v1/security/stats", ActionRead)
	if err != nil || allowed {
		t.Errorf("no roles should deny: %v %v", allowed, err)
	}
}

func TestEnforcer_FilePolicy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.csv")
	content := "p, auditor, /api/v1/security/events, ^read$\ng, alice, auditor\n"
	if err := os.WriteFile(policy, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := NewEnforcer(&EnforcerConfig{PolicyPath: policy})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	defer e.Close()

	if ok, _ := e.Enforce("alice", "/api/v1/security/events", ActionRead); !ok {
		t.Error("alice should inherit auditor read")
	}
	if ok, _ := e.Enforce("admin", "/api/v1/security/events", ActionRead); ok {
		t.Error("file policy replaces the embedded one")
	}

	// Grant more and reload.
	content += "p, auditor, /api/v1/security/stats, ^read$\n"
	if err := os.WriteFile(policy, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := e.ReloadPolicy(); err != nil {
		t.Fatalf("ReloadPolicy() error = %v", err)
	}
	if ok, _ := e.Enforce("alice", "/api/v1/security/stats", ActionRead); !ok {
		t.Error("reloaded policy not applied")
	}
}

func TestNewEnforcer_MissingFiles(t *testing.T) {
	t.Parallel()

	if _, err := NewEnforcer(&EnforcerConfig{ModelPath: "/nonexistent/model.conf"}); err == nil {
		t.Error("expected error for missing model file")
	}
	if _, err := NewEnforcer(&EnforcerConfig{PolicyPath: "/nonexistent/policy.csv"}); err == nil {
		t.Error("expected error for missing policy file")
	}
}

func TestDecisionCache(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newDecisionCache(time.Minute)
	c.now = func() time.Time { return now }

	c.set("admin", "/x", ActionRead, true)
	if allowed, ok := c.get("admin", "/x", ActionRead); !ok || !allowed {
		t.Errorf("get() = %v, %v", allowed, ok)
	}
	if _, ok := c.get("admin", "/x", ActionWrite); ok {
		t.Error("different action must miss")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.get("admin", "/x", ActionRead); ok {
		t.Error("expired entry must miss")
	}

	for i := 0; i < maxCachedDecisions+10; i++ {
		c.set("analyst", "/api/v1/security/risk/"+time.Duration(i).String(), ActionRead, true)
	}
	if n := c.len(); n > maxCachedDecisions {
		t.Errorf("cache grew to %d entries", n)
	}

	c.clear()
	if c.len() != 0 {
		t.Error("clear() left entries")
	}
}
