// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package store

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/palisade/internal/detection"
)

func newMemoryBadger(t *testing.T) *BadgerStore {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open in-memory BadgerDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBadgerStoreFromDB(db)
}

func TestBadgerStore_Blocks(t *testing.T) {
	t.Parallel()
	s := newMemoryBadger(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	for _, addr := range []string{"192.0.2.1", "2001:db8::1"} {
		entry := &detection.BlockEntry{Address: addr, Reason: "test", Source: detection.BlockSourceAdmin, BlockedAt: now}
		if err := s.SaveBlock(ctx, entry); err != nil {
			t.Fatalf("SaveBlock(%s): %v", addr, err)
		}
	}

	entries, err := s.ListBlocks(ctx)
	if err != nil {
		t.Fatalf("ListBlocks: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListBlocks returned %d entries, want 2", len(entries))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })
	if entries[0].Address != "192.0.2.1" || entries[0].Source != detection.BlockSourceAdmin || !entries[0].BlockedAt.Equal(now) {
		t.Errorf("entry = %+v", entries[0])
	}

	if err := s.DeleteBlock(ctx, "192.0.2.1"); err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	if err := s.DeleteBlock(ctx, "198.51.100.1"); err != nil {
		t.Errorf("DeleteBlock of missing address: %v", err)
	}
	entries, _ = s.ListBlocks(ctx)
	if len(entries) != 1 || entries[0].Address != "2001:db8::1" {
		t.Errorf("after delete = %+v", entries)
	}

	if err := s.SaveBlock(ctx, &detection.BlockEntry{}); err == nil {
		t.Error("expected error for empty address")
	}
}

func TestBadgerStore_Rules(t *testing.T) {
	t.Parallel()
	s := newMemoryBadger(t)
	ctx := context.Background()

	rules, err := s.ListRules(ctx)
	if err != nil || len(rules) != 0 {
		t.Fatalf("empty ListRules = %v, %v", rules, err)
	}

	defaults := detection.DefaultRules(time.Now())
	for i := range defaults {
		if err := s.SaveRule(ctx, &defaults[i]); err != nil {
			t.Fatalf("SaveRule: %v", err)
		}
	}
	defaults[0].Enabled = false
	if err := s.SaveRule(ctx, &defaults[0]); err != nil {
		t.Fatalf("SaveRule overwrite: %v", err)
	}

	rules, err = s.ListRules(ctx)
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(rules) != len(defaults) {
		t.Fatalf("ListRules returned %d, want %d", len(rules), len(defaults))
	}
	for _, r := range rules {
		if r.ID == defaults[0].ID && r.Enabled {
			t.Errorf("rule %s should have been overwritten as disabled", r.ID)
		}
	}
	if err := s.SaveRule(ctx, &detection.Rule{}); err == nil {
		t.Error("expected error for empty rule id")
	}
}

func TestBadgerStore_CanceledContext(t *testing.T) {
	t.Parallel()
	s := newMemoryBadger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SaveBlock(ctx, &detection.BlockEntry{Address: "192.0.2.1"}); err == nil {
		t.Error("SaveBlock should fail on canceled context")
	}
	if _, err := s.ListRules(ctx); err == nil {
		t.Error("ListRules should fail on canceled context")
	}
}

// Blocks and rule edits must survive an engine restart.
func TestBadgerStore_EngineRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	first, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	e1 := detection.NewEngine(detection.Config{}, first, first)
	if err := e1.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := e1.BlockIP(ctx, "203.0.113.50", "scanner"); err != nil {
		t.Fatalf("BlockIP: %v", err)
	}
	disabled := false
	if _, err := e1.UpdateRule(ctx, "bulk-export-challenge", detection.RulePatch{Enabled: &disabled}); err != nil {
		t.Fatalf("UpdateRule: %v", err)
	}
	e1.Close()
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	e2 := detection.NewEngine(detection.Config{}, second, second)
	if err := e2.Load(ctx); err != nil {
		t.Fatalf("Load after restart: %v", err)
	}
	defer e2.Close()

	if !e2.IsBlocked("203.0.113.50") {
		t.Error("block did not survive restart")
	}
	r, err := e2.Rule("bulk-export-challenge")
	if err != nil {
		t.Fatalf("Rule: %v", err)
	}
	if r.Enabled {
		t.Error("rule edit did not survive restart")
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mem, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if mem.Blocks != nil || mem.Rules != nil {
		t.Error("memory backend should not open stores")
	}
	if err := mem.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	_ = mem.Close()

	disk, err := Open(ctx, Config{Backend: BackendBadger, Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Open badger: %v", err)
	}
	if disk.Blocks == nil || disk.Rules == nil {
		t.Error("badger backend should open both stores")
	}
	if err := disk.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	if _, err := Open(ctx, Config{Backend: BackendBadger}); err == nil {
		t.Error("expected error for badger without path")
	}
	if _, err := Open(ctx, Config{Backend: "sqlite"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
