// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/palisade/internal/detection"
)

// Key prefixes for BadgerDB storage
const (
	blockKeyPrefix = "block:"
	ruleKeyPrefix  = "rule:"
)

// BadgerStore persists blocked addresses and detection rules in BadgerDB.
// It implements both detection.BlockStore and detection.RuleStore.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// OpenBadger opens (or creates) a BadgerDB at path. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.ValueLogFileSize = 16 << 20 // records are small
		opts.SyncWrites = true
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db at %q: %w", path, err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStoreFromDB wraps an existing database. Close leaves it open.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// SaveBlock implements detection.BlockStore.
func (s *BadgerStore) SaveBlock(ctx context.Context, entry *detection.BlockEntry) error {
	if entry == nil || entry.Address == "" {
		return errors.New("block entry address cannot be empty")
	}
	return s.put(ctx, blockKeyPrefix+entry.Address, entry)
}

// DeleteBlock implements detection.BlockStore. Deleting a missing address
// is not an error.
func (s *BadgerStore) DeleteBlock(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(blockKeyPrefix + address))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete block: %w", err)
		}
		return nil
	})
}

// ListBlocks implements detection.BlockStore.
func (s *BadgerStore) ListBlocks(ctx context.Context) ([]detection.BlockEntry, error) {
	var entries []detection.BlockEntry
	err := s.scan(ctx, blockKeyPrefix, func(val []byte) error {
		var entry detection.BlockEntry
		if err := json.Unmarshal(val, &entry); err != nil {
			return fmt.Errorf("unmarshal block: %w", err)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return entries, nil
}

// SaveRule implements detection.RuleStore.
func (s *BadgerStore) SaveRule(ctx context.Context, rule *detection.Rule) error {
	if rule == nil || rule.ID == "" {
		return errors.New("rule id cannot be empty")
	}
	return s.put(ctx, ruleKeyPrefix+rule.ID, rule)
}

// ListRules implements detection.RuleStore. Order is by key; the engine
// sorts by Position.
func (s *BadgerStore) ListRules(ctx context.Context) ([]detection.Rule, error) {
	var rules []detection.Rule
	err := s.scan(ctx, ruleKeyPrefix, func(val []byte) error {
		var rule detection.Rule
		if err := json.Unmarshal(val, &rule); err != nil {
			return fmt.Errorf("unmarshal rule: %w", err)
		}
		rules = append(rules, rule)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// Close closes the database if this store opened it.
func (s *BadgerStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

func (s *BadgerStore) put(ctx context.Context, key string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

func (s *BadgerStore) scan(ctx context.Context, prefix string, fn func(val []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}
