// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package store persists blocked addresses and detection rules.
//
// Two backends exist: BadgerDB on local disk (rules and blocks) and a Redis
// hash that several instances share for the block set. Open wires them
// together from configuration. With the memory backend and no Redis URL
// both stores are nil and the engine keeps state in memory only.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
)

// Backend selects local persistence.
type Backend string

const (
	// BackendMemory keeps rules and blocks in process memory (default).
	BackendMemory Backend = "memory"

	// BackendBadger persists rules and blocks to BadgerDB.
	BackendBadger Backend = "badger"
)

// Config selects and configures the stores.
type Config struct {
	Backend   Backend
	Path      string
	RedisURL  string // non-empty shares the block set through Redis
	KeyPrefix string
}

// Stores holds the opened persistence backends.
type Stores struct {
	Blocks detection.BlockStore
	Rules  detection.RuleStore

	badger *BadgerStore
	redis  *redis.Client
}

// Open opens the configured backends. When RedisURL is set the block set
// lives in Redis and rules stay local.
func Open(ctx context.Context, cfg Config) (*Stores, error) {
	s := &Stores{}

	switch cfg.Backend {
	case "", BackendMemory:
	case BackendBadger:
		if cfg.Path == "" {
			return nil, errors.New("badger storage requires a path")
		}
		db, err := OpenBadger(cfg.Path)
		if err != nil {
			return nil, err
		}
		s.badger = db
		s.Blocks = db
		s.Rules = db
		logging.Info().Str("path", cfg.Path).Msg("BadgerDB store opened")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if cfg.RedisURL != "" {
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.redis = client
		s.Blocks = NewRedisBlockStore(client, cfg.KeyPrefix)
		logging.Info().Msg("Sharing blocked addresses through Redis")
	}
	return s, nil
}

// Ping checks the shared store, if any.
func (s *Stores) Ping(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Ping(ctx).Err()
}

// Close releases every opened backend.
func (s *Stores) Close() error {
	var errs []error
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if s.badger != nil {
		if err := s.badger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close badger: %w", err))
		}
	}
	return errors.Join(errs...)
}
