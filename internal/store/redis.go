// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
)

// DefaultKeyPrefix namespaces Palisade keys in a shared Redis.
const DefaultKeyPrefix = "palisade:"

// ConnectRedis builds a client from a redis:// URL or a bare host:port and
// verifies it with PING.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisBlockStore shares the blocked address set between instances through
// one Redis hash (address -> JSON BlockEntry). Instances pick up each
// other's blocks on their next SyncBlocks; there is no stronger ordering.
type RedisBlockStore struct {
	client *redis.Client
	key    string
}

// NewRedisBlockStore stores blocks under prefix+"blocked".
func NewRedisBlockStore(client *redis.Client, prefix string) *RedisBlockStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisBlockStore{client: client, key: prefix + "blocked"}
}

// SaveBlock implements detection.BlockStore. An address already present
// keeps its original entry.
func (s *RedisBlockStore) SaveBlock(ctx context.Context, entry *detection.BlockEntry) error {
	if entry == nil || entry.Address == "" {
		return errors.New("block entry address cannot be empty")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal block: %w", err)
	}
	if err := s.client.HSetNX(ctx, s.key, entry.Address, data).Err(); err != nil {
		return fmt.Errorf("hsetnx %s: %w", s.key, err)
	}
	return nil
}

// DeleteBlock implements detection.BlockStore.
func (s *RedisBlockStore) DeleteBlock(ctx context.Context, address string) error {
	if err := s.client.HDel(ctx, s.key, address).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", s.key, err)
	}
	return nil
}

// ListBlocks implements detection.BlockStore. Undecodable entries are
// skipped and logged.
func (s *RedisBlockStore) ListBlocks(ctx context.Context) ([]detection.BlockEntry, error) {
	data, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", s.key, err)
	}
	entries := make([]detection.BlockEntry, 0, len(data))
	for addr, raw := range data {
		var entry detection.BlockEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			logging.Warn().Err(err).Str("ip", logging.SanitizeIP(addr)).Msg("Skipping malformed shared block entry")
			continue
		}
		if entry.Address == "" {
			entry.Address = addr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Ping checks connectivity for readiness probes.
func (s *RedisBlockStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
