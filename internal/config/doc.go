// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package config provides centralized configuration management for Palisade.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file, then environment variables. The file is read from CONFIG_PATH
when set, otherwise from the first of DefaultConfigPaths that exists.

# Configuration Structure

  - ServerConfig: HTTP listener and timeouts
  - SecurityConfig: auth mode, JWT, rate limiting, CORS, trusted proxies, Casbin
  - DetectionConfig: engine capacity, failed-login thresholds, risk cache, request gate
  - StorageConfig: memory or BadgerDB persistence for rules and blocks
  - ClusterConfig: Redis-shared block set
  - NotifiersConfig: webhook and Kafka alert transports
  - LoggingConfig: zerolog level and format

# Environment Variables

Only names listed in the mapping table are read, so unrelated variables in
the process environment never leak into the configuration. Slice fields
(CORS_ORIGINS, TRUSTED_PROXIES, KAFKA_BROKERS) are comma-separated.

Security:
  - AUTH_MODE: none or jwt (default: jwt)
  - JWT_SECRET: HS256 signing secret, at least 32 characters
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: per-address API limit

Detection:
  - FAILED_LOGIN_THRESHOLD / FAILED_LOGIN_WINDOW: automatic block trigger
  - GATE_MAX_BODY_BYTES: injection guard body cap

Cluster:
  - REDIS_URL: share blocked addresses between instances
  - BLOCK_SYNC_INTERVAL: how often each instance reloads the shared set

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engine := detection.NewEngine(cfg.EngineConfig(), stores.Blocks, stores.Rules)
*/
package config
