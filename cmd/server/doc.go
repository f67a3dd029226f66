// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package main is the entry point for the Palisade server.

Palisade records security events reported by producers and by its own
request gate, evaluates detection rules against each event, and enforces the
resulting mitigations: address blocks, alerts over webhook and Kafka, and a
live websocket feed.

# Application Architecture

	RootSupervisor ("palisade")
	├── DetectionSupervisor ("detection-layer")
	│   └── Detection engine maintenance and block sync
	├── StreamSupervisor ("stream-layer")
	│   └── WebSocket hub
	└── APISupervisor ("api-layer")
	    └── HTTP server

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Storage: memory or BadgerDB, optionally Redis for the shared block set
 4. Detection engine: restore rules and blocks, register notifiers
 5. HTTP stack: client address resolution, block gate, injection guard,
    rate limit, JWT authentication, Casbin authorization
 6. Supervisor tree

# Example Usage

Development:

	export AUTH_MODE=none
	./palisade

Production with persistence and a shared block set:

	export ENVIRONMENT=production
	export JWT_SECRET=$(openssl rand -base64 48)
	export CORS_ORIGINS=https://console.example.com
	export STORAGE_BACKEND=badger
	export STORAGE_PATH=/data/palisade
	export REDIS_URL=redis://redis:6379/0
	export WEBHOOK_URL=https://alerts.example.com/palisade
	./palisade

# API Documentation

Swagger documentation is served at /swagger/index.html. The docs package is
generated from handler annotations:

	swag init -g cmd/server/docs.go -o docs

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SHUTDOWN_TIMEOUT, the hub closes subscriber connections, pending alert
deliveries finish, and the stores close last.
*/
package main
