// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package main provides the Palisade HTTP server
//
// Palisade records security events, evaluates detection rules over sliding
// windows and enforces the resulting mitigations.
//
// @title Palisade Security API
// @version 1.0
// @description Administrative API of the Palisade security event and threat mitigation engine
// @description
// @description ## Features
// @description
// @description - **Event log**: Rolling in-memory window of security events with filtering
// @description - **Detection rules**: Runtime-editable rules with block, alert, challenge and log actions
// @description - **Block list**: Persisted address blocks enforced by the request gate
// @description - **Risk scoring**: Per-address risk levels derived from recent activity
// @description - **Live stream**: WebSocket feed of new events
// @description
// @description ## Authentication
// @description
// @description Security endpoints require a JWT bearer token unless the server runs with AUTH_MODE=none.
// @description Roles are authorized by Casbin: admin and security-lead may change rules and blocks,
// @description analyst may read, producer may only record events.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per address. Rejected requests
// @description receive 429 with a Retry-After header and are recorded as security.rate_limit_exceeded.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-03-01T12:00:00Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/palisade/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8480
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token: "Bearer <token>".
//
// @tag.name Core
// @tag.description Health checks
//
// @tag.name Events
// @tag.description Security event log, event ingest and statistics
//
// @tag.name Rules
// @tag.description Detection rule inspection and runtime updates
//
// @tag.name Blocks
// @tag.description Address blocks and risk levels
//
// @tag.name Realtime
// @tag.description WebSocket stream of new security events
package main
