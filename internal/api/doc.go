// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package api provides the HTTP surface of Palisade using the Chi router.

# Endpoints

Security API (authenticated, authorized by Casbin):

	GET    /api/v1/security/events          query retained events
	POST   /api/v1/security/events          record an event (producers)
	GET    /api/v1/security/events/stream   websocket live feed
	GET    /api/v1/security/stats           aggregate counts for a range
	GET    /api/v1/security/rules           list detection rules
	PATCH  /api/v1/security/rules/{id}      update a rule
	GET    /api/v1/security/blocked         list blocked addresses
	POST   /api/v1/security/blocked         block an address
	DELETE /api/v1/security/blocked/{ip}    unblock an address
	GET    /api/v1/security/risk/{ip}       risk level of an address

Operational:

	GET /api/v1/health/live
	GET /api/v1/health/ready
	GET /metrics

# Responses

Every JSON response uses models.APIResponse. Errors carry a code from the
models package (VALIDATION_ERROR, NOT_FOUND, ...) and a message that never
echoes request input. The request gate is the exception: its 400 and 403
bodies are fixed strings so a scanner learns nothing from them.

Administrative changes (rule updates, blocks, unblocks) are themselves
recorded as admin.config_change events.
*/
package api
