// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package models defines the wire structures shared by the HTTP layers.

Every JSON response from the administrative API, the authentication layer
and the authorization layer uses the APIResponse envelope, so clients can
handle errors uniformly regardless of which layer rejected the request.
Domain types (events, rules, block entries) live in the detection package.
*/
package models
