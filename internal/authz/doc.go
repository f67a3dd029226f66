// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package authz authorizes administrative API calls using Casbin.
//
// # Architecture
//
//	Request -> Gate -> Auth Middleware -> Authz Middleware -> Handler
//	                       |                    |
//	                  Authenticate         Authorize (Casbin)
//	                  (internal/auth)      (this package)
//
// # RBAC Model
//
// Objects are request paths matched with keyMatch2; actions are derived from
// the HTTP method (read, write, delete) and matched as regular expressions:
//
//	m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
//
// # Built-in Roles
//
//   - admin: everything under /api/v1/security
//   - analyst: read-only access (events, stats, rules, blocks, risk, stream)
//   - producer: may only POST /api/v1/security/events
//
// The embedded model and policy can be replaced with files via
// EnforcerConfig.ModelPath and EnforcerConfig.PolicyPath. File policies are
// reloaded periodically when AutoReload is set.
//
// Denied requests are recorded as auth.access_denied security events.
package authz
