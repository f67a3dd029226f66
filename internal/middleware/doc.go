// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package middleware provides the HTTP middleware that sits in front of every
protected route.

Key Components:

  - RequestID: UUID request tracking, propagated into log lines
  - ClientIPResolver: trusted-proxy aware client address resolution
  - Gate.BlockGate: rejects blocked addresses with 403 and records the attempt
  - Gate.InjectionGuard: screens query, path and body for SQL injection and XSS
  - PrometheusMetrics: request counters and latency histograms by route pattern

Middleware Stack:

The router applies the components in this order:

	RequestID
	  -> ClientIPResolver.Middleware
	    -> Gate.BlockGate
	      -> Gate.InjectionGuard
	        -> PrometheusMetrics
	          -> handler

All middleware uses the func(http.HandlerFunc) http.HandlerFunc shape; the
api package adapts them to chi.

Gate responses are fixed JSON bodies. They never echo request input, matched
signatures or rule names back to the caller.

Thread Safety:

All middleware is safe for concurrent use. Gate state lives in the
detection engine it records into.
*/
package middleware
