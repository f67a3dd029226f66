// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package websocket streams recorded security events to dashboard clients.

The Hub subscribes to the detection engine and fans each event out to
connected clients. Delivery never blocks the engine: events are queued on a
bounded broadcast channel and each client has its own bounded send buffer.
A client that cannot keep up is disconnected and the drop is counted in
security_stream_dropped_total.

Message format:

	{"type": "security_event", "data": {...detection.Event...}}

Clients may send {"type": "ping"} and receive {"type": "pong"}. A client
can ask for only events at or above a severity by connecting with
?min_severity=high.

Thread Safety:

All Hub methods are safe for concurrent use. RunWithContext is designed to
run under suture supervision and may be restarted.
*/
package websocket
