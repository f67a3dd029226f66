// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeSecurityEvent = "security_event"
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
)

const broadcastBuffer = 256

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// EventSource is the part of *detection.Engine the hub subscribes to.
type EventSource interface {
	Subscribe(fn func(detection.Event)) (unsubscribe func())
}

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	clients   map[*Client]bool
	broadcast chan detection.Event
	mu        sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan detection.Event, broadcastBuffer),
		clients:   make(map[*Client]bool),
	}
}

// Attach subscribes the hub to source. The returned function detaches it.
func (h *Hub) Attach(source EventSource) (detach func()) {
	return source.Subscribe(h.BroadcastEvent)
}

// BroadcastEvent queues ev for delivery without blocking. When the
// broadcast queue is full the event is dropped for every client.
func (h *Hub) BroadcastEvent(ev detection.Event) {
	select {
	case h.broadcast <- ev:
	default:
		metrics.RecordStreamDrop()
		logging.Warn().Str("event_type", string(ev.Type)).Msg("broadcast channel full, dropping security event")
	}
}

// register adds a client. Clients register themselves in Client.Start.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.TrackStreamClient(true)
	logging.Info().Int("total_clients", n).Msg("websocket client connected")
}

// unregister removes a client and closes its send channel. It is safe to
// call for a client the hub already dropped.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		metrics.TrackStreamClient(false)
		logging.Info().Int("total_clients", n).Msg("websocket client disconnected")
	}
}

// RunWithContext delivers queued events until ctx is canceled, then closes
// every client and returns ctx.Err().
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Shutdown takes priority over pending broadcasts.
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case ev := <-h.broadcast:
			h.broadcastToClients(ev)
		}
	}
}

// logGracefulShutdown closes all clients and logs without an error field;
// cancellation is the normal shutdown path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients returns clients ordered by ID. Caller holds h.mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends ev to every interested client in ID order.
// Clients whose buffer is full are disconnected.
func (h *Hub) broadcastToClients(ev detection.Event) {
	message := Message{Type: MessageTypeSecurityEvent, Data: ev}

	h.mu.Lock()
	var dropped int
	for _, client := range h.sortedClients() {
		if !client.wants(ev) {
			continue
		}
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
			dropped++
		}
	}
	h.mu.Unlock()

	for i := 0; i < dropped; i++ {
		metrics.RecordStreamDrop()
		metrics.TrackStreamClient(false)
	}
	if dropped > 0 {
		logging.Warn().Int("clients", dropped).Msg("disconnected slow websocket clients")
	}
}

// closeAllClients closes every client in ID order.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	clients := h.sortedClients()
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	for range clients {
		metrics.TrackStreamClient(false)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
