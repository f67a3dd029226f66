// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // clients only send control messages
	sendBuffer     = 64
)

// clientIDCounter gives clients monotonically increasing IDs so broadcast
// order is deterministic.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id          uint64
	hub         *Hub
	conn        *websocket.Conn
	send        chan Message
	minSeverity int
}

// NewClient creates a client that receives events at or above minSeverity.
// An empty minSeverity receives everything.
func NewClient(hub *Hub, conn *websocket.Conn, minSeverity detection.Severity) *Client {
	return &Client{
		id:          clientIDCounter.Add(1),
		hub:         hub,
		conn:        conn,
		send:        make(chan Message, sendBuffer),
		minSeverity: severityRank(minSeverity),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

func (c *Client) wants(ev detection.Event) bool {
	return severityRank(ev.Severity) >= c.minSeverity
}

func severityRank(s detection.Severity) int {
	switch s {
	case detection.SeverityLow:
		return 1
	case detection.SeverityMedium:
		return 2
	case detection.SeverityHigh:
		return 3
	case detection.SeverityCritical:
		return 4
	default:
		return 0
	}
}

// readPump handles control messages from the client until the connection
// closes, then unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Msg("unexpected websocket close error")
			}
			return
		}

		if msg.Type == MessageTypePing {
			c.hub.mu.RLock()
			if c.hub.clients[c] {
				select {
				case c.send <- Message{Type: MessageTypePong}:
				default:
				}
			}
			c.hub.mu.RUnlock()
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logging.Debug().Err(err).Msg("failed to write websocket message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start registers the client with the hub and begins reading and writing.
func (c *Client) Start() {
	c.hub.register(c)
	go c.writePump()
	go c.readPump()
}
