// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/palisade/internal/detection"
)

// newTestClient builds a client without a connection; tests drain send directly.
func newTestClient(hub *Hub, min detection.Severity, buffer int) *Client {
	c := NewClient(hub, nil, min)
	c.send = make(chan Message, buffer)
	hub.register(c)
	return c
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestHub_BroadcastsToClients(t *testing.T) {
	t.Parallel()

	hub, _, _ := startHub(t)
	all := newTestClient(hub, "", 8)
	highOnly := newTestClient(hub, detection.SeverityHigh, 8)

	hub.BroadcastEvent(detection.Event{ID: "e1", Type: detection.EventLogin, Severity: detection.SeverityLow})
	hub.BroadcastEvent(detection.Event{ID: "e2", Type: detection.EventSQLInjection, Severity: detection.SeverityCritical})

	for _, want := range []string{"e1", "e2"} {
		msg, ok := receive(t, all)
		if !ok || msg.Type != MessageTypeSecurityEvent {
			t.Fatalf("message = %+v, ok = %v", msg, ok)
		}
		if ev := msg.Data.(detection.Event); ev.ID != want {
			t.Errorf("event = %s, want %s", ev.ID, want)
		}
	}

	msg, _ := receive(t, highOnly)
	if ev := msg.Data.(detection.Event); ev.ID != "e2" {
		t.Errorf("filtered client got %s, want e2", ev.ID)
	}
	select {
	case extra := <-highOnly.send:
		t.Errorf("filtered client got unexpected message %+v", extra)
	default:
	}
}

func TestHub_DisconnectsSlowClient(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	slow := newTestClient(hub, "", 1)
	fast := newTestClient(hub, "", 8)

	hub.broadcastToClients(detection.Event{ID: "a", Severity: detection.SeverityLow})
	hub.broadcastToClients(detection.Event{ID: "b", Severity: detection.SeverityLow})

	if hub.GetClientCount() != 1 {
		t.Fatalf("clients = %d, want 1", hub.GetClientCount())
	}
	// Slow client gets its buffered message and then a closed channel.
	if _, ok := <-slow.send; !ok {
		t.Fatal("first message should still be buffered")
	}
	if _, ok := <-slow.send; ok {
		t.Fatal("slow client channel should be closed")
	}
	if len(fast.send) != 2 {
		t.Errorf("fast client buffered %d messages, want 2", len(fast.send))
	}

	// Unregistering an already dropped client must not double close.
	hub.unregister(slow)
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	t.Parallel()

	hub := NewHub() // not running: nothing drains the queue
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.BroadcastEvent(detection.Event{Severity: detection.SeverityLow})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastEvent blocked on a full queue")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	t.Parallel()

	hub, cancel, done := startHub(t)
	c := newTestClient(hub, "", 4)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel should be closed on shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients = %d after shutdown", hub.GetClientCount())
	}
}

func TestHub_AttachToEngine(t *testing.T) {
	t.Parallel()

	engine := detection.NewEngine(detection.Config{}, nil, nil)
	defer engine.Close()

	hub, _, _ := startHub(t)
	detach := hub.Attach(engine)
	c := newTestClient(hub, "", 8)

	engine.Record(context.Background(), detection.EventInput{
		Type:      detection.EventDataExport,
		Severity:  detection.SeverityMedium,
		IPAddress: "192.0.2.15",
		Result:    detection.ResultSuccess,
	})
	msg, _ := receive(t, c)
	if ev := msg.Data.(detection.Event); ev.Type != detection.EventDataExport || ev.IPAddress != "192.0.2.15" {
		t.Errorf("event = %+v", ev)
	}

	detach()
	engine.Record(context.Background(), detection.EventInput{Type: detection.EventLogin, IPAddress: "192.0.2.15"})
	select {
	case extra := <-c.send:
		t.Errorf("detached hub delivered %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClient_OverRealConnection(t *testing.T) {
	t.Parallel()

	hub, _, _ := startHub(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn, "").Start()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong Message
	if err := conn.ReadJSON(&pong); err != nil || pong.Type != MessageTypePong {
		t.Fatalf("pong = %+v, err = %v", pong, err)
	}

	hub.BroadcastEvent(detection.Event{ID: "live-1", Type: detection.EventXSSAttempt, Severity: detection.SeverityHigh})
	var got struct {
		Type string          `json:"type"`
		Data detection.Event `json:"data"`
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Type != MessageTypeSecurityEvent || got.Data.ID != "live-1" {
		t.Errorf("message = %+v", got)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.GetClientCount() != 0 {
		t.Error("client not unregistered after disconnect")
	}
}
