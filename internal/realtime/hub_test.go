package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

func newTestClient(hubID string) *Client {
	return &Client{
		send:    make(chan []byte, 8),
		joined:  make(map[string]struct{}),
		adminID: "admin-1",
		hubID:   hubID,
	}
}

func TestJoinDeduplicatesNamingConventions(t *testing.T) {
	hub := NewHub(nil, nil)
	client := newTestClient("hub-7")
	client.hub = hub
	ctx := context.Background()

	// Both conventions are sent; the room must contain the client once.
	hub.Join(ctx, client, "hub-7")
	hub.Join(ctx, client, "hub:hub-7")
	hub.Join(ctx, client, "hub-7")

	if got := hub.RoomSize("hub-7"); got != 1 {
		t.Fatalf("expected 1 member, got %d", got)
	}
	if got := hub.RoomSize("hub:hub-7"); got != 1 {
		t.Fatalf("expected prefixed lookup to hit the same room, got %d", got)
	}
	if len(client.joined) != 1 {
		t.Fatalf("expected a single joined channel, got %d", len(client.joined))
	}
}

func TestJoinOnConnectAndOnPrincipalLoadBothWork(t *testing.T) {
	hub := NewHub(nil, nil)
	ctx := context.Background()

	// Hub unknown at connect time.
	client := newTestClient("")
	client.hub = hub
	client.JoinKnownHub(ctx)
	if got := hub.RoomSize("hub-9"); got != 0 {
		t.Fatalf("expected no join before hub is known, got %d", got)
	}

	// Association resolves later; the client sends a join frame for it,
	// which ReadPump forwards to the hub.
	hub.Join(ctx, client, "hub:hub-9")
	if got := hub.RoomSize("hub-9"); got != 1 {
		t.Fatalf("expected join after late principal load, got %d", got)
	}
}

func TestBroadcastReachesRoomMembers(t *testing.T) {
	hub := NewHub(nil, nil)
	ctx := context.Background()

	member := newTestClient("hub-1")
	member.hub = hub
	hub.Join(ctx, member, "hub-1")

	other := newTestClient("hub-2")
	other.hub = hub
	hub.Join(ctx, other, "hub-2")

	event := Event{
		Name:    EventVendorOrderDispatched,
		Message: "Order dispatched",
		Payload: map[string]any{"vendorOrderId": "ord-1"},
	}
	hub.BroadcastToHub(ctx, "hub:hub-1", event)

	select {
	case frame := <-member.send:
		var decoded Event
		if err := json.Unmarshal(frame, &decoded); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if decoded.Name != EventVendorOrderDispatched {
			t.Fatalf("unexpected event %q", decoded.Name)
		}
	default:
		t.Fatal("expected member to receive the event")
	}

	select {
	case <-other.send:
		t.Fatal("event leaked into another hub's room")
	default:
	}
}

func TestEnqueueAfterTeardownDropsFrame(t *testing.T) {
	client := newTestClient("hub-6")

	client.closeSend()
	if client.enqueue([]byte("late")) {
		t.Fatal("expected frame enqueued after teardown to be dropped")
	}

	// A second teardown must be a no-op, not a double close.
	client.closeSend()
}

func TestBroadcastDuringDisconnectDoesNotPanic(t *testing.T) {
	hub := NewHub(nil, nil)
	ctx := context.Background()

	clients := make([]*Client, 0, 200)
	for i := 0; i < 200; i++ {
		client := newTestClient("hub-5")
		client.hub = hub
		hub.Join(ctx, client, "hub-5")
		clients = append(clients, client)
	}

	event := Event{
		Name:    EventVendorOrderDeclined,
		Message: "Order declined",
		Payload: map[string]any{"vendorOrderId": "ord-2"},
	}

	// Broadcasts race every client's teardown; a member snapshotted just
	// before it disconnects must be skipped, never written to.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			hub.BroadcastToHub(ctx, "hub-5", event)
		}
	}()
	go func() {
		defer wg.Done()
		for _, client := range clients {
			hub.Unregister(ctx, client)
			client.closeSend()
		}
	}()
	wg.Wait()

	if got := hub.RoomSize("hub-5"); got != 0 {
		t.Fatalf("expected empty room after all disconnects, got %d", got)
	}
}

func TestUnregisterRemovesFromRooms(t *testing.T) {
	hub := NewHub(nil, nil)
	ctx := context.Background()

	client := newTestClient("hub-3")
	client.hub = hub
	hub.Join(ctx, client, "hub-3")
	hub.Unregister(ctx, client)

	if got := hub.RoomSize("hub-3"); got != 0 {
		t.Fatalf("expected empty room after unregister, got %d", got)
	}
}
