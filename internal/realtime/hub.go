package realtime

import (
	"context"
	"strings"
	"sync"

	"github.com/rinsrhq/console-backend/pkg/logger"
	"github.com/rinsrhq/console-backend/pkg/metrics"
)

const hubChannelPrefix = "hub:"

// Hub routes events to connected console clients. Channels are named per
// hub; both the bare hub id and the `hub:<id>` form address the same room.
type Hub struct {
	logg    *logger.Logger
	metrics *metrics.RealtimeMetrics

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub builds an empty hub.
func NewHub(logg *logger.Logger, m *metrics.RealtimeMetrics) *Hub {
	return &Hub{
		logg:    logg,
		metrics: m,
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// canonicalChannel maps both accepted naming conventions onto one room key.
func canonicalChannel(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, hubChannelPrefix)
	return name
}

// Register tracks a new connection.
func (h *Hub) Register(ctx context.Context, client *Client) {
	if client == nil {
		return
	}
	h.metrics.ConnOpened()
	if h.logg != nil {
		h.logg.Info(h.logg.WithField(ctx, "admin_id", client.adminID), "realtime.client_connected")
	}
}

// Unregister removes the connection from every room it joined.
func (h *Hub) Unregister(ctx context.Context, client *Client) {
	if client == nil {
		return
	}
	h.mu.Lock()
	for channel := range client.joined {
		if room, ok := h.rooms[channel]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, channel)
			}
		}
	}
	h.mu.Unlock()

	h.metrics.ConnClosed()
	if h.logg != nil {
		h.logg.Info(h.logg.WithField(ctx, "admin_id", client.adminID), "realtime.client_disconnected")
	}
}

// Join adds the client to the named channel. Joins are deduplicated per
// connection: joining the same logical channel twice (under either naming
// convention) is a no-op.
func (h *Hub) Join(ctx context.Context, client *Client, channel string) {
	if client == nil {
		return
	}
	canonical := canonicalChannel(channel)
	if canonical == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, already := client.joined[canonical]; already {
		return
	}
	room, ok := h.rooms[canonical]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[canonical] = room
	}
	room[client] = struct{}{}
	client.joined[canonical] = struct{}{}

	if h.logg != nil {
		fields := map[string]any{"admin_id": client.adminID, "channel": canonical}
		h.logg.Info(h.logg.WithFields(ctx, fields), "realtime.channel_joined")
	}
}

// BroadcastToHub delivers the event to every client in the hub's room.
// Slow clients whose send buffers are full are skipped; the channel has no
// delivery guarantee and consumers tolerate missed events.
func (h *Hub) BroadcastToHub(ctx context.Context, hubID string, event Event) {
	canonical := canonicalChannel(hubID)
	if canonical == "" {
		return
	}

	frame, err := event.Encode()
	if err != nil {
		if h.logg != nil {
			h.logg.Error(ctx, "realtime.encode_failed", err)
		}
		return
	}

	h.mu.RLock()
	room := h.rooms[canonical]
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, client := range clients {
		if client.enqueue(frame) {
			delivered++
		}
	}

	h.metrics.IncBroadcast(event.Name)
	if h.logg != nil {
		fields := map[string]any{"channel": canonical, "event": event.Name, "delivered": delivered}
		h.logg.Info(h.logg.WithFields(ctx, fields), "realtime.event_broadcast")
	}
}

// RoomSize reports the member count of a channel (either naming convention).
func (h *Hub) RoomSize(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[canonicalChannel(channel)])
}
