package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rinsrhq/console-backend/pkg/config"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

// inboundMessage is the client→server frame shape. Only channel joins are
// accepted from the client side.
type inboundMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// Client is one websocket connection owned by an authenticated admin.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	cfg    config.RealtimeConfig
	logg   *logger.Logger
	joined map[string]struct{}

	// sendMu orders enqueue against teardown: once closed is set the send
	// channel may no longer be written to.
	sendMu sync.Mutex
	closed bool
	send   chan []byte

	adminID string
	hubID   string
}

// NewClient wraps an upgraded connection. If the admin's hub association is
// already known the client joins that channel immediately; hubs resolved
// after connect arrive as inbound join frames handled by ReadPump.
func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, cfg config.RealtimeConfig, logg *logger.Logger, adminID, hubID string) *Client {
	client := &Client{
		hub:     hub,
		conn:    conn,
		cfg:     cfg,
		logg:    logg,
		send:    make(chan []byte, cfg.SendBufferLength),
		joined:  make(map[string]struct{}),
		adminID: adminID,
		hubID:   hubID,
	}
	hub.Register(ctx, client)
	client.JoinKnownHub(ctx)
	return client
}

// JoinKnownHub sends the hub join under both naming conventions when the
// hub association is known. Safe to call from both the connect path and the
// late principal-load path; the hub deduplicates the joins.
func (c *Client) JoinKnownHub(ctx context.Context) {
	if c.hubID == "" {
		return
	}
	c.hub.Join(ctx, c, c.hubID)
	c.hub.Join(ctx, c, hubChannelPrefix+c.hubID)
}

// enqueue hands a frame to the write pump without blocking. Returns false
// when the client has torn down or its buffer is full and the frame was
// dropped. A broadcast racing a disconnect must never reach a closed
// channel.
func (c *Client) enqueue(frame []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend marks the client torn down and closes the send channel exactly
// once, so WritePump drains and exits.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump consumes inbound frames until the connection drops. Disconnects
// and read errors are observed and logged, never retried here.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(ctx, c)
		c.closeSend()
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if c.logg != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logg.Warn(c.logg.WithField(ctx, "admin_id", c.adminID), "realtime.read_error")
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == "join" && msg.Channel != "" {
			c.hub.Join(ctx, c, msg.Channel)
		}
	}
}

// WritePump flushes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
