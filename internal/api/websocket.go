package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/gray-logic-dock/internal/dock"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/logging"
)

// WebSocket message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"
)

// Event channels clients can subscribe to.
const (
	ChannelStatus     = "dock.status"
	ChannelTransition = "dock.transition"
	ChannelDiagnostic = "dock.diagnostic"
)

// wsSendBufferSize is the per-client outbound queue length. A client whose
// queue is full misses events rather than stalling the controller.
const wsSendBufferSize = 256

var knownChannels = map[string]struct{}{
	ChannelStatus:     {},
	ChannelTransition: {},
	ChannelDiagnostic: {},
}

// WSMessage is the envelope for every server-to-client message.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload is the payload of subscribe and unsubscribe requests.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// wsRequest is a client-to-server message; the payload is decoded per type.
type wsRequest struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served on the controller's own network only.
	CheckOrigin: func(*http.Request) bool { return true },
}

func newEnvelope(msgType, id, eventType string, payload any) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      msgType,
		ID:        id,
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
}

// Hub fans controller events out to subscribed WebSocket clients.
// It implements dock.Publisher.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[*WSClient]struct{}
	status  func() dock.Snapshot
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*WSClient]struct{}),
	}
}

// SetStatusSource lets new dock.status subscribers receive the current
// snapshot immediately instead of waiting for the next change.
func (h *Hub) SetStatusSource(fn func() dock.Snapshot) {
	h.mu.Lock()
	h.status = fn
	h.mu.Unlock()
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
	}
}

// Register adds a client.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

// Unregister removes a client and closes its send queue. Only the call that
// actually removes the client closes the queue, so repeated calls are safe.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("websocket client disconnected", "clients", n)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues an event for every client subscribed to channel.
// The hub lock is held while queueing, so Unregister cannot close a queue
// mid-send.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := newEnvelope(WSTypeEvent, "", channel, payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "channel", channel, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.isSubscribed(channel) {
			client.enqueue(data)
		}
	}
}

// PublishTransition broadcasts on ChannelTransition.
func (h *Hub) PublishTransition(t dock.Transition) { h.Broadcast(ChannelTransition, t) }

// PublishDiagnostic broadcasts on ChannelDiagnostic.
func (h *Hub) PublishDiagnostic(d dock.Diagnostic) { h.Broadcast(ChannelDiagnostic, d) }

// PublishStatus broadcasts on ChannelStatus.
func (h *Hub) PublishStatus(s dock.Snapshot) { h.Broadcast(ChannelStatus, s) }

// sendInitialStatus pushes the current snapshot to one client.
func (h *Hub) sendInitialStatus(client *WSClient) {
	h.mu.RLock()
	fn := h.status
	h.mu.RUnlock()
	if fn == nil {
		return
	}

	data, err := newEnvelope(WSTypeEvent, "", ChannelStatus, fn())
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client]; ok {
		client.enqueue(data)
	}
}

// WSClient is one connected WebSocket peer.
type WSClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu            sync.RWMutex
	subscriptions map[string]struct{}
}

// handleWebSocket upgrades the request and starts the client's pumps.
// Clients receive nothing until they subscribe.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &WSClient{
		hub:           s.hub,
		conn:          conn,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	s.hub.Register(client)

	go client.writePump(s.wsCfg)
	go client.readPump(s.wsCfg)
}

func (c *WSClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	deadline := time.Duration(cfg.PingInterval+cfg.PongTimeout) * time.Second
	extend := func() error { return c.conn.SetReadDeadline(time.Now().Add(deadline)) }

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	//nolint:errcheck // a failed deadline surfaces as a read error
	extend()
	c.conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		// Application messages count as liveness too; some browsers never
		// answer protocol pings.
		//nolint:errcheck // a failed deadline surfaces as a read error
		extend()
		c.handleMessage(data)
	}
}

func (c *WSClient) writePump(cfg config.WebSocketConfig) {
	ping := time.NewTicker(time.Duration(cfg.PingInterval) * time.Second)
	writeWait := time.Duration(cfg.PongTimeout) * time.Second
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	write := func(messageType int, data []byte) error {
		//nolint:errcheck // a failed deadline surfaces as a write error
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteMessage(messageType, data)
	}

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				//nolint:errcheck // peer may already be gone
				write(websocket.CloseMessage, nil)
				return
			}
			if err := write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) handleMessage(data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply("", WSTypeError, map[string]string{"message": "invalid JSON message"})
		return
	}

	switch req.Type {
	case WSTypeSubscribe, WSTypeUnsubscribe:
		c.handleSubscription(req)
	case WSTypePing:
		c.reply(req.ID, WSTypePong, nil)
	default:
		c.reply(req.ID, WSTypeError, map[string]string{"message": "unknown message type: " + req.Type})
	}
}

// handleSubscription applies a subscribe or unsubscribe request. Unknown
// channels reject the whole request.
func (c *WSClient) handleSubscription(req wsRequest) {
	var sub WSSubscribePayload
	if err := json.Unmarshal(req.Payload, &sub); err != nil || len(sub.Channels) == 0 {
		c.reply(req.ID, WSTypeError, map[string]string{"message": "payload must list channels"})
		return
	}
	for _, ch := range sub.Channels {
		if _, ok := knownChannels[ch]; !ok {
			c.reply(req.ID, WSTypeError, map[string]string{"message": "unknown channel: " + ch})
			return
		}
	}

	subscribe := req.Type == WSTypeSubscribe
	c.mu.Lock()
	for _, ch := range sub.Channels {
		if subscribe {
			c.subscriptions[ch] = struct{}{}
		} else {
			delete(c.subscriptions, ch)
		}
	}
	c.mu.Unlock()

	if !subscribe {
		c.reply(req.ID, WSTypeResponse, map[string]any{"unsubscribed": sub.Channels})
		return
	}

	c.hub.logger.Debug("websocket client subscribed", "channels", sub.Channels)
	c.reply(req.ID, WSTypeResponse, map[string]any{"subscribed": sub.Channels})
	for _, ch := range sub.Channels {
		if ch == ChannelStatus {
			c.hub.sendInitialStatus(c)
		}
	}
}

func (c *WSClient) isSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscriptions[channel]
	return ok
}

// enqueue drops data when the client's queue is full. Callers hold the hub
// read lock, which keeps the queue open.
func (c *WSClient) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

// reply queues a response for this client if it is still registered.
func (c *WSClient) reply(id, msgType string, payload any) {
	data, err := newEnvelope(msgType, id, "", payload)
	if err != nil {
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c]; ok {
		c.enqueue(data)
	}
}
