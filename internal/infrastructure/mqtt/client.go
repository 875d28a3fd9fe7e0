package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/config"
)

// MessageHandler receives one inbound message. A returned error is logged
// and otherwise ignored.
type MessageHandler func(topic string, payload []byte) error

// Logger is the optional logging hook. *logging.Logger satisfies it.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type subscription struct {
	qos     byte
	handler MessageHandler
}

// Client is the controller's connection to the device bus.
//
// It reconnects on its own, restores subscriptions after every reconnect and
// keeps a retained online/offline presence message on dockctl/system/status.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	subMu sync.RWMutex
	subs  map[string]subscription

	mu           sync.RWMutex
	connected    bool
	onConnect    func()
	onDisconnect func(err error)
	logger       Logger
}

// Connect dials the broker and waits for the first connection.
//
// Parameters:
//   - cfg: mqtt section of the controller configuration
//
// Returns:
//   - *Client: connected client
//   - error: ErrConnectionFailed on timeout or broker refusal
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		cfg:  cfg,
		subs: make(map[string]subscription),
	}

	opts := newClientOptions(cfg)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.connectionUp() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.connectionDown(err) })

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect callback runs asynchronously; mark the client usable now.
	c.setConnected(true)
	return c, nil
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// connectionUp restores subscriptions, announces presence and notifies the
// OnConnect callback. Runs on the initial connect and every reconnect.
func (c *Client) connectionUp() {
	c.setConnected(true)

	c.subMu.RLock()
	for topic, sub := range c.subs {
		c.client.Subscribe(topic, sub.qos, c.route(sub.handler))
	}
	c.subMu.RUnlock()

	payload := presencePayload(c.cfg.Broker.ClientID, presenceOnline, "")
	c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, payload)

	c.mu.RLock()
	cb := c.onConnect
	c.mu.RUnlock()
	if cb != nil {
		cb()
	}
}

func (c *Client) connectionDown(err error) {
	c.setConnected(false)

	c.mu.RLock()
	cb := c.onDisconnect
	c.mu.RUnlock()
	if cb != nil {
		cb(err)
	}
}

// Close publishes a graceful offline presence and disconnects. Safe on a
// client that never connected.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		payload := presencePayload(c.cfg.Broker.ClientID, presenceOffline, reasonShutdown)
		c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, payload).WaitTimeout(operationTimeout)
	}
	c.client.Disconnect(disconnectQuiesce)
	c.setConnected(false)
	return nil
}

// HealthCheck reports ErrNotConnected while the broker link is down.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports the last known link state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// SetOnConnect registers a callback for the initial connect and every reconnect.
func (c *Client) SetOnConnect(cb func()) {
	c.mu.Lock()
	c.onConnect = cb
	c.mu.Unlock()
}

// SetOnDisconnect registers a callback for lost connections.
func (c *Client) SetOnDisconnect(cb func(err error)) {
	c.mu.Lock()
	c.onDisconnect = cb
	c.mu.Unlock()
}

// SetLogger enables logging of handler errors and panics.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

// route adapts a MessageHandler to paho, logging returned errors and
// recovering panics so one bad handler cannot kill the paho router.
func (c *Client) route(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.mu.RLock()
		logger := c.logger
		c.mu.RUnlock()

		defer func() {
			if r := recover(); r != nil && logger != nil {
				logger.Error("MQTT handler panic recovered", "topic", msg.Topic(), "panic", r)
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil && logger != nil {
			logger.Warn("MQTT handler returned error", "topic", msg.Topic(), "error", err)
		}
	}
}
