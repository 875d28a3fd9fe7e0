package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/mqtt"
)

// MQTTClient is the subset of the MQTT client the bridge uses.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// BridgeLogger is the logging interface used by the bridge.
type BridgeLogger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopBridgeLogger struct{}

func (noopBridgeLogger) Info(string, ...any)  {}
func (noopBridgeLogger) Error(string, ...any) {}

// BridgeOptions configures a Bridge.
type BridgeOptions struct {
	Client    MQTTClient
	Inventory *Inventory

	// ControllerID selects the invoke topic dockctl/invoke/{ControllerID}.
	ControllerID string

	QoS byte

	// OnInvoke receives the payload of invoke messages as the run argument.
	// Nil disables the invoke subscription.
	OnInvoke func(argument string)

	Logger BridgeLogger
}

// Bridge connects the inventory to the device bus.
//
// Outbound: device commands on dockctl/command/{grid}/{block}.
// Inbound: connector reports on dockctl/state/{block} and run requests on
// dockctl/invoke/{controller}.
type Bridge struct {
	client       MQTTClient
	inv          *Inventory
	controllerID string
	qos          byte
	onInvoke     func(string)
	logger       BridgeLogger

	mu     sync.Mutex
	topics []string
}

// NewBridge validates options and returns an unstarted bridge.
func NewBridge(opts BridgeOptions) (*Bridge, error) {
	if opts.Client == nil {
		return nil, errors.New("inventory: bridge needs an MQTT client")
	}
	if opts.Inventory == nil {
		return nil, errors.New("inventory: bridge needs an inventory")
	}
	if opts.OnInvoke != nil && opts.ControllerID == "" {
		return nil, errors.New("inventory: invoke subscription needs a controller id")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopBridgeLogger{}
	}
	return &Bridge{
		client:       opts.Client,
		inv:          opts.Inventory,
		controllerID: opts.ControllerID,
		qos:          opts.QoS,
		onInvoke:     opts.OnInvoke,
		logger:       logger,
	}, nil
}

// Start subscribes to the inbound topics and routes inventory commands to
// the bus.
func (b *Bridge) Start() error {
	topics := mqtt.Topics{}

	if err := b.subscribe(topics.AllBlockStates(), b.handleState); err != nil {
		return err
	}
	if b.onInvoke != nil {
		if err := b.subscribe(topics.Invoke(b.controllerID), b.handleInvoke); err != nil {
			return err
		}
	}

	b.inv.SetCommandSink(b)
	return nil
}

// Stop detaches from the inventory and unsubscribes. Safe to call more than once.
func (b *Bridge) Stop() {
	b.inv.SetCommandSink(nil)

	b.mu.Lock()
	topics := b.topics
	b.topics = nil
	b.mu.Unlock()

	for _, t := range topics {
		if err := b.client.Unsubscribe(t); err != nil {
			b.logger.Error("unsubscribe failed", "topic", t, "error", err)
		}
	}
}

func (b *Bridge) subscribe(topic string, h mqtt.MessageHandler) error {
	if err := b.client.Subscribe(topic, b.qos, h); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	b.mu.Lock()
	b.topics = append(b.topics, topic)
	b.mu.Unlock()
	b.logger.Info("subscribed", "topic", topic)
	return nil
}

// SendCommand publishes a device command. Failures are logged; the local
// state already reflects the write.
func (b *Bridge) SendCommand(cmd Command) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		b.logger.Error("encoding command failed", "block", cmd.BlockID, "error", err)
		return
	}
	topic := mqtt.Topics{}.BlockCommand(string(cmd.Grid), cmd.BlockID)
	if err := b.client.Publish(topic, payload, b.qos, false); err != nil {
		b.logger.Error("publishing command failed", "topic", topic, "command", cmd.Command, "error", err)
	}
}

func (b *Bridge) handleState(topic string, payload []byte) error {
	blockID := topic[strings.LastIndex(topic, "/")+1:]
	if blockID == "" {
		return fmt.Errorf("state topic %q names no block", topic)
	}

	var report StateReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return fmt.Errorf("decoding state for %s: %w", blockID, err)
	}
	return b.inv.ApplyState(blockID, report)
}

func (b *Bridge) handleInvoke(_ string, payload []byte) error {
	b.onInvoke(strings.TrimSpace(string(payload)))
	return nil
}
