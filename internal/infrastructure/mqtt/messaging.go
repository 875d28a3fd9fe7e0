package mqtt

import (
	"fmt"
	"sort"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// await waits for a paho token and wraps timeouts and failures in sentinel.
func await(token pahomqtt.Token, sentinel error) error {
	if !token.WaitTimeout(operationTimeout) {
		return fmt.Errorf("%w: timeout after %v", sentinel, operationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return nil
}

// Publish sends payload to topic and waits for the broker acknowledgement
// (QoS 1 and 2). Payloads are capped at 1 MiB.
//
// Retain controller status, never commands:
//
//	client.Publish(mqtt.Topics{}.CoreStatus("dock-01"), snapshot, 1, true)
//	client.Publish(mqtt.Topics{}.BlockCommand("miner", "miner-light"), cmd, 1, false)
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return await(c.client.Publish(topic, qos, retained, payload), ErrPublishFailed)
}

// Subscribe registers handler for topic, which may contain + and #
// wildcards. The subscription is remembered and restored after reconnects;
// subscribing to the same topic again replaces the handler.
//
// Handlers run on their own goroutines and may publish.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subs[topic] = subscription{qos: qos, handler: handler}
	c.subMu.Unlock()

	if err := await(c.client.Subscribe(topic, qos, c.route(handler)), ErrSubscribeFailed); err != nil {
		c.subMu.Lock()
		delete(c.subs, topic)
		c.subMu.Unlock()
		return err
	}
	return nil
}

// Unsubscribe drops a subscription made with the exact same topic string.
func (c *Client) Unsubscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	delete(c.subs, topic)
	c.subMu.Unlock()

	return await(c.client.Unsubscribe(topic), ErrUnsubscribeFailed)
}

// Subscriptions lists the remembered topics in sorted order.
func (c *Client) Subscriptions() []string {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	topics := make([]string, 0, len(c.subs))
	for topic := range c.subs {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}
