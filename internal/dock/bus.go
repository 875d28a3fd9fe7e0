package dock

import (
	"encoding/json"

	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/mqtt"
)

// MessagePublisher is the subset of the MQTT client used by BusPublisher.
type MessagePublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// BusPublisher publishes controller events on the device bus:
//
//	dockctl/core/{id}/status      retained Snapshot
//	dockctl/core/{id}/transition  Transition
//	dockctl/core/{id}/diagnostic  Diagnostic
type BusPublisher struct {
	client       MessagePublisher
	controllerID string
	qos          byte
	logger       Logger
}

// NewBusPublisher returns a Publisher for the given controller.
func NewBusPublisher(client MessagePublisher, controllerID string, qos byte, logger Logger) *BusPublisher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &BusPublisher{client: client, controllerID: controllerID, qos: qos, logger: logger}
}

// PublishTransition sends t on the controller's transition topic.
func (p *BusPublisher) PublishTransition(t Transition) {
	p.publish(mqtt.Topics{}.CoreTransition(p.controllerID), t, false)
}

// PublishDiagnostic sends d on the controller's diagnostic topic.
func (p *BusPublisher) PublishDiagnostic(d Diagnostic) {
	p.publish(mqtt.Topics{}.CoreDiagnostic(p.controllerID), d, false)
}

// PublishStatus sends s as the retained status of the controller.
func (p *BusPublisher) PublishStatus(s Snapshot) {
	p.publish(mqtt.Topics{}.CoreStatus(p.controllerID), s, true)
}

func (p *BusPublisher) publish(topic string, v any, retained bool) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("encoding bus message failed", "topic", topic, "error", err)
		return
	}
	if err := p.client.Publish(topic, payload, p.qos, retained); err != nil {
		p.logger.Warn("bus publish failed", "topic", topic, "error", err)
	}
}
