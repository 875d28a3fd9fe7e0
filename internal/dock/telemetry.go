package dock

import (
	"strings"
	"time"
)

// Measurement names written by TelemetryPublisher.
const (
	MeasurementTransition = "dock_transition"
	MeasurementConnector  = "dock_connector"
	MeasurementDiagnostic = "dock_diagnostic"
)

// PointWriter is the subset of the InfluxDB client the telemetry publisher
// needs.
type PointWriter interface {
	WritePoint(measurement string, tags map[string]string, fields map[string]any, ts time.Time)
}

// TelemetryPublisher turns controller events into time-series points.
type TelemetryPublisher struct {
	w            PointWriter
	controllerID string
	now          func() time.Time
}

// NewTelemetryPublisher returns a Publisher writing to w.
func NewTelemetryPublisher(w PointWriter, controllerID string) *TelemetryPublisher {
	return &TelemetryPublisher{w: w, controllerID: controllerID, now: time.Now}
}

// PublishTransition writes one point per synchronization with the number of
// devices changed per category.
func (p *TelemetryPublisher) PublishTransition(t Transition) {
	tags := map[string]string{
		"controller_id": p.controllerID,
		"connector":     t.ConnectorName,
		"event":         t.Event.String(),
		"grid":          string(t.Grid),
		"trigger":       string(t.Trigger),
	}
	fields := map[string]any{
		"batteries": t.Changed.Batteries,
		"thrusters": t.Changed.Thrusters,
		"gas_tanks": t.Changed.GasTanks,
		"air_vents": t.Changed.AirVents,
		"lights":    t.Changed.Lights,
		"cockpits":  t.Changed.Cockpits,
		"total":     t.Changed.Total(),
		"status":    t.Status.String(),
	}
	p.w.WritePoint(MeasurementTransition, tags, fields, t.CreatedAt)
}

// PublishStatus samples the connector status and mode.
func (p *TelemetryPublisher) PublishStatus(s Snapshot) {
	connector := ""
	if s.MainConnector != nil {
		connector = s.MainConnector.Name
	}
	tags := map[string]string{
		"controller_id": p.controllerID,
		"connector":     connector,
	}
	fields := map[string]any{
		"status":         s.LastObservedStatus.String(),
		"automatic_mode": s.AutomaticMode,
		"set_valid":      s.SubsystemSetValid,
		"subsystems":     s.Subsystems.Total(),
	}
	p.w.WritePoint(MeasurementConnector, tags, fields, p.now())
}

// PublishDiagnostic records warnings and errors. Info lines are skipped.
func (p *TelemetryPublisher) PublishDiagnostic(d Diagnostic) {
	if d.Kind == DiagnosticInfo {
		return
	}
	tags := map[string]string{
		"controller_id": p.controllerID,
		"kind":          string(d.Kind),
	}
	fields := map[string]any{"message": strings.TrimSpace(d.Message)}
	p.w.WritePoint(MeasurementDiagnostic, tags, fields, d.At)
}
