package dock

import (
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// Event is a docking transition raised by the connector state machine.
type Event int

const (
	// EventNone means no synchronization is required.
	EventNone Event = iota

	// EventJustConnected fires on a transition into Connected.
	EventJustConnected

	// EventJustDisconnected fires on a transition out of Connected.
	EventJustDisconnected
)

// String returns the wire name of the event.
func (e Event) String() string {
	switch e {
	case EventJustConnected:
		return "just_connected"
	case EventJustDisconnected:
		return "just_disconnected"
	default:
		return "none"
	}
}

// MarshalText encodes the event as its wire name.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes a wire name produced by MarshalText.
func (e *Event) UnmarshalText(text []byte) error {
	switch string(text) {
	case "just_connected":
		*e = EventJustConnected
	case "just_disconnected":
		*e = EventJustDisconnected
	case "none", "":
		*e = EventNone
	default:
		return fmt.Errorf("dock: unknown event %q", text)
	}
	return nil
}

// Topology says whether the controller's own grid moves.
type Topology string

const (
	// TopologyAuto takes mobility from the own grid's static flag.
	TopologyAuto Topology = "auto"

	// TopologyMobile targets the controller's own grid.
	TopologyMobile Topology = "mobile"

	// TopologyStationary targets the grid of the docked visitor.
	TopologyStationary Topology = "stationary"
)

// ParseTopology validates a topology name. Empty means auto.
func ParseTopology(s string) (Topology, error) {
	switch t := Topology(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TopologyAuto, nil
	case TopologyAuto, TopologyMobile, TopologyStationary:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTopology, s)
	}
}

// Trigger says what kind of invocation produced a transition.
type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerPeriodic Trigger = "periodic"
)

// Invocation sources, used for logs and metrics.
const (
	SourceScheduler = "scheduler"
	SourceAPI       = "api"
	SourceMQTT      = "mqtt"
	SourceStartup   = "startup"
)

// UpdateArgument switches the controller into automatic mode.
// The match is exact and case-sensitive.
const UpdateArgument = "Update"

// Invocation is one call into the controller.
type Invocation struct {
	// Argument is "Update" or an optional connector name. Ignored for
	// periodic ticks.
	Argument string

	// Periodic is true for scheduler ticks.
	Periodic bool

	// Source names the caller (api, mqtt, scheduler).
	Source string
}

// Counts holds one number per subsystem category.
type Counts struct {
	Batteries int `json:"batteries"`
	Thrusters int `json:"thrusters"`
	GasTanks  int `json:"gas_tanks"`
	AirVents  int `json:"air_vents"`
	Lights    int `json:"lights"`
	Cockpits  int `json:"cockpits"`
}

// Total returns the sum over all categories.
func (c Counts) Total() int {
	return c.Batteries + c.Thrusters + c.GasTanks + c.AirVents + c.Lights + c.Cockpits
}

// Get returns the count for one category.
func (c Counts) Get(category grid.Category) int {
	switch category {
	case grid.CategoryBattery:
		return c.Batteries
	case grid.CategoryThruster:
		return c.Thrusters
	case grid.CategoryGasTank:
		return c.GasTanks
	case grid.CategoryAirVent:
		return c.AirVents
	case grid.CategoryLight:
		return c.Lights
	case grid.CategoryCockpit:
		return c.Cockpits
	default:
		return 0
	}
}

// SubsystemSet is a snapshot of the device handles the policy acts on.
type SubsystemSet struct {
	// Grid is the target grid the set was built against.
	Grid grid.ID

	Batteries []grid.Battery
	Thrusters []grid.Thruster
	GasTanks  []grid.GasTank
	AirVents  []grid.AirVent
	Lights    []grid.Light
	Cockpits  []grid.Cockpit
}

// Counts returns the number of handles per category.
func (s *SubsystemSet) Counts() Counts {
	if s == nil {
		return Counts{}
	}
	return Counts{
		Batteries: len(s.Batteries),
		Thrusters: len(s.Thrusters),
		GasTanks:  len(s.GasTanks),
		AirVents:  len(s.AirVents),
		Lights:    len(s.Lights),
		Cockpits:  len(s.Cockpits),
	}
}

// SyncReport summarises one Apply call.
type SyncReport struct {
	Event Event   `json:"event"`
	Grid  grid.ID `json:"grid"`

	// Changed counts the handles written per category. Untagged vents are
	// not counted.
	Changed Counts `json:"changed"`
}

// State is the controller's session state.
// Only AutomaticMode outlives the process, through the FlagStore.
type State struct {
	MainConnector      grid.Connector
	LastObservedStatus grid.ConnectorStatus
	SubsystemSet       *SubsystemSet
	AutomaticMode      bool
	SubsystemSetValid  bool
}

// Transition is the history record of one synchronization.
type Transition struct {
	ID             string               `json:"id"`
	ControllerID   string               `json:"controller_id"`
	ConnectorID    string               `json:"connector_id"`
	ConnectorName  string               `json:"connector_name"`
	Event          Event                `json:"event"`
	PreviousStatus grid.ConnectorStatus `json:"previous_status"`
	Status         grid.ConnectorStatus `json:"status"`
	Grid           grid.ID              `json:"grid"`
	Changed        Counts               `json:"changed"`
	Trigger        Trigger              `json:"trigger"`
	Source         string               `json:"source"`
	CreatedAt      time.Time            `json:"created_at"`
}

// ConnectorRef identifies a connector in snapshots.
type ConnectorRef struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Grid grid.ID `json:"grid"`
}

// Snapshot is a read-only view of the controller for the API and status topic.
type Snapshot struct {
	ControllerID       string               `json:"controller_id"`
	OwnGrid            grid.ID              `json:"own_grid"`
	Topology           Topology             `json:"topology"`
	AutomaticMode      bool                 `json:"automatic_mode"`
	MainConnector      *ConnectorRef        `json:"main_connector,omitempty"`
	LastObservedStatus grid.ConnectorStatus `json:"last_observed_status"`
	SubsystemSetValid  bool                 `json:"subsystem_set_valid"`
	TargetGrid         grid.ID              `json:"target_grid,omitempty"`
	Subsystems         Counts               `json:"subsystems"`
	LastTransition     *Transition          `json:"last_transition,omitempty"`
	Diagnostics        []Diagnostic         `json:"diagnostics"`
}
