package mqtt

import "fmt"

// Topic prefixes for the dock controller's MQTT hierarchy.
//
// Device traffic is keyed by block ID:
//
//	dockctl/command/{grid}/{block}   controller → device bridge
//	dockctl/state/{block}            device bridge → controller
//
// Controller traffic is keyed by controller ID:
//
//	dockctl/invoke/{controller}                operator → controller
//	dockctl/core/{controller}/status           retained snapshot
//	dockctl/core/{controller}/transition       docking transitions
//	dockctl/core/{controller}/diagnostic       diagnostic lines
const (
	// TopicPrefix is the base for all controller topics.
	TopicPrefix = "dockctl"

	// TopicPrefixCore is the base for controller output topics.
	TopicPrefixCore = "dockctl/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "dockctl/system"
)

// Topics provides builders for dock controller MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	commandTopic := topics.BlockCommand("rover", "rover-battery-1")
//	// Returns: "dockctl/command/rover/rover-battery-1"
type Topics struct{}

// BlockCommand returns the topic for property writes to one block.
//
// Example: dockctl/command/rover/rover-battery-1
func (Topics) BlockCommand(gridID, blockID string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, gridID, blockID)
}

// BlockState returns the topic a device bridge reports block state on.
//
// Example: dockctl/state/station-bay-1
func (Topics) BlockState(blockID string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, blockID)
}

// Invoke returns the topic operators publish invocation arguments on.
//
// Example: dockctl/invoke/dock-01
func (Topics) Invoke(controllerID string) string {
	return fmt.Sprintf("%s/invoke/%s", TopicPrefix, controllerID)
}

// CoreStatus returns the retained controller status topic.
//
// Example: dockctl/core/dock-01/status
func (Topics) CoreStatus(controllerID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixCore, controllerID)
}

// CoreTransition returns the topic for docking transition events.
//
// Example: dockctl/core/dock-01/transition
func (Topics) CoreTransition(controllerID string) string {
	return fmt.Sprintf("%s/%s/transition", TopicPrefixCore, controllerID)
}

// CoreDiagnostic returns the topic for controller diagnostic lines.
//
// Example: dockctl/core/dock-01/diagnostic
func (Topics) CoreDiagnostic(controllerID string) string {
	return fmt.Sprintf("%s/%s/diagnostic", TopicPrefixCore, controllerID)
}

// SystemStatus returns the topic for online/offline status (LWT).
//
// Example: dockctl/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// AllBlockStates returns a wildcard topic for every block state report.
//
// Pattern: dockctl/state/+
func (Topics) AllBlockStates() string {
	return TopicPrefix + "/state/+"
}

// AllBlockCommands returns a wildcard topic for every block command.
//
// Pattern: dockctl/command/+/+
func (Topics) AllBlockCommands() string {
	return TopicPrefix + "/command/+/+"
}

// AllTopics returns a wildcard topic for all controller traffic.
//
// Pattern: dockctl/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
