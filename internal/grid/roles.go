package grid

import "strings"

// Name tags interpreted by the dock controller.
const (
	// BaseConnectorTag marks the connector a ship uses to dock at its base
	// when the ship carries more than one connector.
	BaseConnectorTag = "ToBase"

	// InteriorVentTag marks vents that pressurize the cabin.
	InteriorVentTag = "int."

	// ExteriorVentTag marks vents that vent to the outside.
	ExteriorVentTag = "ext."
)

// VentRole classifies an air vent for the docking policy.
type VentRole int

const (
	// VentUntagged vents are never touched by the controller.
	VentUntagged VentRole = iota

	// VentInterior vents re-pressurize the cabin on undock.
	VentInterior

	// VentExterior vents drain the cabin while docked.
	VentExterior
)

// String returns a short label for logs.
func (r VentRole) String() string {
	switch r {
	case VentInterior:
		return "interior"
	case VentExterior:
		return "exterior"
	default:
		return "untagged"
	}
}

// ClassifyVent derives a vent's role from its display name.
// A name carrying both tags is treated as interior.
func ClassifyVent(name string) VentRole {
	switch {
	case strings.Contains(name, InteriorVentTag):
		return VentInterior
	case strings.Contains(name, ExteriorVentTag):
		return VentExterior
	default:
		return VentUntagged
	}
}

// IsBaseConnectorName reports whether a connector name carries the base tag.
func IsBaseConnectorName(name string) bool {
	return strings.Contains(name, BaseConnectorTag)
}
