package dock

import "errors"

// Domain errors for the dock controller.
// Every one of them is reported as a diagnostic and swallowed by Invoke.
var (
	// ErrNoConnectorFound is returned when the own grid has no connectors, or
	// has several and none carries the base tag.
	ErrNoConnectorFound = errors.New("dock: no connector found")

	// ErrNamedConnectorNotFound is returned when a connector name was given
	// and no connector on the own grid carries exactly that name.
	ErrNamedConnectorNotFound = errors.New("dock: named connector not found")

	// ErrPartnerGridUnresolved is returned by a stationary controller when
	// the main connector has no docked partner.
	ErrPartnerGridUnresolved = errors.New("dock: partner grid unresolved")

	// ErrInvalidConfig is returned by NewController for unusable settings.
	ErrInvalidConfig = errors.New("dock: invalid config")

	// ErrTransitionNotFound is returned when a transition ID does not exist.
	ErrTransitionNotFound = errors.New("dock: transition not found")

	// ErrInvalidTopology is returned when a topology name is not recognised.
	ErrInvalidTopology = errors.New("dock: invalid topology")
)
