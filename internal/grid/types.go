package grid

import (
	"fmt"
	"strings"
)

// ID identifies a grid (vehicle or station).
type ID string

// Info describes a grid as reported by the hosting inventory.
type Info struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Static is true for stations that never move.
	Static bool `json:"static" yaml:"static"`
}

// ConnectorStatus is the physical docking state of a connector.
type ConnectorStatus int

const (
	// Unconnected means no partner connector is in range.
	Unconnected ConnectorStatus = iota

	// Connectable means a partner is in range and the connector can lock.
	Connectable

	// Connected means the connector is locked to a partner.
	Connected
)

// String returns the lower-case wire name of the status.
func (s ConnectorStatus) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connectable:
		return "connectable"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status as its wire name.
func (s ConnectorStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name produced by MarshalText.
func (s *ConnectorStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseConnectorStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseConnectorStatus converts a wire name into a ConnectorStatus.
// Matching is case-insensitive.
func ParseConnectorStatus(s string) (ConnectorStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unconnected", "":
		return Unconnected, nil
	case "connectable":
		return Connectable, nil
	case "connected":
		return Connected, nil
	default:
		return Unconnected, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Category is the closed set of block categories the controller knows about.
type Category string

const (
	CategoryBattery   Category = "battery"
	CategoryThruster  Category = "thruster"
	CategoryGasTank   Category = "gas_tank"
	CategoryAirVent   Category = "air_vent"
	CategoryLight     Category = "light"
	CategoryCockpit   Category = "cockpit"
	CategoryConnector Category = "connector"
)

// AllCategories returns every known category.
func AllCategories() []Category {
	return []Category{
		CategoryBattery,
		CategoryThruster,
		CategoryGasTank,
		CategoryAirVent,
		CategoryLight,
		CategoryCockpit,
		CategoryConnector,
	}
}

// SubsystemCategories returns the categories the synchronizer acts on.
func SubsystemCategories() []Category {
	return []Category{
		CategoryBattery,
		CategoryThruster,
		CategoryGasTank,
		CategoryAirVent,
		CategoryLight,
		CategoryCockpit,
	}
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ChargeMode is a battery's charge behaviour.
type ChargeMode string

const (
	// ChargeAuto charges and discharges as the grid needs.
	ChargeAuto ChargeMode = "auto"

	// ChargeRecharge only accepts charge, never supplies the grid.
	ChargeRecharge ChargeMode = "recharge"

	// ChargeDischarge only supplies the grid.
	ChargeDischarge ChargeMode = "discharge"
)

// ParseChargeMode validates a charge mode name. Empty means auto.
func ParseChargeMode(s string) (ChargeMode, error) {
	switch m := ChargeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ChargeAuto, nil
	case ChargeAuto, ChargeRecharge, ChargeDischarge:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChargeMode, s)
	}
}
