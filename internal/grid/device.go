package grid

// Device is the common part of every block handle.
type Device interface {
	// ID is the stable block identifier.
	ID() string

	// Name is the operator-assigned display name.
	Name() string

	// Grid is the grid the block is mounted on.
	Grid() ID

	// Category is the block's category.
	Category() Category
}

// Battery is a battery block handle.
type Battery interface {
	Device
	ChargeMode() ChargeMode
	SetChargeMode(mode ChargeMode)
}

// Thruster is a thruster block handle (hydrogen, atmospheric or ion).
type Thruster interface {
	Device
	Enabled() bool
	SetEnabled(enabled bool)
}

// GasTank is an oxygen or hydrogen tank handle.
type GasTank interface {
	Device
	Stockpile() bool
	SetStockpile(stockpile bool)
}

// AirVent is an air vent handle.
type AirVent interface {
	Device
	Enabled() bool
	SetEnabled(enabled bool)
	Depressurize() bool
	SetDepressurize(depressurize bool)
}

// Light is a lighting block handle.
type Light interface {
	Device
	Enabled() bool
	SetEnabled(enabled bool)
}

// Cockpit is a cockpit or control seat handle.
type Cockpit interface {
	Device
	Handbrake() bool
	SetHandbrake(engaged bool)
}

// Connector is a docking connector handle.
//
// Status and Partner read live state from the hosting inventory; Connect and
// Disconnect are device commands.
type Connector interface {
	Device
	Status() ConnectorStatus

	// Partner returns the connector this one is locked to, or nil when the
	// status is not Connected.
	Partner() Connector

	Connect()
	Disconnect()
}
