// Package grid defines the block data model shared by the dock controller and
// the inventory that hosts it.
//
// A grid is one vehicle or station. Every block (battery, thruster, tank,
// vent, light, cockpit, connector) belongs to exactly one grid. The
// controller never reaches into concrete block types: it sees the typed
// handle interfaces declared here and asks a Source for them through a
// Filter scoped to a single target grid.
//
// # Key Types
//
//   - ConnectorStatus: Unconnected, Connectable or Connected
//   - Category: closed enumeration of block categories
//   - Device and its per-category handles (Battery, Thruster, ...)
//   - Filter: "is this block part of grid G"
//   - VentRole: interior/exterior classification of air vents
//
// Naming policy lives in roles.go. Nothing else in the module inspects
// block display names.
package grid
