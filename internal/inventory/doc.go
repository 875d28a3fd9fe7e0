// Package inventory hosts the live block inventory the dock controller
// queries.
//
// The inventory is loaded from a YAML site file listing grids and their
// blocks. It implements dock.BlockSource and hands out typed device handles
// (grid.Battery, grid.Connector, ...). Property writes update the local
// state immediately and are forwarded as device commands through a
// CommandSink; the MQTT Bridge publishes them on
// dockctl/command/{grid}/{block}.
//
// Connector state is owned by the physical side. The bridge feeds reports
// from dockctl/state/{block} into ApplyState, which keeps both ends of a
// connector pair consistent.
//
// # Connector model
//
// A connector tracks the partner in range and whether it is locked:
//
//	locked            -> Connected (Partner returns the peer)
//	partner in range  -> Connectable
//	otherwise         -> Unconnected
//
// Connect locks a Connectable pair; Disconnect unlocks a Connected pair and
// leaves the partner in range.
package inventory
