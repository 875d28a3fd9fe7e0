// Package dock implements the docking-connector automation controller.
//
// The controller watches one "main" connector and, when it detects a dock or
// undock transition, switches a fixed set of subsystems (batteries, thrusters,
// gas tanks, air vents, lights, cockpits) between their travel and docked
// postures.
//
// The package is split along the controller's responsibilities:
//
//   - Locator: finds the main connector and builds SubsystemSet snapshots
//   - Resolver: decides which grid the SubsystemSet targets (own grid for a
//     mobile vehicle, the docked partner's grid for a stationary base)
//   - DetectTransition / ForceTransition: the connector state machine
//   - Apply: the synchronization policy table
//   - Controller: mode handling (manual runs, automatic polling) and the
//     single serialized entry point Invoke
//
// Collaborators (block inventory, flag storage, scheduling, history, metrics,
// event publishers) are consumed through the small interfaces in deps.go so
// the controller can be driven from tests, the HTTP API, MQTT or the
// scheduler without change.
//
// Thread Safety:
//
// Controller serializes every Invoke with a mutex. Locator, Resolver and the
// policy functions hold no mutable state of their own.
package dock
