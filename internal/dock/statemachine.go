package dock

import "github.com/nerrad567/gray-logic-dock/internal/grid"

// DetectTransition compares the live status with the last observed one.
//
// Entering Connected raises EventJustConnected, leaving it raises
// EventJustDisconnected. Any other change, or no change, raises nothing.
// Callers store live as the new last observed status regardless of the
// result.
func DetectTransition(last, live grid.ConnectorStatus) Event {
	switch {
	case last == live:
		return EventNone
	case live == grid.Connected:
		return EventJustConnected
	case last == grid.Connected:
		return EventJustDisconnected
	default:
		return EventNone
	}
}

// ForceTransition evaluates a manual run, where the run itself is the
// trigger: a Connected connector is undocked and a Connectable one docked.
// An Unconnected connector has nothing in range, so nothing happens.
func ForceTransition(live grid.ConnectorStatus) Event {
	switch live {
	case grid.Connected:
		return EventJustDisconnected
	case grid.Connectable:
		return EventJustConnected
	default:
		return EventNone
	}
}
