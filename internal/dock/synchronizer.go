package dock

import "github.com/nerrad567/gray-logic-dock/internal/grid"

// ventSetting is the target state of one vent role. A nil setting leaves
// vents of that role untouched.
type ventSetting struct {
	depressurize *bool
	enabled      bool
}

// posture is the complete policy for one event.
type posture struct {
	chargeMode       grid.ChargeMode
	thrustersEnabled bool
	stockpile        bool
	lightsEnabled    bool
	handbrake        bool
	vents            map[grid.VentRole]*ventSetting
}

func boolPtr(b bool) *bool { return &b }

// policy is the docking policy table. Categories are independent, so the
// order they are applied in does not matter.
var policy = map[Event]posture{
	EventJustConnected: {
		chargeMode:       grid.ChargeRecharge,
		thrustersEnabled: false,
		stockpile:        true,
		lightsEnabled:    false,
		handbrake:        true,
		vents: map[grid.VentRole]*ventSetting{
			grid.VentExterior: {depressurize: boolPtr(true), enabled: true},
		},
	},
	EventJustDisconnected: {
		chargeMode:       grid.ChargeAuto,
		thrustersEnabled: true,
		stockpile:        false,
		lightsEnabled:    true,
		handbrake:        false,
		vents: map[grid.VentRole]*ventSetting{
			grid.VentInterior: {depressurize: boolPtr(false), enabled: true},
			grid.VentExterior: {enabled: false},
		},
	},
}

// Apply writes the posture for event to every handle in set.
//
// EventNone and a nil set are no-ops. The returned report counts the
// handles written per category.
func Apply(event Event, set *SubsystemSet) SyncReport {
	report := SyncReport{Event: event}
	p, ok := policy[event]
	if !ok || set == nil {
		return report
	}
	report.Grid = set.Grid

	for _, b := range set.Batteries {
		b.SetChargeMode(p.chargeMode)
		report.Changed.Batteries++
	}
	for _, t := range set.Thrusters {
		t.SetEnabled(p.thrustersEnabled)
		report.Changed.Thrusters++
	}
	for _, g := range set.GasTanks {
		g.SetStockpile(p.stockpile)
		report.Changed.GasTanks++
	}
	for _, v := range set.AirVents {
		setting := p.vents[grid.ClassifyVent(v.Name())]
		if setting == nil {
			continue
		}
		if setting.depressurize != nil {
			v.SetDepressurize(*setting.depressurize)
		}
		v.SetEnabled(setting.enabled)
		report.Changed.AirVents++
	}
	for _, l := range set.Lights {
		l.SetEnabled(p.lightsEnabled)
		report.Changed.Lights++
	}
	for _, c := range set.Cockpits {
		c.SetHandbrake(p.handbrake)
		report.Changed.Cockpits++
	}
	return report
}
