package dock

import (
	"testing"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

func vehicleSet(v *vehicle, g grid.ID) *SubsystemSet {
	return &SubsystemSet{
		Grid:      g,
		Batteries: []grid.Battery{v.battery},
		Thrusters: []grid.Thruster{v.thruster},
		GasTanks:  []grid.GasTank{v.tank},
		AirVents:  []grid.AirVent{v.intVent, v.extVent, v.plainVent},
		Lights:    []grid.Light{v.light},
		Cockpits:  []grid.Cockpit{v.cockpit},
	}
}

func TestApply_JustConnected(t *testing.T) {
	v := newVehicle("rover", "Front")
	report := Apply(EventJustConnected, vehicleSet(v, "rover"))

	if v.battery.mode != grid.ChargeRecharge {
		t.Errorf("battery mode = %v, want recharge", v.battery.mode)
	}
	if v.thruster.enabled {
		t.Error("thruster should be disabled")
	}
	if !v.tank.stockpile {
		t.Error("tank should stockpile")
	}
	if v.intVent.writes != 0 {
		t.Errorf("interior vent writes = %d, want 0", v.intVent.writes)
	}
	if !v.extVent.depressurize || !v.extVent.enabled {
		t.Errorf("exterior vent = (depressurize %v, enabled %v), want (true, true)", v.extVent.depressurize, v.extVent.enabled)
	}
	if v.light.enabled {
		t.Error("light should be off")
	}
	if !v.cockpit.handbrake {
		t.Error("handbrake should be engaged")
	}

	want := Counts{Batteries: 1, Thrusters: 1, GasTanks: 1, AirVents: 1, Lights: 1, Cockpits: 1}
	if report.Changed != want {
		t.Errorf("report.Changed = %+v, want %+v", report.Changed, want)
	}
	if report.Grid != "rover" || report.Event != EventJustConnected {
		t.Errorf("report = %+v", report)
	}
}

func TestApply_JustDisconnected(t *testing.T) {
	v := newVehicle("rover", "Front")
	v.battery.mode = grid.ChargeRecharge
	v.thruster.enabled = false
	v.tank.stockpile = true
	v.intVent.enabled, v.intVent.depressurize = false, true
	v.extVent.enabled, v.extVent.depressurize = true, true
	v.light.enabled = false
	v.cockpit.handbrake = true

	report := Apply(EventJustDisconnected, vehicleSet(v, "rover"))

	if v.battery.mode != grid.ChargeAuto {
		t.Errorf("battery mode = %v, want auto", v.battery.mode)
	}
	if !v.thruster.enabled {
		t.Error("thruster should be enabled")
	}
	if v.tank.stockpile {
		t.Error("tank should not stockpile")
	}
	if v.intVent.depressurize || !v.intVent.enabled {
		t.Errorf("interior vent = (depressurize %v, enabled %v), want (false, true)", v.intVent.depressurize, v.intVent.enabled)
	}
	if v.extVent.enabled {
		t.Error("exterior vent should be disabled")
	}
	if !v.extVent.depressurize {
		t.Error("exterior vent depressurize should be left alone on undock")
	}
	if !v.light.enabled {
		t.Error("light should be on")
	}
	if v.cockpit.handbrake {
		t.Error("handbrake should be released")
	}
	if report.Changed.AirVents != 2 {
		t.Errorf("report.Changed.AirVents = %d, want 2", report.Changed.AirVents)
	}
}

func TestApply_RoundTrip(t *testing.T) {
	v := newVehicle("rover", "Front")
	set := vehicleSet(v, "rover")

	Apply(EventJustConnected, set)
	Apply(EventJustDisconnected, set)

	if v.battery.mode != grid.ChargeAuto {
		t.Errorf("battery mode = %v, want auto", v.battery.mode)
	}
	if !v.thruster.enabled {
		t.Error("thruster not restored")
	}
	if v.tank.stockpile {
		t.Error("tank stockpile not restored")
	}
	if !v.light.enabled {
		t.Error("light not restored")
	}
	if v.cockpit.handbrake {
		t.Error("handbrake not restored")
	}
	if !v.intVent.enabled || v.intVent.depressurize {
		t.Error("interior vent not restored")
	}
	// Exterior vents end in the undocked row of the table.
	if v.extVent.enabled || !v.extVent.depressurize {
		t.Errorf("exterior vent = (depressurize %v, enabled %v), want (true, false)", v.extVent.depressurize, v.extVent.enabled)
	}
}

func TestApply_UntaggedVentUntouched(t *testing.T) {
	v := newVehicle("rover", "Front")
	set := vehicleSet(v, "rover")

	Apply(EventJustConnected, set)
	Apply(EventJustDisconnected, set)

	if v.plainVent.writes != 0 {
		t.Errorf("untagged vent writes = %d, want 0", v.plainVent.writes)
	}
}

func TestApply_NoOps(t *testing.T) {
	v := newVehicle("rover", "Front")

	Apply(EventNone, vehicleSet(v, "rover"))
	if got := v.subsystemWrites(); got != 0 {
		t.Errorf("EventNone wrote %d properties, want 0", got)
	}

	report := Apply(EventJustConnected, nil)
	if report.Changed.Total() != 0 {
		t.Errorf("nil set report = %+v, want empty", report.Changed)
	}

	report = Apply(EventJustConnected, &SubsystemSet{Grid: "empty"})
	if report.Changed.Total() != 0 || report.Grid != "empty" {
		t.Errorf("empty set report = %+v", report)
	}
}

func TestCounts_Get(t *testing.T) {
	c := Counts{Batteries: 1, Thrusters: 2, GasTanks: 3, AirVents: 4, Lights: 5, Cockpits: 6}
	for i, cat := range grid.SubsystemCategories() {
		if got := c.Get(cat); got != i+1 {
			t.Errorf("Get(%s) = %d, want %d", cat, got, i+1)
		}
	}
	if c.Get(grid.CategoryConnector) != 0 {
		t.Error("Get(connector) should be 0")
	}
	if c.Total() != 21 {
		t.Errorf("Total() = %d, want 21", c.Total())
	}
}
