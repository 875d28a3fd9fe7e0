package dock

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

func TestFindMainConnector_BaseTag(t *testing.T) {
	src := newFakeSource(
		newConnector("c1", "A", "rover"),
		newConnector("c2", "B", "rover"),
		newConnector("c3", "ToBase", "rover"),
	)

	sel, err := NewLocator(src, "rover").FindMainConnector("")
	if err != nil {
		t.Fatalf("FindMainConnector() error = %v", err)
	}
	if sel.Connector.Name() != "ToBase" {
		t.Errorf("main connector = %q, want ToBase", sel.Connector.Name())
	}
	if sel.Ambiguous() {
		t.Error("single ToBase match should not be ambiguous")
	}
}

func TestFindMainConnector_SingleConnector(t *testing.T) {
	src := newFakeSource(newConnector("c1", "Front", "rover"))

	sel, err := NewLocator(src, "rover").FindMainConnector("")
	if err != nil {
		t.Fatalf("FindMainConnector() error = %v", err)
	}
	if sel.Connector.Name() != "Front" {
		t.Errorf("main connector = %q, want Front", sel.Connector.Name())
	}
}

func TestFindMainConnector_SingleConnectorIgnoresName(t *testing.T) {
	src := newFakeSource(newConnector("c1", "Front", "rover"))

	sel, err := NewLocator(src, "rover").FindMainConnector("Rear")
	if err != nil {
		t.Fatalf("FindMainConnector() error = %v", err)
	}
	if sel.Connector.Name() != "Front" {
		t.Errorf("main connector = %q, want Front", sel.Connector.Name())
	}
}

func TestFindMainConnector_ByName(t *testing.T) {
	src := newFakeSource(
		newConnector("c1", "Bay 1", "station"),
		newConnector("c2", "Bay 2", "station"),
		newConnector("c3", "Bay 2 ToBase", "station"),
	)

	sel, err := NewLocator(src, "station").FindMainConnector("Bay 2")
	if err != nil {
		t.Fatalf("FindMainConnector() error = %v", err)
	}
	if sel.Connector.ID() != "c2" {
		t.Errorf("main connector = %q, want c2", sel.Connector.ID())
	}
}

func TestFindMainConnector_Errors(t *testing.T) {
	tests := []struct {
		name    string
		devices []grid.Device
		arg     string
		wantErr error
	}{
		{
			name:    "no connectors",
			wantErr: ErrNoConnectorFound,
		},
		{
			name: "only foreign connectors",
			devices: []grid.Device{
				newConnector("c1", "ToBase", "visitor"),
			},
			wantErr: ErrNoConnectorFound,
		},
		{
			name: "several without base tag",
			devices: []grid.Device{
				newConnector("c1", "A", "rover"),
				newConnector("c2", "B", "rover"),
			},
			wantErr: ErrNoConnectorFound,
		},
		{
			name: "name matches nothing",
			devices: []grid.Device{
				newConnector("c1", "A", "rover"),
				newConnector("c2", "ToBase", "rover"),
			},
			arg:     "Missing",
			wantErr: ErrNamedConnectorNotFound,
		},
		{
			name: "name match is exact",
			devices: []grid.Device{
				newConnector("c1", "Bay 1", "rover"),
				newConnector("c2", "Bay 10", "rover"),
			},
			arg:     "bay 1",
			wantErr: ErrNamedConnectorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource(tt.devices...)
			_, err := NewLocator(src, "rover").FindMainConnector(tt.arg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FindMainConnector(%q) error = %v, want %v", tt.arg, err, tt.wantErr)
			}
		})
	}
}

func TestFindMainConnector_TieBreak(t *testing.T) {
	// Inventory order must not matter.
	orders := [][]grid.Device{
		{newConnector("c2", "Port ToBase", "rover"), newConnector("c1", "Aft ToBase", "rover"), newConnector("c3", "Cargo", "rover")},
		{newConnector("c3", "Cargo", "rover"), newConnector("c1", "Aft ToBase", "rover"), newConnector("c2", "Port ToBase", "rover")},
	}

	for i, devices := range orders {
		sel, err := NewLocator(newFakeSource(devices...), "rover").FindMainConnector("")
		if err != nil {
			t.Fatalf("order %d: FindMainConnector() error = %v", i, err)
		}
		if sel.Connector.ID() != "c1" {
			t.Errorf("order %d: main connector = %q, want c1 (Aft ToBase)", i, sel.Connector.ID())
		}
		if !sel.Ambiguous() || sel.Candidates != 2 {
			t.Errorf("order %d: Candidates = %d, want 2", i, sel.Candidates)
		}
	}
}

func TestFindMainConnector_TieBreakSameName(t *testing.T) {
	src := newFakeSource(
		newConnector("b", "ToBase", "rover"),
		newConnector("a", "ToBase", "rover"),
	)

	sel, err := NewLocator(src, "rover").FindMainConnector("")
	if err != nil {
		t.Fatalf("FindMainConnector() error = %v", err)
	}
	if sel.Connector.ID() != "a" {
		t.Errorf("main connector = %q, want a", sel.Connector.ID())
	}
}

func TestBuildSubsystemSet(t *testing.T) {
	own := newVehicle("rover", "Front")
	other := newVehicle("hauler", "ToBase")
	src := newFakeSource(append(own.devices(), other.devices()...)...)
	loc := NewLocator(src, "rover")

	set := loc.BuildSubsystemSet(grid.SameGrid("hauler"))
	if set.Grid != "hauler" {
		t.Errorf("set.Grid = %q, want hauler", set.Grid)
	}
	want := Counts{Batteries: 1, Thrusters: 1, GasTanks: 1, AirVents: 3, Lights: 1, Cockpits: 1}
	if got := set.Counts(); got != want {
		t.Errorf("set.Counts() = %+v, want %+v", got, want)
	}
	if set.Batteries[0].ID() != "hauler-bat" {
		t.Errorf("battery = %q, want hauler-bat", set.Batteries[0].ID())
	}

	again := loc.BuildSubsystemSet(grid.SameGrid("hauler"))
	if again.Counts() != set.Counts() {
		t.Error("BuildSubsystemSet should be idempotent for a fixed inventory")
	}
	if own.subsystemWrites()+other.subsystemWrites() != 0 {
		t.Error("BuildSubsystemSet must not write device properties")
	}
}

func TestBuildSubsystemSet_InvalidFilter(t *testing.T) {
	v := newVehicle("rover", "Front")
	set := NewLocator(newFakeSource(v.devices()...), "rover").BuildSubsystemSet(grid.Filter{})

	if set.Counts().Total() != 0 {
		t.Errorf("invalid filter built %d handles, want 0", set.Counts().Total())
	}
}
