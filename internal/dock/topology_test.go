package dock

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

func TestResolver_Mobile(t *testing.T) {
	r := NewResolver(newFakeSource(), "rover", TopologyMobile)

	filter, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if filter.Target() != "rover" {
		t.Errorf("target = %q, want rover", filter.Target())
	}
	if r.Stationary() || r.Topology() != TopologyMobile {
		t.Error("resolver should be mobile")
	}
}

func TestResolver_Stationary(t *testing.T) {
	r := NewResolver(newFakeSource(), "station", TopologyStationary)
	bay := newConnector("bay", "Bay 1", "station")
	visitor := newConnector("ship-conn", "ToBase", "ship")

	if _, err := r.Resolve(bay); !errors.Is(err, ErrPartnerGridUnresolved) {
		t.Errorf("Resolve() without partner error = %v, want ErrPartnerGridUnresolved", err)
	}
	if _, err := r.Resolve(nil); !errors.Is(err, ErrPartnerGridUnresolved) {
		t.Errorf("Resolve(nil) error = %v, want ErrPartnerGridUnresolved", err)
	}

	mate(bay, visitor)
	filter, err := r.Resolve(bay)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if filter.Target() != "ship" {
		t.Errorf("target = %q, want ship", filter.Target())
	}
}

func TestResolver_AutoUsesStaticFlag(t *testing.T) {
	src := newFakeSource()
	src.grids["station"] = grid.Info{ID: "station", Static: true}
	src.grids["rover"] = grid.Info{ID: "rover"}

	if !NewResolver(src, "station", TopologyAuto).Stationary() {
		t.Error("static grid should resolve as stationary")
	}
	if NewResolver(src, "rover", TopologyAuto).Stationary() {
		t.Error("moving grid should resolve as mobile")
	}
	if NewResolver(src, "unknown", TopologyAuto).Stationary() {
		t.Error("unknown grid should resolve as mobile")
	}
	if !NewResolver(src, "rover", TopologyStationary).Stationary() {
		t.Error("explicit topology should win over the static flag")
	}
}

func TestNeedsRebuild(t *testing.T) {
	filter := grid.SameGrid("ship")

	tests := []struct {
		name  string
		set   *SubsystemSet
		valid bool
		want  bool
	}{
		{"no set", nil, false, true},
		{"invalid set", &SubsystemSet{Grid: "ship"}, false, true},
		{"same grid", &SubsystemSet{Grid: "ship"}, true, false},
		{"different grid", &SubsystemSet{Grid: "other"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRebuild(tt.set, tt.valid, filter); got != tt.want {
				t.Errorf("NeedsRebuild() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTopology(t *testing.T) {
	tests := []struct {
		input   string
		want    Topology
		wantErr bool
	}{
		{"", TopologyAuto, false},
		{"Mobile", TopologyMobile, false},
		{"stationary", TopologyStationary, false},
		{"orbital", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTopology(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTopology(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTopology(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
