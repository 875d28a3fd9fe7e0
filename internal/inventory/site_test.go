package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

const testSite = `
grids:
  - id: base
    name: Home Base
    static: true
  - id: miner
    name: Miner
blocks:
  - id: base-conn
    name: Base Connector
    category: connector
    grid: base
  - id: miner-conn
    name: Connector ToBase
    category: connector
    grid: miner
    partner: base-conn
  - id: miner-conn-2
    name: Cargo Connector
    category: connector
    grid: miner
  - id: miner-bat
    name: Battery
    category: battery
    grid: miner
    charge_mode: auto
  - id: miner-thr
    name: Thruster
    category: thruster
    grid: miner
  - id: miner-tank
    name: Hydrogen Tank
    category: gas_tank
    grid: miner
  - id: miner-vent-int
    name: Air Vent int.
    category: air_vent
    grid: miner
  - id: miner-vent-ext
    name: Air Vent ext.
    category: air_vent
    grid: miner
    enabled: false
  - id: miner-light
    name: Spotlight
    category: light
    grid: miner
  - id: miner-seat
    name: Cockpit
    category: cockpit
    grid: miner
  - id: base-light
    name: Hangar Light
    category: light
    grid: base
`

func TestParseSite(t *testing.T) {
	site, err := ParseSite([]byte(testSite))
	if err != nil {
		t.Fatalf("ParseSite() error = %v", err)
	}
	if len(site.Grids) != 2 || !site.Grids[0].Static {
		t.Errorf("grids = %+v", site.Grids)
	}
	if len(site.Blocks) != 11 {
		t.Errorf("blocks = %d, want 11", len(site.Blocks))
	}
}

func TestLoadSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(testSite), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSite(path); err != nil {
		t.Fatalf("LoadSite() error = %v", err)
	}
	if _, err := LoadSite(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSiteValidate_DefaultsName(t *testing.T) {
	site := &Site{
		Grids:  []grid.Info{{ID: "g"}},
		Blocks: []BlockSpec{{ID: "light-1", Category: "LIGHT", Grid: "g"}},
	}
	if err := site.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if site.Blocks[0].Name != "light-1" || site.Blocks[0].Category != grid.CategoryLight {
		t.Errorf("block = %+v", site.Blocks[0])
	}
}

func TestSiteValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		site    Site
		wantMsg string
	}{
		{
			name:    "unknown grid",
			site:    Site{Blocks: []BlockSpec{{ID: "b", Category: "light", Grid: "nowhere"}}},
			wantMsg: `unknown grid "nowhere"`,
		},
		{
			name: "duplicate block",
			site: Site{
				Grids:  []grid.Info{{ID: "g"}},
				Blocks: []BlockSpec{{ID: "b", Category: "light", Grid: "g"}, {ID: "b", Category: "light", Grid: "g"}},
			},
			wantMsg: `duplicate block "b"`,
		},
		{
			name: "bad category",
			site: Site{
				Grids:  []grid.Info{{ID: "g"}},
				Blocks: []BlockSpec{{ID: "b", Category: "reactor", Grid: "g"}},
			},
			wantMsg: "invalid category",
		},
		{
			name: "bad charge mode",
			site: Site{
				Grids:  []grid.Info{{ID: "g"}},
				Blocks: []BlockSpec{{ID: "b", Category: "battery", Grid: "g", ChargeMode: "overdrive"}},
			},
			wantMsg: "invalid charge mode",
		},
		{
			name: "connected without partner",
			site: Site{
				Grids:  []grid.Info{{ID: "g"}},
				Blocks: []BlockSpec{{ID: "c", Category: "connector", Grid: "g", Status: "connected"}},
			},
			wantMsg: "needs a partner",
		},
		{
			name: "partner on same grid",
			site: Site{
				Grids: []grid.Info{{ID: "g"}},
				Blocks: []BlockSpec{
					{ID: "a", Category: "connector", Grid: "g", Partner: "b"},
					{ID: "b", Category: "connector", Grid: "g"},
				},
			},
			wantMsg: "same grid",
		},
		{
			name: "partner not a connector",
			site: Site{
				Grids: []grid.Info{{ID: "g"}, {ID: "h"}},
				Blocks: []BlockSpec{
					{ID: "a", Category: "connector", Grid: "g", Partner: "b"},
					{ID: "b", Category: "light", Grid: "h"},
				},
			},
			wantMsg: "not a connector",
		},
		{
			name: "asymmetric pairing",
			site: Site{
				Grids: []grid.Info{{ID: "g"}, {ID: "h"}, {ID: "k"}},
				Blocks: []BlockSpec{
					{ID: "a", Category: "connector", Grid: "g", Partner: "b"},
					{ID: "b", Category: "connector", Grid: "h", Partner: "c"},
					{ID: "c", Category: "connector", Grid: "k"},
				},
			},
			wantMsg: `is paired with "c"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.site.Validate()
			if !errors.Is(err, ErrInvalidSite) {
				t.Fatalf("Validate() error = %v, want ErrInvalidSite", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
