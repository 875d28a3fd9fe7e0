package inventory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// Site is the YAML site description.
type Site struct {
	Grids  []grid.Info `yaml:"grids"`
	Blocks []BlockSpec `yaml:"blocks"`
}

// BlockSpec declares one block and its initial state. Fields that do not
// apply to the block's category are ignored.
type BlockSpec struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Category grid.Category `yaml:"category"`
	Grid     grid.ID       `yaml:"grid"`

	ChargeMode   string `yaml:"charge_mode"`
	Enabled      *bool  `yaml:"enabled"`
	Stockpile    bool   `yaml:"stockpile"`
	Depressurize bool   `yaml:"depressurize"`
	Handbrake    bool   `yaml:"handbrake"`

	// Partner is the connector in range of this one.
	Partner string `yaml:"partner"`

	// Status is "connectable" (default when a partner is set) or "connected".
	Status string `yaml:"status"`
}

// LoadSite reads and validates a site file.
func LoadSite(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site file: %w", err)
	}
	return ParseSite(data)
}

// ParseSite decodes and validates a YAML site description.
func ParseSite(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parsing site file: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks identifiers, references and connector pairing. All
// problems are reported together.
func (s *Site) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	grids := make(map[grid.ID]bool, len(s.Grids))
	for _, g := range s.Grids {
		if g.ID == "" {
			add("grid without id")
			continue
		}
		if grids[g.ID] {
			add("duplicate grid %q", g.ID)
		}
		grids[g.ID] = true
	}

	blocks := make(map[string]*BlockSpec, len(s.Blocks))
	for i := range s.Blocks {
		b := &s.Blocks[i]
		if b.ID == "" {
			add("block %d: id is required", i)
			continue
		}
		if _, dup := blocks[b.ID]; dup {
			add("duplicate block %q", b.ID)
		}
		blocks[b.ID] = b

		if !grids[b.Grid] {
			add("block %q: unknown grid %q", b.ID, b.Grid)
		}
		cat, err := grid.ParseCategory(string(b.Category))
		if err != nil {
			add("block %q: %v", b.ID, err)
			continue
		}
		b.Category = cat
		if b.Name == "" {
			b.Name = b.ID
		}
		if cat == grid.CategoryBattery {
			if _, err := grid.ParseChargeMode(b.ChargeMode); err != nil {
				add("block %q: %v", b.ID, err)
			}
		}
	}

	for _, b := range s.Blocks {
		if b.Category != grid.CategoryConnector {
			if b.Partner != "" {
				add("block %q: only connectors have partners", b.ID)
			}
			continue
		}
		status, err := grid.ParseConnectorStatus(b.Status)
		if err != nil {
			add("block %q: %v", b.ID, err)
			continue
		}
		if b.Partner == "" {
			if status != grid.Unconnected {
				add("block %q: status %s needs a partner", b.ID, status)
			}
			continue
		}
		p, ok := blocks[b.Partner]
		switch {
		case !ok:
			add("block %q: unknown partner %q", b.ID, b.Partner)
		case p.Category != grid.CategoryConnector:
			add("block %q: partner %q is not a connector", b.ID, b.Partner)
		case p.ID == b.ID:
			add("block %q: connector cannot partner itself", b.ID)
		case p.Partner != "" && p.Partner != b.ID:
			add("block %q: partner %q is paired with %q", b.ID, p.ID, p.Partner)
		case p.Grid == b.Grid:
			add("block %q: partner %q is on the same grid", b.ID, p.ID)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSite, errors.Join(errs...))
	}
	return nil
}
