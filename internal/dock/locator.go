package dock

import (
	"fmt"
	"sort"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// Selection is the outcome of a main-connector lookup.
type Selection struct {
	Connector grid.Connector

	// Candidates is how many connectors matched the winning rule. More than
	// one means the tie-break picked the first by name.
	Candidates int
}

// Ambiguous reports whether the tie-break had to choose.
func (s Selection) Ambiguous() bool {
	return s.Candidates > 1
}

// Locator finds the main connector and builds subsystem sets.
type Locator struct {
	source  grid.Source
	ownGrid grid.ID
}

// NewLocator creates a locator over the given inventory.
// Connector lookups are always scoped to ownGrid.
func NewLocator(source grid.Source, ownGrid grid.ID) *Locator {
	return &Locator{source: source, ownGrid: ownGrid}
}

// FindMainConnector selects the controller's main connector.
//
// Selection rules, in order:
//  1. A single connector on the own grid is main, whatever its name.
//  2. With candidateName set, the connector named exactly candidateName.
//  3. Otherwise the connector whose name contains "ToBase".
//
// When several connectors satisfy a rule they are ordered by name, then ID,
// and the first wins.
//
// Returns:
//   - Selection: the chosen connector and the number of candidates
//   - error: ErrNoConnectorFound or ErrNamedConnectorNotFound
func (l *Locator) FindMainConnector(candidateName string) (Selection, error) {
	connectors := grid.Enumerate[grid.Connector](l.source, grid.CategoryConnector, grid.SameGrid(l.ownGrid))

	switch len(connectors) {
	case 0:
		return Selection{}, fmt.Errorf("%w: grid %s has no connectors", ErrNoConnectorFound, l.ownGrid)
	case 1:
		return Selection{Connector: connectors[0], Candidates: 1}, nil
	}

	var matches []grid.Connector
	if candidateName != "" {
		for _, c := range connectors {
			if c.Name() == candidateName {
				matches = append(matches, c)
			}
		}
		if len(matches) == 0 {
			return Selection{}, fmt.Errorf("%w: %q (grid %s has %d connectors)",
				ErrNamedConnectorNotFound, candidateName, l.ownGrid, len(connectors))
		}
	} else {
		for _, c := range connectors {
			if grid.IsBaseConnectorName(c.Name()) {
				matches = append(matches, c)
			}
		}
		if len(matches) == 0 {
			return Selection{}, fmt.Errorf("%w: %d connectors found, none contains %s",
				ErrNoConnectorFound, len(connectors), grid.BaseConnectorTag)
		}
	}

	sortConnectors(matches)
	return Selection{Connector: matches[0], Candidates: len(matches)}, nil
}

// BuildSubsystemSet queries every subsystem category through the filter.
// An invalid filter yields an empty set.
func (l *Locator) BuildSubsystemSet(filter grid.Filter) *SubsystemSet {
	set := &SubsystemSet{Grid: filter.Target()}
	if !filter.Valid() {
		return set
	}
	set.Batteries = grid.Enumerate[grid.Battery](l.source, grid.CategoryBattery, filter)
	set.Thrusters = grid.Enumerate[grid.Thruster](l.source, grid.CategoryThruster, filter)
	set.GasTanks = grid.Enumerate[grid.GasTank](l.source, grid.CategoryGasTank, filter)
	set.AirVents = grid.Enumerate[grid.AirVent](l.source, grid.CategoryAirVent, filter)
	set.Lights = grid.Enumerate[grid.Light](l.source, grid.CategoryLight, filter)
	set.Cockpits = grid.Enumerate[grid.Cockpit](l.source, grid.CategoryCockpit, filter)
	return set
}

// sortConnectors orders connectors by display name, then ID.
func sortConnectors(cs []grid.Connector) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Name() != cs[j].Name() {
			return cs[i].Name() < cs[j].Name()
		}
		return cs[i].ID() < cs[j].ID()
	})
}
