package dock

import (
	"fmt"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// Resolver decides which grid the subsystem set targets.
type Resolver struct {
	ownGrid    grid.ID
	stationary bool
}

// NewResolver creates a resolver for the own grid.
//
// With TopologyAuto the own grid's static flag, as reported by the source,
// decides. A grid unknown to the source is treated as mobile.
func NewResolver(source BlockSource, ownGrid grid.ID, topology Topology) *Resolver {
	stationary := topology == TopologyStationary
	if topology == TopologyAuto && source != nil {
		if info, ok := source.GridInfo(ownGrid); ok {
			stationary = info.Static
		}
	}
	return &Resolver{ownGrid: ownGrid, stationary: stationary}
}

// Stationary reports whether the controller targets visiting grids.
func (r *Resolver) Stationary() bool {
	return r.stationary
}

// Topology returns the effective topology.
func (r *Resolver) Topology() Topology {
	if r.stationary {
		return TopologyStationary
	}
	return TopologyMobile
}

// Resolve returns the filter for the current target grid.
//
// A mobile controller always targets its own grid. A stationary controller
// targets the grid of the partner docked to main and fails with
// ErrPartnerGridUnresolved when there is none.
func (r *Resolver) Resolve(main grid.Connector) (grid.Filter, error) {
	if !r.stationary {
		return grid.SameGrid(r.ownGrid), nil
	}
	if main == nil {
		return grid.Filter{}, fmt.Errorf("%w: no main connector", ErrPartnerGridUnresolved)
	}
	partner := main.Partner()
	if partner == nil || partner.Grid() == "" {
		return grid.Filter{}, fmt.Errorf("%w: connector %q has no docked partner", ErrPartnerGridUnresolved, main.Name())
	}
	return grid.SameGrid(partner.Grid()), nil
}

// NeedsRebuild reports whether a set built for the current target is stale.
// A nil or invalid set always needs rebuilding.
func NeedsRebuild(set *SubsystemSet, valid bool, filter grid.Filter) bool {
	return set == nil || !valid || set.Grid != filter.Target()
}
