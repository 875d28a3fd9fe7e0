package grid

// Filter selects blocks that belong to one target grid.
//
// The zero Filter matches nothing and reports Valid() == false.
type Filter struct {
	target ID
}

// SameGrid returns a filter matching blocks mounted on the given grid.
func SameGrid(target ID) Filter {
	return Filter{target: target}
}

// Target returns the grid the filter is scoped to.
func (f Filter) Target() ID {
	return f.target
}

// Valid reports whether the filter has a target grid.
func (f Filter) Valid() bool {
	return f.target != ""
}

// Match reports whether the device belongs to the filter's target grid.
func (f Filter) Match(d Device) bool {
	if d == nil || !f.Valid() {
		return false
	}
	return d.Grid() == f.target
}
