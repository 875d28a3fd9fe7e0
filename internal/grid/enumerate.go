package grid

// Source enumerates the live block inventory.
type Source interface {
	// Blocks returns every block of the category accepted by the filter.
	Blocks(category Category, filter Filter) []Device
}

// Enumerate returns the typed handles of one category accepted by the filter.
//
// Blocks whose handle does not implement T are skipped, so a misbehaving
// source cannot hand a light to the battery policy.
func Enumerate[T Device](src Source, category Category, filter Filter) []T {
	if src == nil {
		return nil
	}
	devices := src.Blocks(category, filter)
	out := make([]T, 0, len(devices))
	for _, d := range devices {
		if typed, ok := d.(T); ok && filter.Match(d) {
			out = append(out, typed)
		}
	}
	return out
}
