package grid

import "errors"

// Domain errors for the grid package.
var (
	// ErrInvalidStatus is returned when a connector status name is not recognised.
	ErrInvalidStatus = errors.New("grid: invalid connector status")

	// ErrInvalidCategory is returned when a block category is not recognised.
	ErrInvalidCategory = errors.New("grid: invalid category")

	// ErrInvalidChargeMode is returned when a battery charge mode is not recognised.
	ErrInvalidChargeMode = errors.New("grid: invalid charge mode")
)
