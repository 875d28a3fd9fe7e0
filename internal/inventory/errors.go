package inventory

import "errors"

var (
	// ErrInvalidSite is returned when the site file fails validation.
	ErrInvalidSite = errors.New("inventory: invalid site")

	// ErrUnknownBlock is returned for state reports naming a block the
	// inventory does not hold.
	ErrUnknownBlock = errors.New("inventory: unknown block")

	// ErrNotConnector is returned for connector state reports on other blocks.
	ErrNotConnector = errors.New("inventory: block is not a connector")
)
