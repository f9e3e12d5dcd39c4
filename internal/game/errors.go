package game

import "errors"

var (
	// ErrOutOfBounds is returned for coordinates outside the grid. Inside the
	// engine it signals a programming error.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrInvalidCellKind is returned when a caller tries to store anything other
	// than free or obstacle in a cell.
	ErrInvalidCellKind = errors.New("invalid cell kind")

	// ErrLocked means the start cell is walled in on all four orthogonal sides.
	ErrLocked = errors.New("unit is locked in")

	// ErrUnreachable means the wavefront stalled or no path could be rebuilt.
	ErrUnreachable = errors.New("target unreachable")

	// ErrOccupied means a coordinate already holds a living unit.
	ErrOccupied = errors.New("coordinate occupied")

	// ErrNotOccupied means no unit is indexed at the coordinate.
	ErrNotOccupied = errors.New("coordinate not occupied")

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)
