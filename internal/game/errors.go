package game

import "errors"

// Errors returned by the engine. None of them ends a session.
var (
	// ErrInvalidDirection is returned for a direction outside Left/Right/Up/Down.
	// The board is never touched when this is returned.
	ErrInvalidDirection = errors.New("game: invalid direction")

	// ErrInvalidTileValue is returned when writing a value that is neither 0
	// nor a power of two >= 2.
	ErrInvalidTileValue = errors.New("game: invalid tile value")

	// ErrUndoUnavailable is returned when the undo budget is spent or there is
	// no snapshot left to restore.
	ErrUndoUnavailable = errors.New("game: undo unavailable")

	// ErrOutOfBounds is returned for a cell outside the grid.
	ErrOutOfBounds = errors.New("game: cell out of bounds")

	// ErrNegativeScore is returned by AddScore for a negative delta.
	ErrNegativeScore = errors.New("game: negative score delta")

	// ErrInvalidDimensions is returned for grids smaller than 1x1.
	ErrInvalidDimensions = errors.New("game: invalid board dimensions")
)
