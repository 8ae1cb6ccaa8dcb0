package cubetoe

import "errors"

// Sentinel errors for the cubetoe package.
var (
	// Construction errors
	ErrInvalidSize = errors.New("cubetoe: cube size must be at least 1")

	// Parsing errors
	ErrInvalidNotation = errors.New("cubetoe: invalid move notation")
	ErrInvalidMove     = errors.New("cubetoe: invalid move")

	// Queue and session errors
	ErrQueueDrained    = errors.New("cubetoe: move queue drained")
	ErrStopped         = errors.New("cubetoe: session stopped")
	ErrSolveQueueEmpty = errors.New("cubetoe: solve queue is empty")

	// Game errors
	ErrGameNotStarted = errors.New("cubetoe: game not started")
)
