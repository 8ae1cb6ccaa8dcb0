package cubetoe

// Phase is the state of the face overlay game.
// Phases progress from Idle (0) to Finished (3).
type Phase int

const (
	// PhaseIdle indicates the overlay is inactive and ignores picks.
	PhaseIdle Phase = iota

	// PhaseActive indicates the overlay accepts picks for the current
	// player.
	PhaseActive

	// PhaseRoundEvaluated indicates line scoring has just run. The next
	// pick moves the game back to active.
	PhaseRoundEvaluated

	// PhaseFinished indicates every cell of every face holds a mark.
	// Only ClearAll leaves this phase.
	PhaseFinished
)

// String returns a short identifier for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseRoundEvaluated:
		return "round_evaluated"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the phase.
func (p Phase) DisplayName() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseActive:
		return "In Play"
	case PhaseRoundEvaluated:
		return "Round Scored"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// IsComplete returns true if the game has finished.
func (p Phase) IsComplete() bool {
	return p == PhaseFinished
}

// AcceptsPicks reports whether PlaceMark can record a mark in this phase.
func (p Phase) AcceptsPicks() bool {
	return p == PhaseActive || p == PhaseRoundEvaluated
}
