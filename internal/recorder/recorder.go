// Package recorder writes played games to the history database.
package recorder

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubetoe"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

// State represents the current state of a recording.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the recording state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Recorder stores the moves, marks and rounds of one game at a time.
// History is write-only: nothing is ever restored into a live session.
type Recorder struct {
	logger *slog.Logger

	mu        sync.RWMutex
	state     State
	gameID    string
	startTime time.Time
	moveIndex int
	round     int
	scores    cubetoe.LineCount

	// Repositories
	gameRepo  *storage.GameRepository
	moveRepo  *storage.MoveRepository
	roundRepo *storage.RoundRepository
}

// New creates a recorder writing to db.
func New(db *storage.DB, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		logger:    logger,
		state:     StateIdle,
		gameRepo:  storage.NewGameRepository(db),
		moveRepo:  storage.NewMoveRepository(db),
		roundRepo: storage.NewRoundRepository(db),
	}
}

// State returns the current recording state.
func (r *Recorder) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// GameID returns the ID of the current or last game.
func (r *Recorder) GameID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gameID
}

// MoveCount returns the number of moves recorded for the current game.
func (r *Recorder) MoveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.moveIndex
}

// ElapsedMs returns the time since the game began in milliseconds.
func (r *Recorder) ElapsedMs() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateRecording {
		return 0
	}
	return time.Since(r.startTime).Milliseconds()
}

// Begin starts recording a new game. A game still being recorded is
// closed as abandoned first.
func (r *Recorder) Begin(size, shuffleMoves int, seed *int64, notes string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		if err := r.gameRepo.End(r.gameID, r.scores.X, r.scores.O, storage.OutcomeAbandoned); err != nil {
			return "", fmt.Errorf("failed to close previous game: %w", err)
		}
	}

	gameID, err := r.gameRepo.Create(size, shuffleMoves, seed, notes)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	r.gameID = gameID
	r.startTime = time.Now()
	r.moveIndex = 0
	r.round = 0
	r.scores = cubetoe.LineCount{}
	r.state = StateRecording

	r.logger.Debug("recording started", "game_id", gameID, "size", size)
	return gameID, nil
}

// RecordMove stores one applied move.
func (r *Recorder) RecordMove(e cubetoe.MoveEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return nil // Not recording, ignore
	}

	kind := storage.KindShuffle
	if e.Kind == cubetoe.KindSolve {
		kind = storage.KindSolve
	}

	if _, err := r.moveRepo.Create(r.gameID, r.moveIndex, time.Now(), kind, e.Move); err != nil {
		return fmt.Errorf("failed to store move: %w", err)
	}
	r.moveIndex++
	return nil
}

// RecordMark stores a placed mark against the round it precedes.
func (r *Recorder) RecordMark(e cubetoe.MarkEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return nil
	}

	_, err := r.roundRepo.CreateMark(storage.Mark{
		GameID:     r.gameID,
		RoundIndex: r.round + 1,
		Face:       int(e.Cell.Face),
		Row:        e.Cell.Row,
		Col:        e.Cell.Col,
		Player:     e.Player.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to store mark: %w", err)
	}
	return nil
}

// RecordRound stores a scored round and the running scores.
func (r *Recorder) RecordRound(res cubetoe.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return nil
	}

	_, err := r.roundRepo.Create(storage.Round{
		GameID:     r.gameID,
		RoundIndex: res.Round,
		Notation:   res.Move.Notation(),
		LinesX:     res.Lines.X,
		LinesO:     res.Lines.O,
		ScoreX:     res.Scores.X,
		ScoreO:     res.Scores.O,
		Remaining:  res.Remaining,
	})
	if err != nil {
		return fmt.Errorf("failed to store round: %w", err)
	}
	r.round = res.Round
	r.scores = res.Scores

	if err := r.gameRepo.UpdateScores(r.gameID, res.Scores.X, res.Scores.O); err != nil {
		return err
	}
	return nil
}

// Finish closes the current game with its result.
func (r *Recorder) Finish(res cubetoe.GameResult) error {
	outcome := storage.OutcomeFull
	if res.Solved {
		outcome = storage.OutcomeSolved
	}
	return r.End(res.Scores.X, res.Scores.O, outcome)
}

// End closes the current game with the given scores and outcome.
func (r *Recorder) End(scoreX, scoreO int, outcome string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return fmt.Errorf("no game in progress")
	}

	if err := r.gameRepo.End(r.gameID, scoreX, scoreO, outcome); err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	r.state = StateEnded
	r.logger.Debug("recording ended", "game_id", r.gameID, "outcome", outcome, "moves", r.moveIndex)
	return nil
}

// Attach subscribes the recorder to a game's session, overlay and round
// hooks. Storage errors are logged, never returned to the game.
// Callers that need their own hooks on the same game should call the
// Record methods from those hooks instead.
func (r *Recorder) Attach(g *cubetoe.Game) {
	g.Session().OnMove(func(e cubetoe.MoveEvent) {
		r.logErr(r.RecordMove(e))
	})
	g.Overlay().OnMarkPlaced(func(e cubetoe.MarkEvent) {
		r.logErr(r.RecordMark(e))
	})
	g.OnRound(func(res cubetoe.RoundResult) {
		r.logErr(r.RecordRound(res))
	})
	g.OnFinished(func(res cubetoe.GameResult) {
		r.logErr(r.Finish(res))
	})
}

func (r *Recorder) logErr(err error) {
	if err != nil {
		r.logger.Warn("failed to record game history", "game_id", r.GameID(), "error", err)
	}
}
