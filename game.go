package cubetoe

import (
	"context"
	"log/slog"
	"sync"
)

// RoundResult is reported after each guided step.
type RoundResult struct {
	Round     int       // 1-based round number
	Move      Move      // Solve move applied this round
	Lines     LineCount // Lines counted by this round's evaluation
	Scores    LineCount // Accumulated scores after the round
	Remaining int       // Guided steps left
	Next      Player    // Player to mark next
}

// GameResult summarizes a finished game.
type GameResult struct {
	Rounds int
	Scores LineCount
	Solved bool // The puzzle was returned to its solved state
	Full   bool // Every overlay cell was marked
}

// Winner returns the player with the higher score, or Empty on a tie.
func (r GameResult) Winner() Player {
	switch {
	case r.Scores.X > r.Scores.O:
		return PlayerX
	case r.Scores.O > r.Scores.X:
		return PlayerO
	default:
		return Empty
	}
}

// Game runs the guided mode: the puzzle is shuffled, then players take
// turns marking faces while each Go applies one solve move and scores the
// round. The game ends when the puzzle is solved or the overlay is full.
type Game struct {
	session *Session
	overlay *Overlay
	logger  *slog.Logger

	mu         sync.Mutex
	started    bool
	finished   bool
	round      int
	result     GameResult
	onRound    func(RoundResult)
	onFinished func(GameResult)
}

// NewGame ties a session to an overlay of the same size.
func NewGame(session *Session, overlay *Overlay) (*Game, error) {
	if session.Size() != overlay.Size() {
		return nil, ErrInvalidSize
	}
	return &Game{
		session: session,
		overlay: overlay,
		logger:  session.logger,
	}, nil
}

// Session returns the underlying session.
func (g *Game) Session() *Session {
	return g.session
}

// Overlay returns the underlying overlay.
func (g *Game) Overlay() *Overlay {
	return g.overlay
}

// OnRound sets a callback that fires after each round is scored.
func (g *Game) OnRound(cb func(RoundResult)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onRound = cb
}

// OnFinished sets a callback that fires once when the game ends.
func (g *Game) OnFinished(cb func(GameResult)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFinished = cb
}

// Start clears the overlay, shuffles the puzzle with shuffleMoves moves,
// prepares the guided solve and opens the overlay for picks.
func (g *Game) Start(ctx context.Context, shuffleMoves int) error {
	g.overlay.Disable()
	g.overlay.ClearAll()

	g.mu.Lock()
	g.started = false
	g.finished = false
	g.round = 0
	g.result = GameResult{}
	g.mu.Unlock()

	if err := g.session.Shuffle(ctx, shuffleMoves); err != nil {
		return err
	}
	steps := g.session.BuildSolveQueue()

	g.mu.Lock()
	g.started = true
	g.mu.Unlock()
	g.overlay.Enable()

	g.logger.Info("game started", "size", g.session.Size(), "shuffle_moves", shuffleMoves, "steps", steps)
	if steps == 0 {
		g.finish(true)
	}
	return nil
}

// Started reports whether Start has completed.
func (g *Game) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}

// Finished reports whether the game has ended.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finished
}

// Round returns the number of rounds played.
func (g *Game) Round() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round
}

// Result returns the final result. It is zero until the game finishes.
func (g *Game) Result() GameResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Place forwards a pick to the overlay.
func (g *Game) Place(pick Pick) bool {
	return g.overlay.PlaceMark(pick)
}

// Go plays one round: one guided solve step, then line scoring and the
// change of turn.
func (g *Game) Go(ctx context.Context) (RoundResult, error) {
	g.mu.Lock()
	if !g.started || g.finished {
		g.mu.Unlock()
		return RoundResult{}, ErrGameNotStarted
	}
	g.mu.Unlock()

	move, remaining, err := g.session.step(ctx)
	if err != nil {
		return RoundResult{}, err
	}
	lines := g.overlay.EvaluateRound()

	g.mu.Lock()
	g.round++
	res := RoundResult{
		Round:     g.round,
		Move:      move,
		Lines:     lines,
		Scores:    g.overlay.Scores(),
		Remaining: remaining,
		Next:      g.overlay.Current(),
	}
	cb := g.onRound
	g.mu.Unlock()

	g.logger.Info("round played",
		"round", res.Round, "move", move.Notation(),
		"lines_x", lines.X, "lines_o", lines.O, "remaining", remaining)
	if cb != nil {
		cb(res)
	}

	if remaining == 0 || g.overlay.Phase() == PhaseFinished {
		g.finish(remaining == 0)
	}
	return res, nil
}

func (g *Game) finish(solved bool) {
	g.overlay.Disable()

	g.mu.Lock()
	if g.finished {
		g.mu.Unlock()
		return
	}
	g.finished = true
	g.result = GameResult{
		Rounds: g.round,
		Scores: g.overlay.Scores(),
		Solved: solved,
		Full:   g.overlay.IsFull(),
	}
	res := g.result
	cb := g.onFinished
	g.mu.Unlock()

	g.logger.Info("game finished",
		"rounds", res.Rounds, "score_x", res.Scores.X, "score_o", res.Scores.O,
		"winner", res.Winner().String())
	if cb != nil {
		cb(res)
	}
}
