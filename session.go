package cubetoe

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
)

// MoveKind tells shuffle moves from solve moves.
type MoveKind int

const (
	KindShuffle MoveKind = iota
	KindSolve
)

func (k MoveKind) String() string {
	switch k {
	case KindShuffle:
		return "shuffle"
	case KindSolve:
		return "solve"
	default:
		return "unknown"
	}
}

// MoveEvent describes one applied move.
type MoveEvent struct {
	Move      Move
	Kind      MoveKind
	Index     int // Position within the batch that produced it
	Remaining int // Moves of the batch still to apply
}

// Session is the scramble/solve controller for one puzzle. It owns the
// cube, its rotation engine and move queue, the current shuffle list and
// the guided solve queue.
//
// Create a Session with NewSession:
//
//	s, err := cubetoe.NewSession(3, cubetoe.WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = s.Shuffle(ctx, 20)
//	_ = s.Solve(ctx)
type Session struct {
	cfg    *config
	logger *slog.Logger

	mu         sync.Mutex
	size       int
	cube       *Cube
	engine     *Engine
	queue      *Queue
	rng        *rand.Rand
	shuffle    []Move
	shuffleGen uint64 // bumped whenever shuffle is replaced
	solveQueue []Move
	guided     bool
	epoch      uint64 // bumped by Stop

	onMove   func(MoveEvent)
	onSolved func()
}

// NewSession creates a session around a solved cube of the given size.
func NewSession(size int, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Session{
		cfg:    cfg,
		logger: cfg.logger,
		size:   size,
	}
	if cfg.seeded {
		s.rng = rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))
	} else {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if err := s.newCube(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) newCube() error {
	cube, err := NewCube(s.size)
	if err != nil {
		return err
	}
	s.cube = cube
	s.engine = NewEngine(cube, s.cfg.animator, s.logger)
	s.queue = NewQueue(s.engine, s.cfg.moveDuration, s.logger)
	return nil
}

// OnMove sets a callback that fires after each shuffle or solve move.
func (s *Session) OnMove(cb func(MoveEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMove = cb
}

// OnSolved sets a callback that fires when a solve or the last guided step
// completes.
func (s *Session) OnSolved(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSolved = cb
}

// Cube returns the current cube.
func (s *Session) Cube() *Cube {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cube
}

// Size returns N.
func (s *Session) Size() int {
	return s.size
}

// ShuffleList returns a copy of the current shuffle list.
func (s *Session) ShuffleList() []Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Move(nil), s.shuffle...)
}

// SolveQueue returns a copy of the guided solve queue.
func (s *Session) SolveQueue() []Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Move(nil), s.solveQueue...)
}

// Remaining returns the number of guided steps left.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.solveQueue)
}

// Solved reports the guided terminal state: a solve queue was built and
// has been fully consumed.
func (s *Session) Solved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guided && len(s.solveQueue) == 0
}

// QueueLen returns the number of moves waiting in or running on the move
// queue.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()
	return q.Len()
}

// RandomMoves draws count moves: axis, layer and direction each uniform.
func (s *Session) RandomMoves(count int) []Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.randomMovesLocked(count)
}

func (s *Session) randomMovesLocked(count int) []Move {
	coords := LayerCoords(s.size)
	moves := make([]Move, count)
	for i := range moves {
		angle := Plus90
		axis := Axes[s.rng.IntN(len(Axes))]
		slice := coords[s.rng.IntN(len(coords))]
		if s.rng.IntN(2) == 1 {
			angle = Minus90
		}
		moves[i] = Move{Axis: axis, Slice: slice, Angle: angle}
	}
	return moves
}

// Shuffle generates count random moves, stores them as the shuffle list
// (replacing any previous list and guided queue) and applies them in
// order. It returns once all have completed.
//
// If the session is stopped, or ctx is cancelled, part way through, the
// shuffle list is cut back to the moves actually applied and ErrStopped
// (or the context error) is returned.
func (s *Session) Shuffle(ctx context.Context, count int) error {
	if count < 0 {
		return fmt.Errorf("%w: negative shuffle count %d", ErrInvalidMove, count)
	}

	s.mu.Lock()
	moves := s.randomMovesLocked(count)
	s.shuffle = moves
	s.shuffleGen++
	gen := s.shuffleGen
	s.solveQueue = nil
	s.guided = false
	s.mu.Unlock()

	s.logger.Info("shuffle started", "moves", count, "sequence", FormatMoves(moves))

	applied, err := s.apply(ctx, moves, KindShuffle)
	if applied < len(moves) {
		s.mu.Lock()
		if s.shuffleGen == gen {
			s.shuffle = s.shuffle[:applied]
		}
		s.mu.Unlock()
	}
	if err != nil {
		s.logger.Info("shuffle interrupted", "applied", applied, "error", err)
		return err
	}

	s.logger.Info("shuffle complete", "moves", count)
	return nil
}

// Solve applies the inverse of the shuffle list (reversed, angles
// negated) and clears it, returning the cube to its pre-shuffle state.
// With an empty list it returns immediately.
func (s *Session) Solve(ctx context.Context) error {
	s.mu.Lock()
	list := s.shuffle
	gen := s.shuffleGen
	s.solveQueue = nil
	s.guided = false
	s.mu.Unlock()

	inverse := InvertMoves(list)
	s.logger.Info("solve started", "moves", len(inverse))

	applied, err := s.apply(ctx, inverse, KindSolve)

	s.mu.Lock()
	if s.shuffleGen == gen {
		s.shuffle = s.shuffle[:len(list)-applied]
	}
	onSolved := s.onSolved
	s.mu.Unlock()

	if err != nil {
		s.logger.Info("solve interrupted", "applied", applied, "error", err)
		return err
	}

	s.logger.Info("solve complete", "moves", len(inverse))
	if onSolved != nil {
		onSolved()
	}
	return nil
}

// BuildSolveQueue prepares the guided solve without executing it and
// returns its length.
func (s *Session) BuildSolveQueue() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.solveQueue = InvertMoves(s.shuffle)
	s.guided = true
	return len(s.solveQueue)
}

// Step applies exactly one move from the guided solve queue and returns
// how many remain. The session is solved when the count reaches zero.
func (s *Session) Step(ctx context.Context) (int, error) {
	_, remaining, err := s.step(ctx)
	return remaining, err
}

func (s *Session) step(ctx context.Context) (Move, int, error) {
	s.mu.Lock()
	if len(s.solveQueue) == 0 {
		s.mu.Unlock()
		return Move{}, 0, ErrSolveQueueEmpty
	}
	m := s.solveQueue[0]
	s.solveQueue = s.solveQueue[1:]
	gen := s.shuffleGen
	s.mu.Unlock()

	applied, err := s.apply(ctx, []Move{m}, KindSolve)

	s.mu.Lock()
	if s.shuffleGen == gen {
		if applied == 1 {
			if n := len(s.shuffle); n > 0 {
				s.shuffle = s.shuffle[:n-1]
			}
		} else {
			s.solveQueue = append([]Move{m}, s.solveQueue...)
		}
	}
	remaining := len(s.solveQueue)
	solved := s.guided && remaining == 0 && applied == 1
	onSolved := s.onSolved
	s.mu.Unlock()

	if err != nil {
		return m, remaining, err
	}

	s.logger.Debug("guided step", "move", m.Notation(), "remaining", remaining)
	if solved && onSolved != nil {
		onSolved()
	}
	return m, remaining, nil
}

// apply enqueues moves and waits for each in order. It returns how many
// were applied before any interruption.
func (s *Session) apply(ctx context.Context, moves []Move, kind MoveKind) (int, error) {
	s.mu.Lock()
	queue := s.queue
	epoch := s.epoch
	s.mu.Unlock()

	pendings := make([]*Pending, len(moves))
	for i, m := range moves {
		pendings[i] = queue.Enqueue(m)
	}

	applied := 0
	var ctxErr error
	for i, p := range pendings {
		if ctxErr == nil {
			select {
			case <-p.Done():
			case <-ctx.Done():
				ctxErr = ctx.Err()
				s.Stop()
				<-p.Done()
			}
		} else {
			<-p.Done()
		}
		if p.Err() != nil {
			// Everything after a dropped move was dropped too.
			for _, rest := range pendings[i+1:] {
				<-rest.Done()
			}
			break
		}
		applied++

		s.mu.Lock()
		onMove := s.onMove
		s.mu.Unlock()
		if onMove != nil {
			onMove(MoveEvent{Move: p.Move, Kind: kind, Index: i, Remaining: len(moves) - applied})
		}
	}

	if applied == len(moves) {
		return applied, nil
	}
	if ctxErr != nil {
		return applied, ctxErr
	}
	s.mu.Lock()
	stopped := s.epoch != epoch
	s.mu.Unlock()
	if stopped {
		return applied, ErrStopped
	}
	return applied, ErrQueueDrained
}

// Stop cancels running shuffle and solve loops, drops queued moves and
// force-completes the rotation in flight, leaving the cube on the
// lattice. The shuffle list is kept consistent with the moves that were
// actually applied, so Solve still restores the cube.
func (s *Session) Stop() {
	s.mu.Lock()
	s.epoch++
	queue := s.queue
	s.mu.Unlock()

	dropped := queue.Drain()
	s.logger.Info("session stopped", "dropped", dropped)
}

// Reset stops the session and starts over with a fresh solved cube of the
// same size and empty move lists.
func (s *Session) Reset() error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.newCube(); err != nil {
		return err
	}
	s.shuffle = nil
	s.shuffleGen++
	s.solveQueue = nil
	s.guided = false
	s.logger.Info("session reset", "size", s.size)
	return nil
}
