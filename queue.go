package cubetoe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pending is the future for one queued move.
type Pending struct {
	Move Move

	done chan struct{}
	err  error
}

func newPending(m Move) *Pending {
	return &Pending{Move: m, done: make(chan struct{})}
}

// Done is closed once the move has been applied or dropped.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err reports the outcome after Done is closed: nil when the move was
// applied, ErrQueueDrained when it was dropped before it ran.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the move completes or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pending) finish(err error) {
	p.err = err
	close(p.done)
}

// Queue serializes rotation requests. Moves run in FIFO order on a single
// worker, so exactly one rotation is ever in flight.
type Queue struct {
	engine   *Engine
	duration time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	pending    []*Pending
	busy       bool
	inflight   *Pending
	cancel     context.CancelFunc
	gen        uint64
	workerDone chan struct{}
	onComplete func(Move, error)
}

// NewQueue creates a queue that runs moves on engine, animating each for
// duration.
func NewQueue(engine *Engine, duration time.Duration, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = discardLogger()
	}
	return &Queue{engine: engine, duration: duration, logger: logger}
}

// OnComplete registers a hook that runs after each move is applied and
// before the next one starts.
func (q *Queue) OnComplete(fn func(Move, error)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onComplete = fn
}

// Enqueue appends a move. If the queue is idle, processing starts
// immediately. Enqueueing while busy buffers the move.
func (q *Queue) Enqueue(m Move) *Pending {
	p := newPending(m)

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, p)
	if !q.busy {
		q.busy = true
		prev := q.workerDone
		done := make(chan struct{})
		q.workerDone = done
		go q.run(q.gen, prev, done)
	}
	return p
}

// run drains the queue for one generation. A worker started after Drain
// waits for the previous worker to exit so ordering holds across drains.
func (q *Queue) run(gen uint64, prev <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	if prev != nil {
		<-prev
	}

	for {
		q.mu.Lock()
		if q.gen != gen {
			q.mu.Unlock()
			return
		}
		if len(q.pending) == 0 {
			q.busy = false
			q.mu.Unlock()
			return
		}
		p := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]

		ctx, cancel := context.WithCancel(context.Background())
		q.inflight = p
		q.cancel = cancel
		onComplete := q.onComplete
		q.mu.Unlock()

		err := q.engine.RotateLayer(ctx, p.Move, q.duration)
		cancel()
		if err != nil {
			q.logger.Warn("move failed", "move", p.Move.Notation(), "error", err)
		}

		q.mu.Lock()
		if q.inflight == p {
			q.inflight = nil
			q.cancel = nil
		}
		q.mu.Unlock()

		if onComplete != nil {
			onComplete(p.Move, err)
		}
		p.finish(err)
	}
}

// Drain drops every move that has not started and resets the busy flag.
// The in-flight rotation, if any, is force-completed rather than awaited.
// Dropped futures fail with ErrQueueDrained. Drain returns the number of
// moves dropped.
func (q *Queue) Drain() int {
	q.mu.Lock()
	dropped := q.pending
	q.pending = nil
	q.gen++
	q.busy = false
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()

	for _, p := range dropped {
		p.finish(ErrQueueDrained)
	}
	if len(dropped) > 0 {
		q.logger.Debug("queue drained", "dropped", len(dropped))
	}
	return len(dropped)
}

// Len returns the number of moves waiting or in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.pending)
	if q.inflight != nil {
		n++
	}
	return n
}

// Busy reports whether a worker is processing moves.
func (q *Queue) Busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.busy
}
