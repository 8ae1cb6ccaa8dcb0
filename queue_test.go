package cubetoe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// eventLog records animation starts and completions in order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func TestQueueRunsMovesInOrder(t *testing.T) {
	c := newTestCube(t, 3)
	log := &eventLog{}

	// Completion arrives on another goroutine, like a real render loop.
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
		log.add("start")
		go func() {
			time.Sleep(time.Millisecond)
			done()
		}()
	})

	q := NewQueue(NewEngine(c, anim, nil), 0, nil)
	q.OnComplete(func(m Move, err error) {
		log.add("done %s", m.Notation())
	})

	moves := MustParseMoves(t, "X1 Y0' Z-1 X1' Y0 Z-1'")
	var pendings []*Pending
	for _, m := range moves {
		pendings = append(pendings, q.Enqueue(m))
	}
	for _, p := range pendings {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("%s failed: %v", p.Move.Notation(), err)
		}
	}

	events := log.list()
	if len(events) != 2*len(moves) {
		t.Fatalf("Expected %d events, got %d: %v", 2*len(moves), len(events), events)
	}
	for i, m := range moves {
		if events[2*i] != "start" || events[2*i+1] != "done "+m.Notation() {
			t.Errorf("Event %d: got %q, %q for %s", i, events[2*i], events[2*i+1], m.Notation())
		}
	}

	ref := newTestCube(t, 3)
	applyMoves(t, ref, moves...)
	if !sameState(ref.Snapshot(), c.Snapshot()) {
		t.Error("Queued moves should match applying them directly")
	}
	if n := q.Len(); n != 0 {
		t.Errorf("Queue should be empty, len=%d", n)
	}
}

func TestQueueBuffersWhileBusy(t *testing.T) {
	c := newTestCube(t, 3)
	release := make(chan struct{})
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
		go func() {
			<-release
			done()
		}()
	})

	q := NewQueue(NewEngine(c, anim, nil), 0, nil)
	m := Move{Axis: AxisX, Slice: 0, Angle: Plus90}
	first := q.Enqueue(m)
	second := q.Enqueue(m)
	third := q.Enqueue(m)

	if n := q.Len(); n != 3 {
		t.Errorf("Expected 3 queued moves, got %d", n)
	}
	if !q.Busy() {
		t.Error("Queue should be busy")
	}

	close(release)
	for _, p := range []*Pending{first, second, third} {
		if err := p.Wait(context.Background()); err != nil {
			t.Errorf("Wait failed: %v", err)
		}
	}
}

func TestQueueDrain(t *testing.T) {
	c := newTestCube(t, 3)
	started := make(chan struct{}, 8)
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
		started <- struct{}{}
		// Never completes on its own.
	})

	q := NewQueue(NewEngine(c, anim, nil), 0, nil)
	m := Move{Axis: AxisY, Slice: 1, Angle: Plus90}
	first := q.Enqueue(m)
	second := q.Enqueue(m)
	third := q.Enqueue(m)

	<-started
	if dropped := q.Drain(); dropped != 2 {
		t.Errorf("Expected 2 dropped moves, got %d", dropped)
	}

	if err := first.Wait(context.Background()); err != nil {
		t.Errorf("In-flight move should be force-completed, got %v", err)
	}
	for _, p := range []*Pending{second, third} {
		if err := p.Wait(context.Background()); !errors.Is(err, ErrQueueDrained) {
			t.Errorf("Dropped move: expected ErrQueueDrained, got %v", err)
		}
	}

	// Exactly one turn was baked.
	applyMoves(t, c, m.Inverse())
	if !c.IsSolved() {
		t.Error("Only the in-flight move should have been applied")
	}
}

func TestQueueAcceptsMovesAfterDrain(t *testing.T) {
	c := newTestCube(t, 2)
	q := NewQueue(NewEngine(c, nil, nil), 0, nil)

	q.Drain()
	m := Move{Axis: AxisZ, Slice: -0.5, Angle: Minus90}
	var pendings []*Pending
	for i := 0; i < 4; i++ {
		pendings = append(pendings, q.Enqueue(m))
	}
	for _, p := range pendings {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if !c.IsSolved() {
		t.Error("Four queued turns should return to solved")
	}
}

func TestPendingWaitHonorsContext(t *testing.T) {
	c := newTestCube(t, 3)
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {})

	q := NewQueue(NewEngine(c, anim, nil), 0, nil)
	p := q.Enqueue(Move{Axis: AxisX, Slice: 1, Angle: Plus90})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
	if p.Err() != nil {
		t.Error("Err should be nil before the move finishes")
	}

	q.Drain()
	<-p.Done()
}
