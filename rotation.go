package cubetoe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Animator is the rendering side of a rotation. AnimateLayer starts the
// visual turn of layer about axis by angle over duration and must call
// done exactly once when the animation finishes. Calls after the first are
// ignored. AnimateLayer must not block on done.
type Animator interface {
	AnimateLayer(layer []Cubelet, axis Axis, angle Angle, duration time.Duration, done func())
}

// AnimatorFunc adapts a function to the Animator interface.
type AnimatorFunc func(layer []Cubelet, axis Axis, angle Angle, duration time.Duration, done func())

// AnimateLayer calls f.
func (f AnimatorFunc) AnimateLayer(layer []Cubelet, axis Axis, angle Angle, duration time.Duration, done func()) {
	f(layer, axis, angle, duration, done)
}

// InstantAnimator completes every rotation immediately.
type InstantAnimator struct{}

// AnimateLayer calls done before returning.
func (InstantAnimator) AnimateLayer(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
	done()
}

// TimedAnimator completes each rotation after its duration elapses, with
// no visual output. Useful for headless runs that should keep real pacing.
type TimedAnimator struct{}

// AnimateLayer schedules done after duration.
func (TimedAnimator) AnimateLayer(_ []Cubelet, _ Axis, _ Angle, duration time.Duration, done func()) {
	time.AfterFunc(duration, done)
}

// Engine applies quarter-turns to a cube. It is the only writer of cubelet
// positions and orientations, and runs one rotation at a time.
type Engine struct {
	cube     *Cube
	animator Animator
	logger   *slog.Logger

	turn sync.Mutex // held for the whole of a rotation
}

// NewEngine creates a rotation engine for cube. A nil animator completes
// rotations instantly; a nil logger discards output.
func NewEngine(cube *Cube, animator Animator, logger *slog.Logger) *Engine {
	if animator == nil {
		animator = InstantAnimator{}
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Engine{cube: cube, animator: animator, logger: logger}
}

// Cube returns the cube the engine rotates.
func (e *Engine) Cube() *Cube {
	return e.cube
}

// RotateLayer turns the layer selected by move and blocks until the
// animator reports completion. The result is then baked into each
// cubelet and snapped to the lattice.
//
// There is no timeout: an animator that never calls done stalls the
// rotation. Cancelling ctx force-completes it instead: the turn is baked
// at once and a late done is ignored. Force-completion still returns nil,
// because the move has been applied.
func (e *Engine) RotateLayer(ctx context.Context, move Move, duration time.Duration) error {
	if err := move.Validate(e.cube.Size()); err != nil {
		return err
	}

	e.turn.Lock()
	defer e.turn.Unlock()

	e.cube.mu.RLock()
	layer := e.cube.layerLocked(move.Axis, move.Slice)
	view := make([]Cubelet, len(layer))
	for i, cl := range layer {
		view[i] = *cl
	}
	e.cube.mu.RUnlock()

	if len(layer) == 0 {
		return nil
	}

	finished := make(chan struct{})
	var once sync.Once
	e.animator.AnimateLayer(view, move.Axis, move.Angle, duration, func() {
		once.Do(func() { close(finished) })
	})

	select {
	case <-finished:
	case <-ctx.Done():
		once.Do(func() { close(finished) })
		e.logger.Debug("rotation force-completed", "move", move.Notation())
	}

	e.bake(layer, move)
	e.logger.Debug("rotation applied", "move", move.Notation(), "cubelets", len(layer))
	return nil
}

// bake applies the quarter-turn to each cubelet's position and orientation
// and snaps both back onto the lattice.
func (e *Engine) bake(layer []*Cubelet, move Move) {
	q := turnQuaternion(move.Axis, move.Angle)

	e.cube.mu.Lock()
	defer e.cube.mu.Unlock()

	for _, cl := range layer {
		cl.Position = snapVec(rotate(q, cl.Position))

		var o Orientation
		for j := 0; j < 3; j++ {
			o.setColumn(j, rotate(q, cl.Orientation.column(j)))
		}
		cl.Orientation = snapOrientation(o)
	}
}
