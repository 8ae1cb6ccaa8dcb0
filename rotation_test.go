package cubetoe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRotateLayerPassesLayerToAnimator(t *testing.T) {
	c := newTestCube(t, 3)

	var gotLayer []Cubelet
	var gotAxis Axis
	var gotAngle Angle
	var gotDuration time.Duration
	anim := AnimatorFunc(func(layer []Cubelet, axis Axis, angle Angle, d time.Duration, done func()) {
		gotLayer, gotAxis, gotAngle, gotDuration = layer, axis, angle, d
		done()
	})

	e := NewEngine(c, anim, nil)
	m := Move{Axis: AxisZ, Slice: -1, Angle: Minus90}
	if err := e.RotateLayer(context.Background(), m, 250*time.Millisecond); err != nil {
		t.Fatalf("RotateLayer failed: %v", err)
	}

	if len(gotLayer) != 9 {
		t.Errorf("Expected 9 cubelets, got %d", len(gotLayer))
	}
	for _, cl := range gotLayer {
		if cl.Position.Z != -1 {
			t.Errorf("Animator got cubelet at %s", cl.Position)
		}
	}
	if gotAxis != AxisZ || gotAngle != Minus90 || gotDuration != 250*time.Millisecond {
		t.Errorf("Animator got axis=%s angle=%d duration=%v", gotAxis, gotAngle, gotDuration)
	}
}

func TestRotateLayerWaitsForAnimation(t *testing.T) {
	c := newTestCube(t, 3)

	release := make(chan struct{})
	started := make(chan struct{})
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
		close(started)
		go func() {
			<-release
			done()
		}()
	})

	e := NewEngine(c, anim, nil)
	result := make(chan error, 1)
	go func() {
		result <- e.RotateLayer(context.Background(), Move{Axis: AxisX, Slice: 1, Angle: Plus90}, time.Second)
	}()

	<-started
	select {
	case <-result:
		t.Fatal("RotateLayer returned before the animation finished")
	case <-time.After(20 * time.Millisecond):
	}
	if !c.IsSolved() {
		t.Error("Cube should be unchanged while the animation runs")
	}

	close(release)
	if err := <-result; err != nil {
		t.Fatalf("RotateLayer failed: %v", err)
	}
	if c.IsSolved() {
		t.Error("Cube should be turned after the animation finished")
	}
}

func TestRotateLayerIgnoresRepeatedDone(t *testing.T) {
	c := newTestCube(t, 2)
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
		done()
		done()
	})

	e := NewEngine(c, anim, nil)
	m := Move{Axis: AxisY, Slice: 0.5, Angle: Plus90}
	for i := 0; i < 4; i++ {
		if err := e.RotateLayer(context.Background(), m, 0); err != nil {
			t.Fatalf("RotateLayer failed: %v", err)
		}
	}
	if !c.IsSolved() {
		t.Error("Four turns should return to solved even when done fires twice")
	}
}

func TestRotateLayerForceCompletesOnCancel(t *testing.T) {
	c := newTestCube(t, 3)

	var late func()
	var mu sync.Mutex
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
		mu.Lock()
		late = done
		mu.Unlock()
	})

	e := NewEngine(c, anim, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	m := Move{Axis: AxisX, Slice: 0, Angle: Plus90}
	if err := e.RotateLayer(ctx, m, time.Hour); err != nil {
		t.Fatalf("Force-completed rotation should return nil, got %v", err)
	}

	// The turn was baked; a late completion must not affect anything.
	mu.Lock()
	late()
	mu.Unlock()

	applyMoves(t, c, m.Inverse())
	if !c.IsSolved() {
		t.Error("Force-completed turn should be exactly undone by its inverse")
	}
}

func TestRotateLayerRejectsInvalidMove(t *testing.T) {
	c := newTestCube(t, 3)
	called := false
	anim := AnimatorFunc(func(_ []Cubelet, _ Axis, _ Angle, _ time.Duration, done func()) {
		called = true
		done()
	})

	e := NewEngine(c, anim, nil)
	err := e.RotateLayer(context.Background(), Move{Axis: AxisX, Slice: 0.5, Angle: Plus90}, 0)
	if !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Expected ErrInvalidMove, got %v", err)
	}
	if called {
		t.Error("Animator should not run for an invalid move")
	}
}

func TestTimedAnimator(t *testing.T) {
	c := newTestCube(t, 2)
	e := NewEngine(c, TimedAnimator{}, nil)

	start := time.Now()
	if err := e.RotateLayer(context.Background(), Move{Axis: AxisZ, Slice: 0.5, Angle: Plus90}, 30*time.Millisecond); err != nil {
		t.Fatalf("RotateLayer failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Rotation finished after %v, expected at least 30ms", elapsed)
	}
}
