// Package cubetoe provides an N x N x N twisty-puzzle core with animated
// layer rotations, scramble and solve sessions, and a tic-tac-toe game
// played on the puzzle's six faces.
//
// # Features
//
//   - Lattice model for any size N >= 1, with half-integer coordinates
//     for even sizes
//   - Quarter-turn rotation engine that snaps cubelets back onto the
//     lattice after every move
//   - Single-worker move queue with per-move futures
//   - Shuffle, solve and step-by-step guided solve
//   - Face overlay game with line scoring
//
// # Quick Start
//
// Shuffle and solve a 3x3x3:
//
//	s, err := cubetoe.NewSession(3, cubetoe.WithSeed(7))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s.OnMove(func(e cubetoe.MoveEvent) {
//	    fmt.Println(e.Kind, e.Move.Notation())
//	})
//
//	ctx := context.Background()
//	_ = s.Shuffle(ctx, 20)
//	_ = s.Solve(ctx)
//	fmt.Println("Solved:", s.Cube().IsSolved())
//
// # Rendering
//
// Rotations are animated by an Animator supplied with WithAnimator. The
// engine hands it a snapshot of the layer and waits for its completion
// callback before baking the turn into the cubelets:
//
//	anim := cubetoe.AnimatorFunc(func(layer []cubetoe.Cubelet, axis cubetoe.Axis,
//	    angle cubetoe.Angle, d time.Duration, done func()) {
//	    time.AfterFunc(d, done)
//	})
//	s, _ := cubetoe.NewSession(4, cubetoe.WithAnimator(anim))
//
// # Move Notation
//
// A move is written as the axis letter, the layer coordinate and an
// optional apostrophe for a -90 degree turn:
//
//	X0     // middle x layer, +90
//	Y-1'   // bottom y layer of a 3x3x3, -90
//	Z0.5   // upper z layer of a 2x2x2, +90
//
// # Face Overlay Game
//
// Faces are numbered +X, -X, +Y, -Y, +Z, -Z (0 to 5). Picks are resolved
// to a face cell, the current player's mark is recorded, and
// EvaluateRound scores complete rows, columns and diagonals:
//
//	o, _ := cubetoe.NewOverlay(3, nil, nil)
//	o.Enable()
//	o.PlaceMark(cubetoe.Pick{Position: cubetoe.V(1, 1, 1), Normal: cubetoe.V(0, 1, 0)})
//	lines := o.EvaluateRound()
package cubetoe
