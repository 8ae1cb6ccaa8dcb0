package cubetoe

import (
	"testing"
)

type fakeTokens struct {
	shown   []MarkEvent
	anchors []Vec3
	clears  int
}

func (f *fakeTokens) ShowToken(cell Cell, player Player, anchor Vec3) {
	f.shown = append(f.shown, MarkEvent{Cell: cell, Player: player})
	f.anchors = append(f.anchors, anchor)
}

func (f *fakeTokens) ClearTokens() {
	f.clears++
	f.shown = nil
	f.anchors = nil
}

func newTestOverlay(t *testing.T, size int) (*Overlay, *fakeTokens) {
	t.Helper()
	tokens := &fakeTokens{}
	o, err := NewOverlay(size, tokens, nil)
	if err != nil {
		t.Fatalf("NewOverlay(%d) failed: %v", size, err)
	}
	o.Enable()
	return o, tokens
}

// fillFace marks every cell of face for the current player.
func fillFace(t *testing.T, o *Overlay, face Face) {
	t.Helper()
	n := o.Size()
	half := float64(n-1) / 2
	for _, a := range LayerCoords(n) {
		for _, b := range LayerCoords(n) {
			var pos Vec3
			switch face {
			case FacePosX, FaceNegX:
				pos = V(face.Normal().X*half, a, b)
			case FacePosY, FaceNegY:
				pos = V(a, face.Normal().Y*half, b)
			default:
				pos = V(a, b, face.Normal().Z*half)
			}
			if !o.PlaceMark(Pick{Position: pos, Normal: face.Normal()}) {
				t.Fatalf("PlaceMark at %s on %s was rejected", pos, face)
			}
		}
	}
}

func TestGridCellTable(t *testing.T) {
	tests := []struct {
		face Face
		pos  Vec3
		row  int
		col  int
	}{
		{FacePosX, V(1, 1, -1), 2, 0},
		{FacePosX, V(1, -1, 1), 0, 2},
		{FaceNegX, V(-1, 1, -1), 0, 0},
		{FaceNegX, V(-1, -1, 1), 2, 2},
		{FacePosY, V(-1, 1, -1), 2, 0},
		{FacePosY, V(1, 1, 1), 0, 2},
		{FaceNegY, V(-1, -1, -1), 0, 0},
		{FaceNegY, V(1, -1, 1), 2, 2},
		{FacePosZ, V(1, -1, 1), 2, 2},
		{FacePosZ, V(-1, 1, 1), 0, 0},
		{FaceNegZ, V(1, -1, -1), 0, 0},
		{FaceNegZ, V(-1, 1, -1), 2, 2},
		{FaceNegZ, V(0, 0, -1), 1, 1},
	}

	for _, tt := range tests {
		cell, ok := GridCell(3, tt.face, tt.pos)
		if !ok {
			t.Errorf("GridCell(%s, %s) rejected", tt.face, tt.pos)
			continue
		}
		if cell.Row != tt.row || cell.Col != tt.col || cell.Face != tt.face {
			t.Errorf("GridCell(%s, %s) = %s, want [%d,%d]", tt.face, tt.pos, cell, tt.row, tt.col)
		}
	}
}

func TestGridCellEvenSize(t *testing.T) {
	cell, ok := GridCell(2, FacePosZ, V(-0.5, 0.5, 0.5))
	if !ok || cell.Row != 0 || cell.Col != 0 {
		t.Errorf("Expected +Z[0,0], got %s ok=%v", cell, ok)
	}
	cell, ok = GridCell(2, FacePosX, V(0.5, 0.5, 0.5))
	if !ok || cell.Row != 1 || cell.Col != 1 {
		t.Errorf("Expected +X[1,1], got %s ok=%v", cell, ok)
	}
}

func TestGridCellOutOfRange(t *testing.T) {
	if _, ok := GridCell(3, FacePosY, V(2, 1, 0)); ok {
		t.Error("Column outside the grid should be rejected")
	}
	if _, ok := GridCell(3, FacePosZ, V(0, -2, 1)); ok {
		t.Error("Row outside the grid should be rejected")
	}
	if _, ok := GridCell(3, Face(9), V(0, 0, 0)); ok {
		t.Error("Unknown face should be rejected")
	}
}

func TestPlaceMarkUsesFaceTable(t *testing.T) {
	o, _ := newTestOverlay(t, 3)

	if !o.PlaceMark(Pick{Position: V(0, 1, 0), Normal: V(0, 1, 0)}) {
		t.Fatal("PlaceMark on top face rejected")
	}
	if o.MarkAt(Cell{Face: 2, Row: 1, Col: 1}) != PlayerX {
		t.Error("Normal (0,1,0) should mark face 2")
	}

	if !o.PlaceMark(Pick{Position: V(0, 0, -1), Normal: V(0.01, -0.02, -0.99)}) {
		t.Fatal("PlaceMark on back face rejected")
	}
	if o.MarkAt(Cell{Face: 5, Row: 1, Col: 1}) != PlayerX {
		t.Error("Normal (0,0,-1) should mark face 5")
	}
}

func TestPlaceMarkNotifiesOnce(t *testing.T) {
	o, tokens := newTestOverlay(t, 3)

	var events []MarkEvent
	o.OnMarkPlaced(func(e MarkEvent) {
		events = append(events, e)
	})

	pick := Pick{Position: V(1, 0, 1), Normal: V(1, 0, 0)}
	if !o.PlaceMark(pick) {
		t.Fatal("First pick should be recorded")
	}
	if o.PlaceMark(pick) {
		t.Error("Repeat pick should be ignored")
	}

	if len(events) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(events))
	}
	want := MarkEvent{Cell: Cell{Face: FacePosX, Row: 1, Col: 2}, Player: PlayerX}
	if events[0] != want {
		t.Errorf("Got %+v, want %+v", events[0], want)
	}

	if len(tokens.shown) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens.shown))
	}
	if !tokens.anchors[0].Equal(V(1.51, 0, 1), 1e-9) {
		t.Errorf("Token anchor %s, want (1.51,0,1)", tokens.anchors[0])
	}
	if a, ok := o.Anchor(want.Cell); !ok || a != tokens.anchors[0] {
		t.Errorf("Anchor() = %s, %v", a, ok)
	}
}

func TestPlaceMarkIgnoresInvalidPicks(t *testing.T) {
	o, tokens := newTestOverlay(t, 3)
	called := 0
	o.OnMarkPlaced(func(MarkEvent) { called++ })

	picks := []Pick{
		{Position: V(1, 1, 1), Normal: V(0.7, 0.7, 0)},
		{Position: V(1, 1, 1), Normal: V(0, 0, 0)},
		{Position: V(3, 1, 1), Normal: V(0, 1, 0)},
	}
	for _, p := range picks {
		if o.PlaceMark(p) {
			t.Errorf("Pick %+v should be ignored", p)
		}
	}
	if called != 0 || len(tokens.shown) != 0 {
		t.Error("Ignored picks must not notify or draw")
	}
}

func TestPlaceMarkIgnoredWhenIdle(t *testing.T) {
	o, err := NewOverlay(3, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	pick := Pick{Position: V(0, 0, 1), Normal: V(0, 0, 1)}
	if o.PlaceMark(pick) {
		t.Error("Idle overlay should ignore picks")
	}

	o.Enable()
	if !o.PlaceMark(pick) {
		t.Error("Enabled overlay should accept picks")
	}

	o.Disable()
	if o.Phase() != PhaseIdle {
		t.Errorf("Expected idle after Disable, got %s", o.Phase())
	}
}

func TestPlaceMarkDoesNotAlternate(t *testing.T) {
	o, _ := newTestOverlay(t, 3)
	o.PlaceMark(Pick{Position: V(0, 0, 1), Normal: V(0, 0, 1)})
	o.PlaceMark(Pick{Position: V(1, 0, 1), Normal: V(0, 0, 1)})
	if o.Current() != PlayerX {
		t.Error("PlaceMark must not change the current player")
	}

	o.EvaluateRound()
	if o.Current() != PlayerO {
		t.Error("EvaluateRound should pass the turn to O")
	}
	if o.Phase() != PhaseRoundEvaluated {
		t.Errorf("Expected round_evaluated, got %s", o.Phase())
	}

	o.PlaceMark(Pick{Position: V(-1, 0, 1), Normal: V(0, 0, 1)})
	if got := o.MarkAt(Cell{Face: FacePosZ, Row: 1, Col: 0}); got != PlayerO {
		t.Errorf("Expected O's mark, got %s", got)
	}
	if o.Phase() != PhaseActive {
		t.Errorf("Expected active after a pick, got %s", o.Phase())
	}
}

func TestFullFaceScoresAllLines(t *testing.T) {
	for size := 1; size <= 4; size++ {
		o, _ := newTestOverlay(t, size)
		fillFace(t, o, FacePosZ)

		lines := o.EvaluateRound()
		if want := 2*size + 2; lines.X != want || lines.O != 0 {
			t.Errorf("size %d: expected %d lines for X, got %+v", size, want, lines)
		}
	}
}

func TestEvaluateRoundCountsAgain(t *testing.T) {
	o, _ := newTestOverlay(t, 3)
	fillFace(t, o, FaceNegX)

	first := o.EvaluateRound()
	second := o.EvaluateRound()
	if first.X != 8 || second.X != 8 {
		t.Errorf("Expected 8 lines each round, got %d then %d", first.X, second.X)
	}
	if s := o.Scores(); s.X != 16 || s.O != 0 {
		t.Errorf("Expected scores X=16 O=0, got %+v", s)
	}
	if o.Current() != PlayerX {
		t.Error("Two rounds should hand the turn back to X")
	}
}

func TestRowAndDiagonalLines(t *testing.T) {
	o, _ := newTestOverlay(t, 3)

	// Top row of +Z for X: y=1, x=-1..1.
	for _, x := range []float64{-1, 0, 1} {
		o.PlaceMark(Pick{Position: V(x, 1, 1), Normal: V(0, 0, 1)})
	}
	o.EvaluateRound()

	// Diagonal of +Y for O: rows top to bottom follow z, columns follow x.
	for _, d := range []float64{-1, 0, 1} {
		o.PlaceMark(Pick{Position: V(d, 1, d), Normal: V(0, 1, 0)})
	}
	lines := o.CountLines()
	if lines.X != 1 || lines.O != 1 {
		t.Errorf("Expected one line each, got %+v", lines)
	}
}

func TestOverlayFinishes(t *testing.T) {
	o, _ := newTestOverlay(t, 1)
	for f := Face(0); f < NumFaces; f++ {
		fillFace(t, o, f)
		if f < NumFaces-1 && o.IsFull() {
			t.Fatalf("Overlay full after %d faces", f+1)
		}
	}
	if !o.IsFull() {
		t.Fatal("Overlay should be full")
	}

	lines := o.EvaluateRound()
	if lines.X != 24 {
		t.Errorf("Expected 24 lines on six 1x1 faces, got %d", lines.X)
	}
	if o.Phase() != PhaseFinished || !o.Phase().IsComplete() {
		t.Errorf("Expected finished, got %s", o.Phase())
	}

	if o.PlaceMark(Pick{Position: V(0, 0, 0), Normal: V(1, 0, 0)}) {
		t.Error("Finished overlay should ignore picks")
	}
	if again := o.EvaluateRound(); again != (LineCount{}) {
		t.Errorf("Finished overlay should not score, got %+v", again)
	}
	o.Disable()
	if o.Phase() != PhaseFinished {
		t.Error("Disable should not leave the finished phase")
	}
}

func TestClearAll(t *testing.T) {
	o, tokens := newTestOverlay(t, 2)
	fillFace(t, o, FacePosY)
	o.EvaluateRound()

	o.ClearAll()
	if tokens.clears != 1 || len(tokens.shown) != 0 {
		t.Error("ClearAll should remove every token")
	}
	if s := o.Scores(); s != (LineCount{}) {
		t.Errorf("Scores should be zero, got %+v", s)
	}
	if o.Current() != PlayerX {
		t.Error("Current player should reset to X")
	}
	for f := Face(0); f < NumFaces; f++ {
		for _, row := range o.Grid(f) {
			for _, p := range row {
				if p != Empty {
					t.Fatalf("Face %s not cleared", f)
				}
			}
		}
	}
	if o.Phase() != PhaseActive {
		t.Errorf("Expected active after ClearAll, got %s", o.Phase())
	}
}
