package cubetoe

import (
	"errors"
	"testing"
)

func TestMoveNotation(t *testing.T) {
	tests := []struct {
		move Move
		want string
	}{
		{Move{Axis: AxisX, Slice: 0, Angle: Plus90}, "X0"},
		{Move{Axis: AxisX, Slice: 0, Angle: Minus90}, "X0'"},
		{Move{Axis: AxisY, Slice: -1, Angle: Plus90}, "Y-1"},
		{Move{Axis: AxisZ, Slice: 0.5, Angle: Minus90}, "Z0.5'"},
		{Move{Axis: AxisZ, Slice: -1.5, Angle: Plus90}, "Z-1.5"},
	}

	for _, tt := range tests {
		if got := tt.move.Notation(); got != tt.want {
			t.Errorf("Notation() = %q, want %q", got, tt.want)
		}
		parsed, err := ParseMove(tt.want)
		if err != nil {
			t.Errorf("ParseMove(%q) failed: %v", tt.want, err)
			continue
		}
		if parsed != tt.move {
			t.Errorf("ParseMove(%q) = %+v, want %+v", tt.want, parsed, tt.move)
		}
	}
}

func TestParseMoveVariants(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"x1", Move{Axis: AxisX, Slice: 1, Angle: Plus90}},
		{"  y0`", Move{Axis: AxisY, Slice: 0, Angle: Minus90}},
		{"Z+0.5", Move{Axis: AxisZ, Slice: 0.5, Angle: Plus90}},
	}
	for _, tt := range tests {
		got, err := ParseMove(tt.in)
		if err != nil {
			t.Errorf("ParseMove(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMove(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseMoveErrors(t *testing.T) {
	for _, in := range []string{"", "X", "W0", "X'", "Xa", "X0.3", "X1''"} {
		if _, err := ParseMove(in); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("ParseMove(%q): expected ErrInvalidNotation, got %v", in, err)
		}
	}
}

func TestParseMovesStopsAtFirstError(t *testing.T) {
	moves, err := ParseMoves("X0 Y1' Q2 Z0")
	if err == nil {
		t.Fatal("Expected error")
	}
	if moves != nil {
		t.Errorf("Expected no moves on error, got %v", moves)
	}

	moves, err = ParseMoves("X0 Y1'   Z-1")
	if err != nil {
		t.Fatalf("ParseMoves failed: %v", err)
	}
	if got := FormatMoves(moves); got != "X0 Y1' Z-1" {
		t.Errorf("FormatMoves = %q", got)
	}
}

func TestInvertMoves(t *testing.T) {
	moves := MustParseMoves(t, "X0 Y1' Z-1")
	inv := InvertMoves(moves)
	if got := FormatMoves(inv); got != "Z-1' Y1 X0'" {
		t.Errorf("InvertMoves = %q, want %q", got, "Z-1' Y1 X0'")
	}
	if len(InvertMoves(nil)) != 0 {
		t.Error("InvertMoves(nil) should be empty")
	}
}

func TestMoveValidate(t *testing.T) {
	tests := []struct {
		move Move
		size int
		ok   bool
	}{
		{Move{Axis: AxisX, Slice: 0, Angle: Plus90}, 3, true},
		{Move{Axis: AxisX, Slice: 1, Angle: Minus90}, 3, true},
		{Move{Axis: AxisX, Slice: 0.5, Angle: Plus90}, 3, false},
		{Move{Axis: AxisX, Slice: 2, Angle: Plus90}, 3, false},
		{Move{Axis: AxisY, Slice: 0.5, Angle: Plus90}, 2, true},
		{Move{Axis: AxisY, Slice: 0, Angle: Plus90}, 2, false},
		{Move{Axis: AxisZ, Slice: 0, Angle: Plus90}, 1, true},
		{Move{Axis: AxisZ, Slice: 0, Angle: 180}, 3, false},
		{Move{Axis: 'q', Slice: 0, Angle: Plus90}, 3, false},
	}

	for _, tt := range tests {
		err := tt.move.Validate(tt.size)
		if tt.ok && err != nil {
			t.Errorf("%+v on size %d: unexpected error %v", tt.move, tt.size, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidMove) {
			t.Errorf("%+v on size %d: expected ErrInvalidMove, got %v", tt.move, tt.size, err)
		}
	}
}

func TestAllMoves(t *testing.T) {
	for size := 1; size <= 4; size++ {
		moves := AllMoves(size)
		if len(moves) != 6*size {
			t.Errorf("size %d: expected %d moves, got %d", size, 6*size, len(moves))
		}
		for _, m := range moves {
			if err := m.Validate(size); err != nil {
				t.Errorf("size %d: %s invalid: %v", size, m.Notation(), err)
			}
		}
	}
}
