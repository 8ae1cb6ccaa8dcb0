package analysis

import (
	"testing"

	"github.com/SeamusWaldron/cubetoe"
)

func mustParse(t *testing.T, s string) []cubetoe.Move {
	t.Helper()
	moves, err := cubetoe.ParseMoves(s)
	if err != nil {
		t.Fatalf("ParseMoves(%q): %v", s, err)
	}
	return moves
}

func TestSummarize(t *testing.T) {
	s := Summarize(mustParse(t, "X1 X1' Y0 Y0 Y0 Z-1'"))

	if s.TotalMoves != 6 {
		t.Errorf("Expected 6 moves, got %d", s.TotalMoves)
	}
	if s.AxisCounts["x"] != 2 || s.AxisCounts["y"] != 3 || s.AxisCounts["z"] != 1 {
		t.Errorf("Unexpected axis counts %v", s.AxisCounts)
	}
	if s.PlusTurns != 4 || s.MinusTurns != 2 {
		t.Errorf("Expected 4 plus and 2 minus, got %d and %d", s.PlusTurns, s.MinusTurns)
	}
	if s.Cancellations != 1 {
		t.Errorf("Expected 1 cancellation, got %d", s.Cancellations)
	}
	if s.MostUsedAxis != "y" {
		t.Errorf("Expected most used axis y, got %q", s.MostUsedAxis)
	}

	want := []LayerTurns{
		{Axis: "x", Slice: 1, Moves: 2, Net: 0},
		{Axis: "y", Slice: 0, Moves: 3, Net: -1},
		{Axis: "z", Slice: -1, Moves: 1, Net: -1},
	}
	if len(s.Layers) != len(want) {
		t.Fatalf("Expected %d layers, got %+v", len(want), s.Layers)
	}
	for i, w := range want {
		if s.Layers[i] != w {
			t.Errorf("Layer %d = %+v, want %+v", i, s.Layers[i], w)
		}
	}
	if s.NetZero() {
		t.Error("Sequence should not be net zero")
	}
}

func TestSummarizeShuffleAndSolveIsNetZero(t *testing.T) {
	shuffle := mustParse(t, "X1 Y0' Z-1 X0 X0")
	all := append(append([]cubetoe.Move{}, shuffle...), cubetoe.InvertMoves(shuffle)...)

	s := Summarize(all)
	if !s.NetZero() {
		t.Errorf("Shuffle followed by its inverse should be net zero: %+v", s.Layers)
	}
	// Only the join between the two halves cancels directly.
	if s.Cancellations != 1 {
		t.Errorf("Expected 1 cancellation, got %d", s.Cancellations)
	}
	if s.Simplified != 0 {
		t.Errorf("Expected the sequence to simplify away, %d moves left", s.Simplified)
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"X1 X1'", ""},
		{"X1 X1 X1", "X1'"},
		{"Y0' Y0'", "Y0 Y0"},
		{"X1 Y0 Y0' X1'", ""},
		{"X1 X0 X1", "X1 X0 X1"},
		{"Z-1 Z-1 Z-1 Z-1 X0", "X0"},
	}
	for _, tt := range tests {
		got := cubetoe.FormatMoves(Simplify(mustParse(t, tt.in)))
		if got != tt.want {
			t.Errorf("Simplify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReduceQuarterTurns(t *testing.T) {
	tests := map[int]int{0: 0, 1: 1, 2: 2, 3: -1, 4: 0, -1: -1, -2: 2, -3: 1, 7: -1}
	for in, want := range tests {
		if got := reduceQuarterTurns(in); got != want {
			t.Errorf("reduceQuarterTurns(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestMineNGrams(t *testing.T) {
	moves := mustParse(t, "X1 Y0' X1 Y0' Z0 X1 Y0'")
	report := MineNGrams(moves, 2, 3, 5)

	pairs := report.TopNGrams[2]
	if len(pairs) == 0 {
		t.Fatal("Expected repeated pairs")
	}
	top := pairs[0]
	if top.Count != 3 || top.Sequence[0] != "X1" || top.Sequence[1] != "Y0'" {
		t.Errorf("Unexpected top pair %+v", top)
	}
	if len(top.Starts) != 3 || top.Starts[0] != 0 || top.Starts[1] != 2 || top.Starts[2] != 5 {
		t.Errorf("Unexpected starts %v", top.Starts)
	}

	if len(pairs) != 1 {
		t.Errorf("Expected one repeated pair, got %+v", pairs)
	}
	if triples, ok := report.TopNGrams[3]; ok {
		t.Errorf("Expected no repeated triples, got %+v", triples)
	}
}

func TestMineNGramsTooShort(t *testing.T) {
	report := MineNGrams(mustParse(t, "X0"), 2, 4, 5)
	if len(report.TopNGrams) != 0 {
		t.Errorf("Expected no n-grams, got %v", report.TopNGrams)
	}
}
