// Package analysis computes statistics over recorded move sequences.
package analysis

import (
	"sort"

	"github.com/SeamusWaldron/cubetoe"
)

// Summary contains statistics for one move sequence.
type Summary struct {
	TotalMoves    int            `json:"total_moves"`
	AxisCounts    map[string]int `json:"axis_counts"`
	PlusTurns     int            `json:"plus_turns"`
	MinusTurns    int            `json:"minus_turns"`
	Cancellations int            `json:"cancellations"` // a move directly followed by its inverse
	Simplified    int            `json:"simplified_moves"`
	Layers        []LayerTurns   `json:"layers"`
	MostUsedAxis  string         `json:"most_used_axis,omitempty"`
}

// LayerTurns is the net rotation of one layer over a sequence.
type LayerTurns struct {
	Axis  string  `json:"axis"`
	Slice float64 `json:"slice"`
	Moves int     `json:"moves"`
	Net   int     `json:"net"` // quarter-turns, reduced to -1..2
}

type layerKey struct {
	axis  cubetoe.Axis
	slice float64
}

// Summarize computes a Summary for moves.
func Summarize(moves []cubetoe.Move) *Summary {
	s := &Summary{
		TotalMoves: len(moves),
		AxisCounts: make(map[string]int),
	}

	raw := make(map[layerKey]*LayerTurns)
	for i, m := range moves {
		s.AxisCounts[m.Axis.String()]++

		quarter := 1
		if m.Angle == cubetoe.Minus90 {
			quarter = -1
			s.MinusTurns++
		} else {
			s.PlusTurns++
		}

		if i > 0 && moves[i-1].Inverse() == m {
			s.Cancellations++
		}

		k := layerKey{m.Axis, m.Slice}
		lt, ok := raw[k]
		if !ok {
			lt = &LayerTurns{Axis: m.Axis.String(), Slice: m.Slice}
			raw[k] = lt
		}
		lt.Moves++
		lt.Net += quarter
	}

	for _, lt := range raw {
		lt.Net = reduceQuarterTurns(lt.Net)
		s.Layers = append(s.Layers, *lt)
	}
	sort.Slice(s.Layers, func(i, j int) bool {
		if s.Layers[i].Axis != s.Layers[j].Axis {
			return s.Layers[i].Axis < s.Layers[j].Axis
		}
		return s.Layers[i].Slice < s.Layers[j].Slice
	})

	s.Simplified = len(Simplify(moves))

	maxCount := 0
	for _, a := range cubetoe.Axes {
		if c := s.AxisCounts[a.String()]; c > maxCount {
			maxCount = c
			s.MostUsedAxis = a.String()
		}
	}

	return s
}

// NetZero reports whether every layer ends where it started.
func (s *Summary) NetZero() bool {
	for _, lt := range s.Layers {
		if lt.Net != 0 {
			return false
		}
	}
	return true
}

// reduceQuarterTurns maps n quarter-turns onto -1, 0, 1 or 2.
func reduceQuarterTurns(n int) int {
	n %= 4
	if n < 0 {
		n += 4
	}
	if n == 3 {
		return -1
	}
	return n
}
