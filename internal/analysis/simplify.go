package analysis

import "github.com/SeamusWaldron/cubetoe"

type layerRun struct {
	axis  cubetoe.Axis
	slice float64
	net   int
}

// Simplify merges adjacent turns of the same layer and drops runs that
// cancel out. A net half turn is kept as two quarter-turns. Merging can
// expose a new adjacent pair, so a shuffle followed by its inverse
// simplifies to nothing.
func Simplify(moves []cubetoe.Move) []cubetoe.Move {
	var stack []layerRun
	for _, m := range moves {
		q := 1
		if m.Angle == cubetoe.Minus90 {
			q = -1
		}

		if n := len(stack); n > 0 && stack[n-1].axis == m.Axis && stack[n-1].slice == m.Slice {
			stack[n-1].net = reduceQuarterTurns(stack[n-1].net + q)
			if stack[n-1].net == 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, layerRun{axis: m.Axis, slice: m.Slice, net: q})
	}

	out := make([]cubetoe.Move, 0, len(stack))
	for _, r := range stack {
		m := cubetoe.Move{Axis: r.axis, Slice: r.slice, Angle: cubetoe.Plus90}
		switch r.net {
		case -1:
			m.Angle = cubetoe.Minus90
			out = append(out, m)
		case 2:
			out = append(out, m, m)
		default:
			out = append(out, m)
		}
	}
	return out
}
