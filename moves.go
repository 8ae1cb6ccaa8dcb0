package cubetoe

// LayerCoords returns the slice coordinates of a cube of the given size,
// from -offset to +offset in unit steps.
//
//	LayerCoords(3) // [-1 0 1]
//	LayerCoords(2) // [-0.5 0.5]
func LayerCoords(size int) []float64 {
	if size < 1 {
		return nil
	}
	offset := float64(size-1) / 2
	coords := make([]float64, size)
	for i := range coords {
		coords[i] = float64(i) - offset
	}
	return coords
}

// AllMoves enumerates every quarter-turn available on a cube of the given
// size: each axis, each layer, both directions.
func AllMoves(size int) []Move {
	coords := LayerCoords(size)
	moves := make([]Move, 0, len(Axes)*len(coords)*2)
	for _, axis := range Axes {
		for _, slice := range coords {
			moves = append(moves,
				Move{Axis: axis, Slice: slice, Angle: Plus90},
				Move{Axis: axis, Slice: slice, Angle: Minus90},
			)
		}
	}
	return moves
}
