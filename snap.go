package cubetoe

import "math"

// snapTolerance bounds how far a snapped value may sit from the lattice.
const snapTolerance = 1e-4

// latticeKey maps a coordinate to an integer by doubling and rounding, so
// both integer and half-integer lattices compare exactly.
func latticeKey(v float64) int {
	return int(math.Round(v * 2))
}

// SnapCoord rounds a coordinate to the nearest multiple of 0.5.
func SnapCoord(v float64) float64 {
	return dropNegZero(math.Round(v*2) / 2)
}

// SnapAngle rounds an angle in degrees to the nearest multiple of 90.
func SnapAngle(deg float64) float64 {
	return dropNegZero(math.Round(deg/90) * 90)
}

func snapVec(v Vec3) Vec3 {
	return Vec3{X: SnapCoord(v.X), Y: SnapCoord(v.Y), Z: SnapCoord(v.Z)}
}

// snapOrientation rounds every matrix entry to -1, 0 or 1. A quarter-turn
// composition is a signed permutation, so rounding removes drift without
// changing the rotation.
func snapOrientation(o Orientation) Orientation {
	var s Orientation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s[i][j] = dropNegZero(math.Round(o[i][j]))
		}
	}
	return s
}

// dropNegZero turns -0 into 0 so formatting and == comparisons are stable.
func dropNegZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
