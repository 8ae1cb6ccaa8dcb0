package cubetoe

import (
	"fmt"
	"math"

	"github.com/westphae/quaternion"
)

// Axis names one of the three spatial axes of the lattice.
type Axis byte

const (
	AxisX Axis = 'x'
	AxisY Axis = 'y'
	AxisZ Axis = 'z'
)

// Axes lists the three axes in index order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// String returns the lowercase axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX, AxisY, AxisZ:
		return string(rune(a))
	default:
		return "?"
	}
}

// Index returns 0, 1 or 2 for x, y and z, and -1 for an unknown axis.
func (a Axis) Index() int {
	switch a {
	case AxisX:
		return 0
	case AxisY:
		return 1
	case AxisZ:
		return 2
	default:
		return -1
	}
}

// Valid reports whether a is one of x, y or z.
func (a Axis) Valid() bool {
	return a.Index() >= 0
}

// ParseAxis parses "x", "y" or "z" (either case).
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	default:
		return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidNotation, s)
	}
}

// Vec3 is a point or direction in lattice space.
type Vec3 quaternion.Vec3

// V returns the vector (x, y, z).
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Get returns the component of v along axis.
func (v Vec3) Get(axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return math.NaN()
	}
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Equal reports whether every component of v and w differs by at most tol.
func (v Vec3) Equal(w Vec3, tol float64) bool {
	return math.Abs(v.X-w.X) <= tol &&
		math.Abs(v.Y-w.Y) <= tol &&
		math.Abs(v.Z-w.Z) <= tol
}

// String formats the vector compactly, e.g. (1,-0.5,0).
func (v Vec3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// Angle is a rotation in degrees.
type Angle int

const (
	Plus90  Angle = 90  // Quarter-turn, positive sense
	Minus90 Angle = -90 // Quarter-turn, negative sense
)

// Valid reports whether the angle is a quarter-turn.
func (a Angle) Valid() bool {
	return a == Plus90 || a == Minus90
}

// Negate returns the opposite angle.
func (a Angle) Negate() Angle {
	return -a
}

// Radians converts the angle to radians.
func (a Angle) Radians() float64 {
	return float64(a) * math.Pi / 180
}

// turnQuaternion builds the rotation of angle about axis, following the
// FromEuler convention (roll about x, pitch about y, yaw about z).
func turnQuaternion(axis Axis, angle Angle) quaternion.Quaternion {
	r := angle.Radians()
	switch axis {
	case AxisX:
		return quaternion.FromEuler(r, 0, 0)
	case AxisY:
		return quaternion.FromEuler(0, r, 0)
	default:
		return quaternion.FromEuler(0, 0, r)
	}
}

// rotate applies q to v.
func rotate(q quaternion.Quaternion, v Vec3) Vec3 {
	return Vec3(q.RotateVec3(quaternion.Vec3(v)))
}
