package cubetoe

import (
	"math"
	"sync"
)

// Face indexes the six outer faces of the cube.
// The order matches the overlay grids: +X, -X, +Y, -Y, +Z, -Z.
type Face int

const (
	FacePosX Face = 0 // Right
	FaceNegX Face = 1 // Left
	FacePosY Face = 2 // Top
	FaceNegY Face = 3 // Bottom
	FacePosZ Face = 4 // Front
	FaceNegZ Face = 5 // Back
)

// NumFaces is the number of outer faces.
const NumFaces = 6

func (f Face) String() string {
	switch f {
	case FacePosX:
		return "+X"
	case FaceNegX:
		return "-X"
	case FacePosY:
		return "+Y"
	case FaceNegY:
		return "-Y"
	case FacePosZ:
		return "+Z"
	case FaceNegZ:
		return "-Z"
	default:
		return "?"
	}
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() Vec3 {
	switch f {
	case FacePosX:
		return V(1, 0, 0)
	case FaceNegX:
		return V(-1, 0, 0)
	case FacePosY:
		return V(0, 1, 0)
	case FaceNegY:
		return V(0, -1, 0)
	case FacePosZ:
		return V(0, 0, 1)
	case FaceNegZ:
		return V(0, 0, -1)
	default:
		return Vec3{}
	}
}

// Color represents a sticker color.
type Color byte

const (
	Red    Color = 0 // +X when solved
	Green  Color = 1 // -X when solved
	Blue   Color = 2 // +Y when solved
	Yellow Color = 3 // -Y when solved
	Orange Color = 4 // +Z when solved
	White  Color = 5 // -Z when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// SolvedColor returns the color a face shows when the cube is solved.
func (f Face) SolvedColor() Color {
	return Color(f)
}

// Orientation is a cubelet's rotation as a 3x3 matrix whose columns are
// the images of the x, y and z unit vectors. After snapping every entry is
// -1, 0 or 1.
type Orientation [3][3]float64

// Identity is the orientation of an unrotated cubelet.
var Identity = Orientation{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Apply rotates v by the orientation.
func (o Orientation) Apply(v Vec3) Vec3 {
	return Vec3{
		X: o[0][0]*v.X + o[0][1]*v.Y + o[0][2]*v.Z,
		Y: o[1][0]*v.X + o[1][1]*v.Y + o[1][2]*v.Z,
		Z: o[2][0]*v.X + o[2][1]*v.Y + o[2][2]*v.Z,
	}
}

// ApplyInverse rotates v by the inverse (transpose) of the orientation.
func (o Orientation) ApplyInverse(v Vec3) Vec3 {
	return Vec3{
		X: o[0][0]*v.X + o[1][0]*v.Y + o[2][0]*v.Z,
		Y: o[0][1]*v.X + o[1][1]*v.Y + o[2][1]*v.Z,
		Z: o[0][2]*v.X + o[1][2]*v.Y + o[2][2]*v.Z,
	}
}

// column returns the image of unit vector j.
func (o Orientation) column(j int) Vec3 {
	return Vec3{X: o[0][j], Y: o[1][j], Z: o[2][j]}
}

func (o *Orientation) setColumn(j int, v Vec3) {
	o[0][j], o[1][j], o[2][j] = v.X, v.Y, v.Z
}

// Euler returns the orientation as rotations about x, y and z in degrees
// (XYZ order). For a snapped orientation each value is a multiple of 90.
func (o Orientation) Euler() (x, y, z float64) {
	m13 := math.Max(-1, math.Min(1, o[0][2]))
	y = math.Asin(m13)
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-o[1][2], o[2][2])
		z = math.Atan2(-o[0][1], o[0][0])
	} else {
		x = math.Atan2(o[2][1], o[1][1])
		z = 0
	}
	return degrees(x), degrees(y), degrees(z)
}

func degrees(rad float64) float64 {
	return dropNegZero(rad * 180 / math.Pi)
}

// Cubelet is one unit cell of the lattice.
type Cubelet struct {
	ID          int         // Stable identity for the cubelet's lifetime
	Home        Vec3        // Position in the solved configuration
	Position    Vec3        // Current position on the half-integer lattice
	Orientation Orientation // Current rotation
}

// Cube is an N x N x N lattice of cubelets.
// The cube owns its cubelets; only the rotation engine changes their
// position or orientation.
type Cube struct {
	mu       sync.RWMutex
	size     int
	cubelets []*Cubelet
}

// NewCube creates a solved cube of the given size. Cubelets sit on a
// lattice centered on the origin, offset (size-1)/2 from each face.
func NewCube(size int) (*Cube, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}

	c := &Cube{
		size:     size,
		cubelets: make([]*Cubelet, 0, size*size*size),
	}
	offset := c.Offset()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				pos := V(float64(x)-offset, float64(y)-offset, float64(z)-offset)
				c.cubelets = append(c.cubelets, &Cubelet{
					ID:          len(c.cubelets),
					Home:        pos,
					Position:    pos,
					Orientation: Identity,
				})
			}
		}
	}
	return c, nil
}

// Size returns N.
func (c *Cube) Size() int {
	return c.size
}

// Offset returns (N-1)/2, the largest coordinate on any axis.
func (c *Cube) Offset() float64 {
	return float64(c.size-1) / 2
}

// Len returns the number of cubelets (N cubed).
func (c *Cube) Len() int {
	return len(c.cubelets)
}

// LayerCoords returns the valid slice coordinates for this cube.
func (c *Cube) LayerCoords() []float64 {
	return LayerCoords(c.size)
}

// Cubelets returns a copy of every cubelet in creation order.
func (c *Cube) Cubelets() []Cubelet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Cubelet, len(c.cubelets))
	for i, cl := range c.cubelets {
		out[i] = *cl
	}
	return out
}

// Snapshot is an alias for Cubelets, named for before/after comparisons.
func (c *Cube) Snapshot() []Cubelet {
	return c.Cubelets()
}

// Layer returns the cubelets whose coordinate on axis equals slice.
// Coordinates are compared doubled and rounded, so half-integer positions
// and accumulated drift select reliably. A slice outside the cube yields
// an empty result.
func (c *Cube) Layer(axis Axis, slice float64) []Cubelet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	layer := c.layerLocked(axis, slice)
	if layer == nil {
		return nil
	}
	out := make([]Cubelet, len(layer))
	for i, cl := range layer {
		out[i] = *cl
	}
	return out
}

func (c *Cube) layerLocked(axis Axis, slice float64) []*Cubelet {
	if !axis.Valid() {
		return nil
	}
	want := latticeKey(slice)
	var layer []*Cubelet
	for _, cl := range c.cubelets {
		if latticeKey(cl.Position.Get(axis)) == want {
			layer = append(layer, cl)
		}
	}
	return layer
}

// At returns the cubelet currently at pos.
func (c *Cube) At(pos Vec3) (Cubelet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kx, ky, kz := latticeKey(pos.X), latticeKey(pos.Y), latticeKey(pos.Z)
	for _, cl := range c.cubelets {
		if latticeKey(cl.Position.X) == kx &&
			latticeKey(cl.Position.Y) == ky &&
			latticeKey(cl.Position.Z) == kz {
			return *cl, true
		}
	}
	return Cubelet{}, false
}

// IsSolved returns true if every cubelet is back at its home position with
// its original orientation.
func (c *Cube) IsSolved() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cl := range c.cubelets {
		if !cl.Position.Equal(cl.Home, snapTolerance) {
			return false
		}
		if cl.Orientation != Identity {
			return false
		}
	}
	return true
}

// StickerAt returns the color a cubelet shows toward the outward normal.
// The sticker is the one that faced local direction R^-1 * normal before
// any rotation. ok is false when normal is not axis-aligned.
func StickerAt(cl Cubelet, normal Vec3) (Color, bool) {
	local := cl.Orientation.ApplyInverse(normal)
	face, ok := FaceForNormal(local)
	if !ok {
		return 0, false
	}
	return face.SolvedColor(), true
}

// FaceForNormal maps a normal to a face index by rounding each component.
// Exactly one component must round to +/-1 and the others to 0.
func FaceForNormal(n Vec3) (Face, bool) {
	nx, ny, nz := math.Round(n.X), math.Round(n.Y), math.Round(n.Z)
	switch {
	case nx == 1 && ny == 0 && nz == 0:
		return FacePosX, true
	case nx == -1 && ny == 0 && nz == 0:
		return FaceNegX, true
	case nx == 0 && ny == 1 && nz == 0:
		return FacePosY, true
	case nx == 0 && ny == -1 && nz == 0:
		return FaceNegY, true
	case nx == 0 && ny == 0 && nz == 1:
		return FacePosZ, true
	case nx == 0 && ny == 0 && nz == -1:
		return FaceNegZ, true
	default:
		return 0, false
	}
}

// String returns a text face net of the sticker colors.
func (c *Cube) String() string {
	return RenderNet(c, 2, func(_ Face, _, _ int, color Color, _ Cubelet) string {
		return color.String() + " "
	})
}
