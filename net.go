package cubetoe

import "strings"

// NetPosition returns the lattice position of the surface cubelet shown at
// (row, col) when face is viewed from outside, rows running top to bottom.
// Side faces keep +Y up; +Y is viewed with -Z at the top and -Y with +Z at
// the top, as in an unfolded net:
//
//	    +Y
//	-X  +Z  +X  -Z
//	    -Y
func NetPosition(size int, face Face, row, col int) Vec3 {
	half := float64(size-1) / 2
	u := float64(col) - half // along the column direction
	w := float64(row) - half // along the row direction (downwards)

	var colDir, rowDir Vec3
	switch face {
	case FacePosZ:
		colDir, rowDir = V(1, 0, 0), V(0, -1, 0)
	case FacePosX:
		colDir, rowDir = V(0, 0, -1), V(0, -1, 0)
	case FaceNegZ:
		colDir, rowDir = V(-1, 0, 0), V(0, -1, 0)
	case FaceNegX:
		colDir, rowDir = V(0, 0, 1), V(0, -1, 0)
	case FacePosY:
		colDir, rowDir = V(1, 0, 0), V(0, 0, 1)
	case FaceNegY:
		colDir, rowDir = V(1, 0, 0), V(0, 0, -1)
	}

	pos := face.Normal().Scale(half).Add(colDir.Scale(u)).Add(rowDir.Scale(w))
	return snapVec(pos)
}

// CellFunc renders one sticker of the net. It receives the face, the
// display row and column, the sticker color and the cubelet carrying it.
type CellFunc func(face Face, row, col int, color Color, cl Cubelet) string

// RenderNet lays the six faces out as an unfolded net. cellWidth is the
// printed width of each cell, used to indent the top and bottom faces.
func RenderNet(c *Cube, cellWidth int, cell CellFunc) string {
	n := c.Size()
	byPos := make(map[[3]int]Cubelet, c.Len())
	for _, cl := range c.Cubelets() {
		byPos[[3]int{latticeKey(cl.Position.X), latticeKey(cl.Position.Y), latticeKey(cl.Position.Z)}] = cl
	}

	renderRow := func(face Face, row int) string {
		var b strings.Builder
		normal := face.Normal()
		for col := 0; col < n; col++ {
			pos := NetPosition(n, face, row, col)
			cl := byPos[[3]int{latticeKey(pos.X), latticeKey(pos.Y), latticeKey(pos.Z)}]
			color, _ := StickerAt(cl, normal)
			b.WriteString(cell(face, row, col, color, cl))
		}
		return b.String()
	}

	indent := strings.Repeat(" ", n*cellWidth+1)
	var b strings.Builder

	for row := 0; row < n; row++ {
		b.WriteString(indent)
		b.WriteString(renderRow(FacePosY, row))
		b.WriteString("\n")
	}

	for row := 0; row < n; row++ {
		for i, face := range []Face{FaceNegX, FacePosZ, FacePosX, FaceNegZ} {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(renderRow(face, row))
		}
		b.WriteString("\n")
	}

	for row := 0; row < n; row++ {
		b.WriteString(indent)
		b.WriteString(renderRow(FaceNegY, row))
		b.WriteString("\n")
	}

	return b.String()
}
