package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubetoe"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	playerStyles = map[cubetoe.Player]lipgloss.Style{
		cubetoe.PlayerX: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		cubetoe.PlayerO: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
)

// stickerStyles maps sticker colors to cell backgrounds.
var stickerStyles = map[cubetoe.Color]lipgloss.Style{
	cubetoe.Red:    sticker("160"),
	cubetoe.Green:  sticker("34"),
	cubetoe.Blue:   sticker("27"),
	cubetoe.Yellow: sticker("226"),
	cubetoe.Orange: sticker("208"),
	cubetoe.White:  sticker("255"),
}

func sticker(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color("16"))
}

const cellWidth = 3

// netCursor addresses one sticker of the net.
type netCursor struct {
	face     cubetoe.Face
	row, col int
}

// pick converts the cursor to the overlay pick it stands for.
func (c netCursor) pick(size int) cubetoe.Pick {
	return cubetoe.Pick{
		Position: cubetoe.NetPosition(size, c.face, c.row, c.col),
		Normal:   c.face.Normal(),
	}
}

// netView renders a cube as a colored net with optional marks, a cursor
// and a highlighted layer.
type netView struct {
	cube   *cubetoe.Cube
	marks  func(cubetoe.Cell) cubetoe.Player // nil hides marks
	cursor *netCursor
	active map[cubetoe.Vec3]bool // cubelets in the turning layer
}

func (v netView) render() string {
	n := v.cube.Size()
	return cubetoe.RenderNet(v.cube, cellWidth, func(face cubetoe.Face, row, col int, color cubetoe.Color, cl cubetoe.Cubelet) string {
		mid := color.String()
		style, ok := stickerStyles[color]
		if !ok {
			style = lipgloss.NewStyle()
		}

		if v.marks != nil {
			pos := cubetoe.NetPosition(n, face, row, col)
			if cell, ok := cubetoe.GridCell(n, face, pos); ok {
				if p := v.marks(cell); p != cubetoe.Empty {
					mid = p.String()
					style = style.Bold(true)
				}
			}
		}
		if v.active[cl.Position] {
			style = style.Faint(true)
			if mid == color.String() {
				mid = "~"
			}
		}

		left, right := " ", " "
		if v.cursor != nil && v.cursor.face == face && v.cursor.row == row && v.cursor.col == col {
			left, right = "[", "]"
		}
		return style.Render(left + mid + right)
	})
}

// plainNet renders a cube without marks or highlights.
func plainNet(c *cubetoe.Cube) string {
	return netView{cube: c}.render()
}
