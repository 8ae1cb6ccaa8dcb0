package cubetoe

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Player is the content of an overlay cell.
type Player byte

const (
	Empty   Player = 0
	PlayerX Player = 'X'
	PlayerO Player = 'O'
)

func (p Player) String() string {
	switch p {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "."
	}
}

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Pick is a resolved pointer hit: the struck cubelet's position and the
// face normal at the hit point, both in lattice space.
type Pick struct {
	Position Vec3
	Normal   Vec3
}

// Cell addresses one square of a face grid.
type Cell struct {
	Face Face
	Row  int
	Col  int
}

func (c Cell) String() string {
	return fmt.Sprintf("%s[%d,%d]", c.Face, c.Row, c.Col)
}

// MarkEvent is emitted when a mark is recorded.
type MarkEvent struct {
	Cell   Cell
	Player Player
}

// LineCount holds completed line counts per player.
type LineCount struct {
	X int
	O int
}

// Add returns the element-wise sum.
func (l LineCount) Add(o LineCount) LineCount {
	return LineCount{X: l.X + o.X, O: l.O + o.O}
}

func (l LineCount) inc(p Player) LineCount {
	switch p {
	case PlayerX:
		l.X++
	case PlayerO:
		l.O++
	}
	return l
}

// TokenRenderer draws and removes the visual tokens for placed marks.
type TokenRenderer interface {
	// ShowToken draws player's token for cell at anchor, a point just
	// outside the struck face.
	ShowToken(cell Cell, player Player, anchor Vec3)
	// ClearTokens removes every token.
	ClearTokens()
}

// tokenLift is how far outside the cubelet center a token is anchored.
const tokenLift = 0.51

// faceGrid assigns a face's grid to two lattice axes.
type faceGrid struct {
	col       Axis
	row       Axis
	invertRow bool
	invertCol bool
}

// faceGrids is indexed by Face. The mirroring differs per face and is
// part of the board layout players see, so it is kept exactly as is.
var faceGrids = [NumFaces]faceGrid{
	FacePosX: {col: AxisZ, row: AxisY, invertRow: true},
	FaceNegX: {col: AxisZ, row: AxisY},
	FacePosY: {col: AxisX, row: AxisZ},
	FaceNegY: {col: AxisX, row: AxisZ, invertRow: true},
	FacePosZ: {col: AxisX, row: AxisY},
	FaceNegZ: {col: AxisX, row: AxisY, invertRow: true, invertCol: true},
}

// Overlay is the tic-tac-toe game played on the six faces. Its grids are
// independent of the cube: marks stay where they were placed when the
// cube later rotates.
type Overlay struct {
	size     int
	renderer TokenRenderer
	logger   *slog.Logger

	mu           sync.Mutex
	grids        [NumFaces][][]Player
	anchors      map[Cell]Vec3
	current      Player
	scores       LineCount
	phase        Phase
	onMarkPlaced func(MarkEvent)
}

// NewOverlay creates an idle overlay with empty N x N grids. A nil
// renderer draws nothing.
func NewOverlay(size int, renderer TokenRenderer, logger *slog.Logger) (*Overlay, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	if logger == nil {
		logger = discardLogger()
	}
	o := &Overlay{
		size:     size,
		renderer: renderer,
		logger:   logger,
		current:  PlayerX,
		phase:    PhaseIdle,
	}
	o.resetGrids()
	return o, nil
}

func (o *Overlay) resetGrids() {
	for f := range o.grids {
		grid := make([][]Player, o.size)
		for r := range grid {
			grid[r] = make([]Player, o.size)
		}
		o.grids[f] = grid
	}
	o.anchors = make(map[Cell]Vec3)
}

// Size returns N.
func (o *Overlay) Size() int {
	return o.size
}

// OnMarkPlaced sets a callback that fires once for every recorded mark.
func (o *Overlay) OnMarkPlaced(cb func(MarkEvent)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onMarkPlaced = cb
}

// Enable starts accepting picks.
func (o *Overlay) Enable() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == PhaseIdle {
		o.phase = PhaseActive
	}
}

// Disable stops accepting picks. A finished game stays finished.
func (o *Overlay) Disable() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != PhaseFinished {
		o.phase = PhaseIdle
	}
}

// Phase returns the current game phase.
func (o *Overlay) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Current returns the player whose mark the next pick records.
func (o *Overlay) Current() Player {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Scores returns the accumulated line counts.
func (o *Overlay) Scores() LineCount {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scores
}

// MarkAt returns the mark in cell, or Empty.
func (o *Overlay) MarkAt(cell Cell) Player {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.inRange(cell) {
		return Empty
	}
	return o.grids[cell.Face][cell.Row][cell.Col]
}

// Anchor returns the world position a cell's token was drawn at.
func (o *Overlay) Anchor(cell Cell) (Vec3, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.anchors[cell]
	return v, ok
}

// Grid returns a copy of one face's grid, rows top to bottom.
func (o *Overlay) Grid(face Face) [][]Player {
	o.mu.Lock()
	defer o.mu.Unlock()
	if face < 0 || int(face) >= NumFaces {
		return nil
	}
	out := make([][]Player, o.size)
	for r, row := range o.grids[face] {
		out[r] = append([]Player(nil), row...)
	}
	return out
}

func (o *Overlay) inRange(cell Cell) bool {
	return cell.Face >= 0 && int(cell.Face) < NumFaces &&
		cell.Row >= 0 && cell.Row < o.size &&
		cell.Col >= 0 && cell.Col < o.size
}

// CellForPick maps a pick to a face grid cell. ok is false when the
// normal does not name a face or the position falls outside the grid.
func (o *Overlay) CellForPick(pick Pick) (Cell, bool) {
	face, ok := FaceForNormal(pick.Normal)
	if !ok {
		return Cell{}, false
	}
	return GridCell(o.size, face, pick.Position)
}

// GridCell maps a cubelet position on face to its (row, col) for an
// N x N grid.
func GridCell(size int, face Face, pos Vec3) (Cell, bool) {
	if face < 0 || int(face) >= NumFaces {
		return Cell{}, false
	}
	g := faceGrids[face]
	half := float64(size-1) / 2

	col := int(math.Round(pos.Get(g.col) + half))
	row := int(math.Round(half - pos.Get(g.row)))
	if g.invertRow {
		row = size - 1 - row
	}
	if g.invertCol {
		col = size - 1 - col
	}

	if row < 0 || row >= size || col < 0 || col >= size {
		return Cell{}, false
	}
	return Cell{Face: face, Row: row, Col: col}, true
}

// PlaceMark records the current player's mark in the cell the pick maps
// to. Invalid picks, occupied cells and picks outside play are ignored.
// PlaceMark does not change whose turn it is. It reports whether a mark
// was recorded.
func (o *Overlay) PlaceMark(pick Pick) bool {
	o.mu.Lock()
	if !o.phase.AcceptsPicks() {
		o.mu.Unlock()
		return false
	}
	cell, ok := o.CellForPick(pick)
	if !ok || o.grids[cell.Face][cell.Row][cell.Col] != Empty {
		o.mu.Unlock()
		return false
	}

	player := o.current
	anchor := pick.Position.Add(cell.Face.Normal().Scale(tokenLift))
	o.grids[cell.Face][cell.Row][cell.Col] = player
	o.anchors[cell] = anchor
	o.phase = PhaseActive
	renderer := o.renderer
	cb := o.onMarkPlaced
	o.mu.Unlock()

	o.logger.Debug("mark placed", "cell", cell.String(), "player", player.String())
	if renderer != nil {
		renderer.ShowToken(cell, player, anchor)
	}
	if cb != nil {
		cb(MarkEvent{Cell: cell, Player: player})
	}
	return true
}

// CountLines scans every face and returns the number of complete rows,
// columns and diagonals held by each player. Scores are not changed.
func (o *Overlay) CountLines() LineCount {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.countLinesLocked()
}

func (o *Overlay) countLinesLocked() LineCount {
	var res LineCount
	n := o.size
	for f := range o.grids {
		board := o.grids[f]

		for r := 0; r < n; r++ {
			res = res.inc(uniform(n, func(i int) Player { return board[r][i] }))
		}
		for c := 0; c < n; c++ {
			res = res.inc(uniform(n, func(i int) Player { return board[i][c] }))
		}
		res = res.inc(uniform(n, func(i int) Player { return board[i][i] }))
		res = res.inc(uniform(n, func(i int) Player { return board[i][n-1-i] }))
	}
	return res
}

// uniform returns the player holding all n cells of a line, or Empty.
func uniform(n int, at func(i int) Player) Player {
	first := at(0)
	if first == Empty {
		return Empty
	}
	for i := 1; i < n; i++ {
		if at(i) != first {
			return Empty
		}
	}
	return first
}

// EvaluateRound rescans every face, adds the line counts to the scores
// and passes the turn to the other player. Lines already counted in an
// earlier round are counted again. Once the grids are full the game is
// finished and further calls return zero counts.
func (o *Overlay) EvaluateRound() LineCount {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase == PhaseFinished {
		return LineCount{}
	}

	lines := o.countLinesLocked()
	o.scores = o.scores.Add(lines)
	o.current = o.current.Other()

	switch {
	case o.isFullLocked():
		o.phase = PhaseFinished
	case o.phase != PhaseIdle:
		o.phase = PhaseRoundEvaluated
	}

	o.logger.Debug("round evaluated",
		"lines_x", lines.X, "lines_o", lines.O,
		"score_x", o.scores.X, "score_o", o.scores.O,
		"phase", o.phase.String())
	return lines
}

// IsFull reports whether every cell of every face holds a mark.
func (o *Overlay) IsFull() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isFullLocked()
}

func (o *Overlay) isFullLocked() bool {
	for f := range o.grids {
		for _, row := range o.grids[f] {
			for _, p := range row {
				if p == Empty {
					return false
				}
			}
		}
	}
	return true
}

// ClearAll empties every grid, removes all tokens, zeroes the scores and
// gives the turn to X. An idle overlay stays idle; otherwise play
// resumes.
func (o *Overlay) ClearAll() {
	o.mu.Lock()
	o.resetGrids()
	o.scores = LineCount{}
	o.current = PlayerX
	if o.phase != PhaseIdle {
		o.phase = PhaseActive
	}
	renderer := o.renderer
	o.mu.Unlock()

	if renderer != nil {
		renderer.ClearTokens()
	}
}
