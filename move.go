package cubetoe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Move is a single quarter-turn of one layer.
// Slice is a lattice coordinate along Axis (e.g. -1, 0, 1 for a 3x3x3,
// -0.5 and 0.5 for a 2x2x2).
type Move struct {
	Axis  Axis    // Rotation axis
	Slice float64 // Layer coordinate along Axis
	Angle Angle   // Plus90 or Minus90
}

// Notation returns the compact notation for this move.
// The axis letter is followed by the slice coordinate, and a trailing
// apostrophe marks a -90 degree turn.
// Examples: X0, X0', Y-1, Z0.5'
func (m Move) Notation() string {
	suffix := ""
	if m.Angle == Minus90 {
		suffix = "'"
	}
	return strings.ToUpper(m.Axis.String()) + formatSlice(m.Slice) + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the move that undoes m: same layer, negated angle.
func (m Move) Inverse() Move {
	inv := m
	inv.Angle = m.Angle.Negate()
	return inv
}

// Validate checks the move against a cube of the given size.
func (m Move) Validate(size int) error {
	if !m.Axis.Valid() {
		return fmt.Errorf("%w: axis %q", ErrInvalidMove, rune(m.Axis))
	}
	if !m.Angle.Valid() {
		return fmt.Errorf("%w: angle %d", ErrInvalidMove, m.Angle)
	}
	if !validSlice(size, m.Slice) {
		return fmt.Errorf("%w: slice %g out of range for size %d", ErrInvalidMove, m.Slice, size)
	}
	return nil
}

// validSlice reports whether slice is one of the layer coordinates of a
// cube of the given size.
func validSlice(size int, slice float64) bool {
	d := math.Round(slice * 2)
	if math.Abs(slice*2-d) > snapTolerance {
		return false
	}
	k := int(d)
	span := size - 1
	if k < -span || k > span {
		return false
	}
	// Doubled coordinates share parity with size-1.
	return (k+span)%2 == 0
}

func formatSlice(s float64) string {
	if s == 0 {
		return "0"
	}
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// ParseMove parses a notation string into a Move.
// Examples: X0, X0', y-1, Z0.5'
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Move{}, ErrInvalidNotation
	}

	axis, err := ParseAxis(s[:1])
	if err != nil {
		return Move{}, err
	}

	angle := Plus90
	body := s[1:]
	if strings.HasSuffix(body, "'") || strings.HasSuffix(body, "`") {
		angle = Minus90
		body = body[:len(body)-1]
	}

	slice, err := strconv.ParseFloat(body, 64)
	if err != nil || math.IsNaN(slice) || math.IsInf(slice, 0) {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	if math.Round(slice*2) != slice*2 {
		return Move{}, fmt.Errorf("%w: slice %q is not on the lattice", ErrInvalidNotation, body)
	}

	return Move{Axis: axis, Slice: slice, Angle: angle}, nil
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "X0 Y-1' Z1"
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// InvertMoves returns the sequence that undoes moves: reversed, with every
// angle negated.
func InvertMoves(moves []Move) []Move {
	inv := make([]Move, len(moves))
	for i, m := range moves {
		inv[len(moves)-1-i] = m.Inverse()
	}
	return inv
}
