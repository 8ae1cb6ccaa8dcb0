package cli

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/cubetoe"
	"github.com/SeamusWaldron/cubetoe/internal/config"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

func TestWrapNotation(t *testing.T) {
	lines := wrapNotation([]string{"X0", "Y1'", "Z-1", "X0'"}, 8)
	want := []string{"X0 Y1'", "Z-1 X0'"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if got := wrapNotation(nil, 10); len(got) != 0 {
		t.Errorf("Expected no lines, got %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(1500 * time.Millisecond); got != "1.50s" {
		t.Errorf("Got %q", got)
	}
	if got := formatDuration(75 * time.Second); got != "1:15.00" {
		t.Errorf("Got %q", got)
	}
}

func TestGameFlagsResolve(t *testing.T) {
	c := config.Default(t.TempDir())
	c.Seed = 5

	got := gameFlags{shuffle: -1, duration: -1}.resolve(c)
	if got.size != c.Size || got.shuffle != c.ShuffleMoves || got.duration != c.MoveDuration || got.seed != 5 {
		t.Errorf("Config values not used: %+v", got)
	}

	got = gameFlags{size: 2, shuffle: 0, duration: 0, seed: 9}.resolve(c)
	if got.size != 2 || got.shuffle != 0 || got.duration != 0 || got.seed != 9 {
		t.Errorf("Flag values not used: %+v", got)
	}
}

func TestCursorPickMatchesOverlayCell(t *testing.T) {
	for _, size := range []int{1, 2, 3, 4} {
		overlay, err := cubetoe.NewOverlay(size, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		seen := make(map[cubetoe.Cell]bool)
		for f := cubetoe.Face(0); f < cubetoe.NumFaces; f++ {
			for row := 0; row < size; row++ {
				for col := 0; col < size; col++ {
					cell, ok := overlay.CellForPick(netCursor{face: f, row: row, col: col}.pick(size))
					if !ok || cell.Face != f {
						t.Fatalf("size %d: cursor %v %d %d gave %v, %v", size, f, row, col, cell, ok)
					}
					seen[cell] = true
				}
			}
		}
		if len(seen) != cubetoe.NumFaces*size*size {
			t.Errorf("size %d: cursor reaches %d cells", size, len(seen))
		}
	}
}

func TestFormatMovesJSON(t *testing.T) {
	g := &storage.Game{GameID: "abc", Size: 3}
	recs := []storage.MoveRecord{
		{MoveIndex: 0, Kind: storage.KindShuffle, Axis: "x", Slice: 1, Angle: 90, Notation: "X1"},
		{MoveIndex: 1, Kind: storage.KindSolve, Axis: "x", Slice: 1, Angle: -90, Notation: "X1'"},
	}

	txt, err := formatMoves(g, recs, "txt")
	if err != nil || txt != "X1 X1'" {
		t.Errorf("txt = %q, %v", txt, err)
	}

	out, err := formatMoves(g, recs, "json")
	if err != nil {
		t.Fatal(err)
	}
	var doc movesExport
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.GameID != "abc" || len(doc.Moves) != 2 || doc.Summary == nil || doc.Summary.Cancellations != 1 {
		t.Errorf("Unexpected export %+v", doc)
	}

	if _, err := formatMoves(g, recs, "xml"); err == nil {
		t.Error("Unknown format should fail")
	}
}

func TestNetViewShowsMarksAndCursor(t *testing.T) {
	cube, err := cubetoe.NewCube(2)
	if err != nil {
		t.Fatal(err)
	}
	cursor := netCursor{face: cubetoe.FacePosZ, row: 0, col: 0}
	view := netView{
		cube:   cube,
		cursor: &cursor,
		marks: func(c cubetoe.Cell) cubetoe.Player {
			if c.Face == cubetoe.FacePosZ {
				return cubetoe.PlayerX
			}
			return cubetoe.Empty
		},
	}
	out := view.render()
	if strings.Count(out, "X") != 4 {
		t.Errorf("Expected four X marks in\n%s", out)
	}
	if !strings.Contains(out, "[X]") {
		t.Errorf("Expected the cursor on a mark in\n%s", out)
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, feeding its message
// back into the model.
func press(t *testing.T, m *playModel, s string) {
	t.Helper()
	_, cmd := m.Update(key(s))
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		if _, next := m.Update(msg); next != nil && s == "a" {
			// auto-play chains rounds
			for next != nil {
				msg := next()
				if msg == nil {
					break
				}
				_, next = m.Update(msg)
			}
		}
	}
}

func newTestPlayModel(t *testing.T) *playModel {
	t.Helper()
	log, err := openLogFile(t.TempDir(), "test", slog.LevelDebug)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })

	settings := gameFlags{size: 3, shuffle: 4, duration: 0, seed: 3}
	m, err := newPlayModel(settings, &tuiAnimator{}, nil, log)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPlayModelRound(t *testing.T) {
	m := newTestPlayModel(t)

	press(t, m, "s")
	if !m.playing || m.busy {
		t.Fatalf("Expected a game in play, notice %q err %v", m.notice, m.err)
	}
	if m.session.Remaining() != 4 {
		t.Errorf("Expected 4 solve steps, got %d", m.session.Remaining())
	}

	press(t, m, " ")
	if got := m.overlay.Scores(); got.X != 0 {
		t.Errorf("No round played yet, scores %+v", got)
	}
	front := m.cursor.pick(3)
	cell, _ := m.overlay.CellForPick(front)
	if m.overlay.MarkAt(cell) != cubetoe.PlayerX || m.tokens.at(cell) != cubetoe.PlayerX {
		t.Error("Expected an X mark and token under the cursor")
	}

	press(t, m, "g")
	if m.last == nil || m.last.Round != 1 || m.last.Next != cubetoe.PlayerO {
		t.Fatalf("Unexpected round %+v", m.last)
	}
	if m.session.Remaining() != 3 {
		t.Errorf("Expected 3 steps left, got %d", m.session.Remaining())
	}

	press(t, m, "a")
	if m.result == nil || !m.result.Solved {
		t.Fatalf("Auto-play should finish the game, result %+v", m.result)
	}
	if !m.session.Solved() {
		t.Error("Puzzle should be solved")
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("View should report the finished game")
	}
}

func TestPlayModelReset(t *testing.T) {
	m := newTestPlayModel(t)

	press(t, m, "s")
	press(t, m, " ")
	press(t, m, "r")

	if m.playing {
		t.Error("Reset should end play")
	}
	if !m.session.Cube().IsSolved() || m.session.Remaining() != 0 || len(m.session.ShuffleList()) != 0 {
		t.Error("Reset should return to a solved puzzle")
	}
	if m.session.Solved() {
		t.Error("No guided solve has been built since the reset")
	}
	if m.tokens.lastToken() != "" {
		t.Error("Reset should clear tokens")
	}

	// Go is ignored until a new game starts.
	_, cmd := m.Update(key("g"))
	if cmd != nil {
		t.Error("Go after reset should do nothing")
	}
}

func TestPlayModelCursor(t *testing.T) {
	m := newTestPlayModel(t)

	press(t, m, "k")
	if m.cursor.row != 2 {
		t.Errorf("Cursor should wrap to row 2, got %d", m.cursor.row)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.cursor.face != cubetoe.FaceNegZ {
		t.Errorf("Tab should move to the next face, got %v", m.cursor.face)
	}
}
