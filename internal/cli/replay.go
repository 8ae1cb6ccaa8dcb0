package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetoe"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay [game_id]",
	Short: "Replay a recorded game",
	Long: `Re-apply a recorded shuffle to a fresh puzzle and print the resulting net.
History is only replayed onto a new cube; it never restores a live game.

Usage:
  cubetoe replay --last            # Shuffle only
  cubetoe replay --last --all      # Shuffle and the recorded solve moves
  cubetoe replay 3f2a --step       # Step through moves interactively
  cubetoe replay --last --step --speed 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replayLast  bool
	replayAll   bool
	replayStep  bool
	replaySpeed float64
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent game")
	replayCmd.Flags().BoolVar(&replayAll, "all", false, "Also apply the recorded solve moves")
	replayCmd.Flags().BoolVarP(&replayStep, "step", "t", false, "Step through moves in a TUI")
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier in the TUI")
}

func runReplay(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	g, err := resolveGame(storage.NewGameRepository(db), args, replayLast)
	if err != nil {
		return err
	}

	moveRepo := storage.NewMoveRepository(db)
	var recs []storage.MoveRecord
	if replayAll || replayStep {
		recs, err = moveRepo.GetByGame(g.GameID)
	} else {
		recs, err = moveRepo.GetByKind(g.GameID, storage.KindShuffle)
	}
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	moves, err := storage.ToMoves(recs)
	if err != nil {
		return err
	}

	cube, err := cubetoe.NewCube(g.Size)
	if err != nil {
		return err
	}
	engine := cubetoe.NewEngine(cube, cubetoe.InstantAnimator{}, logger)

	if replayStep {
		model := newReplayModel(g, recs, moves, engine, replaySpeed)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, m := range moves {
		if err := engine.RotateLayer(ctx, m, 0); err != nil {
			return fmt.Errorf("failed to apply %s: %w", m.Notation(), err)
		}
	}

	fmt.Printf("Game %s (%dx%dx%d), %d moves applied\n", shortID(g.GameID), g.Size, g.Size, g.Size, len(moves))
	fmt.Println()
	fmt.Print(plainNet(cube))
	fmt.Println()
	if cube.IsSolved() {
		fmt.Println("Puzzle is solved")
	} else {
		fmt.Println("Puzzle is shuffled")
	}
	return nil
}

// replayModel steps through recorded moves on a fresh cube.
type replayModel struct {
	game   *storage.Game
	recs   []storage.MoveRecord
	moves  []cubetoe.Move
	engine *cubetoe.Engine

	index    int // moves applied so far
	speed    float64
	paused   bool
	err      error
	quitting bool
}

type replayTickMsg struct{}

func newReplayModel(g *storage.Game, recs []storage.MoveRecord, moves []cubetoe.Move, engine *cubetoe.Engine, speed float64) *replayModel {
	if speed <= 0 {
		speed = 1
	}
	return &replayModel{
		game:   g,
		recs:   recs,
		moves:  moves,
		engine: engine,
		speed:  speed,
		paused: true, // Start paused, space steps
	}
}

func (m *replayModel) Init() tea.Cmd {
	return nil
}

func (m *replayModel) scheduleNext() tea.Cmd {
	if m.index >= len(m.moves) {
		return nil
	}

	// Recorded gaps drive the pacing, capped so long pauses stay short.
	delay := 300 * time.Millisecond
	if m.index > 0 {
		gap := time.Duration(m.recs[m.index].TsMs-m.recs[m.index-1].TsMs) * time.Millisecond
		if gap > 0 && gap < 2*time.Second {
			delay = gap
		}
	}
	delay = time.Duration(float64(delay) / m.speed)

	return tea.Tick(delay, func(time.Time) tea.Msg {
		return replayTickMsg{}
	})
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "n", "right":
			m.paused = true
			m.forward()

		case "b", "left":
			m.paused = true
			m.back()

		case "p":
			m.paused = !m.paused
			if !m.paused {
				return m, m.scheduleNext()
			}

		case "+", "=":
			m.speed *= 2
			if m.speed > 16 {
				m.speed = 16
			}

		case "-":
			m.speed /= 2
			if m.speed < 0.25 {
				m.speed = 0.25
			}
		}

	case replayTickMsg:
		if !m.paused {
			m.forward()
			return m, m.scheduleNext()
		}
	}

	return m, nil
}

func (m *replayModel) forward() {
	if m.index >= len(m.moves) {
		return
	}
	if err := m.engine.RotateLayer(context.Background(), m.moves[m.index], 0); err != nil {
		m.err = err
		return
	}
	m.index++
}

func (m *replayModel) back() {
	if m.index == 0 {
		return
	}
	if err := m.engine.RotateLayer(context.Background(), m.moves[m.index-1].Inverse(), 0); err != nil {
		m.err = err
		return
	}
	m.index--
}

func (m *replayModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Replay %s (%dx%dx%d)", shortID(m.game.GameID), m.game.Size, m.game.Size, m.game.Size)))
	b.WriteString("\n\n")
	b.WriteString(plainNet(m.engine.Cube()))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Move %d/%d", m.index, len(m.moves))
	if m.index > 0 {
		rec := m.recs[m.index-1]
		fmt.Fprintf(&b, "  last: %s (%s)", moveStyle.Render(rec.Notation), rec.Kind)
	}
	b.WriteString("\n")

	state := "PLAYING"
	if m.paused {
		state = "PAUSED"
	}
	if m.engine.Cube().IsSolved() {
		state += "  solved"
	}
	b.WriteString(phaseStyle.Render(state))
	fmt.Fprintf(&b, "  speed %.2gx\n", m.speed)

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space/right=step  left/b=back  p=play/pause  +/-=speed  q=quit"))
	b.WriteString("\n")
	return b.String()
}
