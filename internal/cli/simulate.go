package cli

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetoe"
	"github.com/SeamusWaldron/cubetoe/internal/recorder"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless shuffle and solve",
	Long: `Shuffle a puzzle and solve it again without a TUI, printing each move.
Moves are paced by the configured duration unless --instant is given.

With --game, a full game is played instead: each round the player to move
marks a random free cell and one guided solve step is applied.

Examples:
  cubetoe simulate --size 4 --shuffle 30 --instant
  cubetoe simulate --game --seed 7`,
	RunE: runSimulate,
}

var (
	simulateFlags   gameFlags
	simulateInstant bool
	simulateGame    bool
	simulateQuiet   bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	addGameFlags(simulateCmd, &simulateFlags)
	simulateCmd.Flags().BoolVar(&simulateInstant, "instant", false, "Apply moves without animation time")
	simulateCmd.Flags().BoolVar(&simulateGame, "game", false, "Play a full game with random marks")
	simulateCmd.Flags().BoolVarP(&simulateQuiet, "quiet", "q", false, "Only print the summary")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	settings := simulateFlags.resolve(cfg)

	opts := append(settings.options(), cubetoe.WithLogger(logger))
	if simulateInstant {
		opts = append(opts, cubetoe.WithAnimator(cubetoe.InstantAnimator{}))
	} else {
		opts = append(opts, cubetoe.WithAnimator(cubetoe.TimedAnimator{}))
	}

	session, err := cubetoe.NewSession(settings.size, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var rec *recorder.Recorder
	if !settings.noRecord {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		rec = recorder.New(db, logger)

		var seed *int64
		if settings.seed != 0 {
			s := settings.seed
			seed = &s
		}
		if _, err := rec.Begin(settings.size, settings.shuffle, seed, "simulate"); err != nil {
			return err
		}
	}

	if simulateGame {
		return simulateFullGame(ctx, session, rec, settings)
	}

	session.OnMove(func(e cubetoe.MoveEvent) {
		if rec != nil {
			if err := rec.RecordMove(e); err != nil {
				logger.Warn("failed to record move", "error", err)
			}
		}
		if !simulateQuiet {
			total := e.Index + 1 + e.Remaining
			fmt.Printf("%-7s %3d/%-3d %s\n", e.Kind, e.Index+1, total, e.Move.Notation())
		}
	})

	if err := session.Shuffle(ctx, settings.shuffle); err != nil {
		return fmt.Errorf("shuffle failed: %w", err)
	}
	fmt.Printf("\nShuffled %dx%dx%d with %d moves:\n\n", settings.size, settings.size, settings.size, settings.shuffle)
	fmt.Print(plainNet(session.Cube()))
	fmt.Println()

	if err := session.Solve(ctx); err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	fmt.Println("Solved:")
	fmt.Println()
	fmt.Print(plainNet(session.Cube()))
	fmt.Println()
	fmt.Printf("Puzzle solved: %v\n", session.Solved())

	if rec != nil {
		if err := rec.End(0, 0, storage.OutcomeSolved); err != nil {
			return err
		}
		fmt.Printf("Recorded as %s\n", rec.GameID())
	}
	return nil
}

// simulateFullGame plays a game where the player to move marks a random
// free cell before every round.
func simulateFullGame(ctx context.Context, session *cubetoe.Session, rec *recorder.Recorder, settings gameFlags) error {
	overlay, err := cubetoe.NewOverlay(settings.size, nil, logger)
	if err != nil {
		return err
	}
	game, err := cubetoe.NewGame(session, overlay)
	if err != nil {
		return err
	}
	if rec != nil {
		rec.Attach(game)
	}

	seed := uint64(settings.seed)
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed+1))

	if err := game.Start(ctx, settings.shuffle); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}

	for !game.Finished() {
		placeRandom(rng, overlay)
		res, err := game.Go(ctx)
		if err != nil {
			return fmt.Errorf("round failed: %w", err)
		}
		if !simulateQuiet {
			fmt.Printf("round %3d  %-7s lines X+%d O+%d  score %d-%d  left %d\n",
				res.Round, res.Move.Notation(), res.Lines.X, res.Lines.O, res.Scores.X, res.Scores.O, res.Remaining)
		}
	}

	result := game.Result()
	fmt.Println()
	fmt.Print(netView{cube: session.Cube(), marks: overlay.MarkAt}.render())
	fmt.Println()

	winner := "draw"
	if w := result.Winner(); w != cubetoe.Empty {
		winner = w.String()
	}
	fmt.Printf("Rounds: %d  Score: X %d - O %d  Winner: %s  Solved: %v\n",
		result.Rounds, result.Scores.X, result.Scores.O, winner, result.Solved)
	if rec != nil {
		fmt.Printf("Recorded as %s\n", rec.GameID())
	}
	return nil
}

// placeRandom marks a random free cell for the current player.
func placeRandom(rng *rand.Rand, o *cubetoe.Overlay) bool {
	n := o.Size()
	var free []cubetoe.Pick
	for f := cubetoe.Face(0); f < cubetoe.NumFaces; f++ {
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				pick := netCursor{face: f, row: row, col: col}.pick(n)
				if cell, ok := o.CellForPick(pick); ok && o.MarkAt(cell) == cubetoe.Empty {
					free = append(free, pick)
				}
			}
		}
	}
	if len(free) == 0 {
		return false
	}
	return o.PlaceMark(free[rng.IntN(len(free))])
}
