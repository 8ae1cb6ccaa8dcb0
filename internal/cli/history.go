package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetoe/internal/analysis"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

var (
	listLimit int
	showLast  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded games",
	Long:  `List, show and delete games stored in the history database.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent games",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [game_id]",
	Short: "Show details of a game",
	Long: `Show the moves, rounds and marks of a recorded game.
The game ID may be abbreviated to any unique prefix.

Examples:
  cubetoe history show --last
  cubetoe history show 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <game_id>",
	Short: "Delete a game and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.AddCommand(historyListCmd)
	historyListCmd.Flags().IntVarP(&listLimit, "limit", "n", 10, "Number of games to show")

	historyCmd.AddCommand(historyShowCmd)
	historyShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent game")

	historyCmd.AddCommand(historyDeleteCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	gameRepo := storage.NewGameRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	games, err := gameRepo.List(listLimit)
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games recorded yet")
		fmt.Println("Start one with: cubetoe play")
		return nil
	}

	fmt.Printf("Recent games (showing %d):\n", len(games))
	fmt.Println()
	fmt.Printf("%-8s  %-19s  %-4s  %-6s  %-9s  %-7s  %-9s  %s\n", "ID", "Started", "Size", "Moves", "Duration", "Score", "Winner", "Outcome")
	fmt.Println("--------  -------------------  ----  ------  ---------  -------  ---------  ---------")

	for _, g := range games {
		duration := "-"
		if g.DurationMs != nil {
			duration = formatDuration(time.Duration(*g.DurationMs) * time.Millisecond)
		}

		moves := "-"
		if n, _ := moveRepo.Count(g.GameID); n > 0 {
			moves = fmt.Sprintf("%d", n)
		}

		outcome := "(active)"
		if g.Outcome != nil {
			outcome = *g.Outcome
		}

		fmt.Printf("%-8s  %-19s  %-4d  %-6s  %-9s  %-7s  %-9s  %s\n",
			shortID(g.GameID),
			g.StartedAt.Local().Format("2006-01-02 15:04:05"),
			g.Size,
			moves,
			duration,
			fmt.Sprintf("%d-%d", g.ScoreX, g.ScoreO),
			g.Winner(),
			outcome,
		)
	}

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	gameRepo := storage.NewGameRepository(db)
	moveRepo := storage.NewMoveRepository(db)
	roundRepo := storage.NewRoundRepository(db)

	g, err := resolveGame(gameRepo, args, showLast)
	if err != nil {
		return err
	}

	shuffleRecs, err := moveRepo.GetByKind(g.GameID, storage.KindShuffle)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	solveRecs, err := moveRepo.GetByKind(g.GameID, storage.KindSolve)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	rounds, err := roundRepo.GetByGame(g.GameID)
	if err != nil {
		return fmt.Errorf("failed to get rounds: %w", err)
	}
	marksX, marksO, err := roundRepo.CountMarks(g.GameID)
	if err != nil {
		return fmt.Errorf("failed to count marks: %w", err)
	}

	fmt.Println("Game Details")
	fmt.Println("============")
	fmt.Println()
	fmt.Printf("ID:      %s\n", g.GameID)
	fmt.Printf("Size:    %dx%dx%d\n", g.Size, g.Size, g.Size)
	fmt.Printf("Started: %s\n", g.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if g.EndedAt != nil {
		fmt.Printf("Ended:   %s\n", g.EndedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if g.DurationMs != nil {
		fmt.Printf("Played:  %s\n", formatDuration(time.Duration(*g.DurationMs)*time.Millisecond))
	}
	if g.Seed != nil {
		fmt.Printf("Seed:    %d\n", *g.Seed)
	}
	if g.Outcome != nil {
		fmt.Printf("Outcome: %s\n", *g.Outcome)
	}
	if g.Notes != nil && *g.Notes != "" {
		fmt.Printf("Notes:   %s\n", *g.Notes)
	}
	fmt.Println()

	fmt.Println("Score")
	fmt.Println("-----")
	fmt.Printf("X: %d lines, %d marks\n", g.ScoreX, marksX)
	fmt.Printf("O: %d lines, %d marks\n", g.ScoreO, marksO)
	fmt.Printf("Winner: %s\n", g.Winner())
	fmt.Println()

	printMoveSection("Shuffle", shuffleRecs)
	printMoveSection("Solve", solveRecs)

	if len(rounds) > 0 {
		fmt.Println("Rounds")
		fmt.Println("------")
		fmt.Printf("%-5s  %-8s  %-9s  %-7s  %s\n", "Round", "Move", "Lines X-O", "Score", "Left")
		for _, r := range rounds {
			fmt.Printf("%-5d  %-8s  %-9s  %-7s  %d\n",
				r.RoundIndex,
				r.Notation,
				fmt.Sprintf("%d-%d", r.LinesX, r.LinesO),
				fmt.Sprintf("%d-%d", r.ScoreX, r.ScoreO),
				r.Remaining,
			)
		}
		fmt.Println()
	}

	all, err := moveRepo.GetByGame(g.GameID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	moves, err := storage.ToMoves(all)
	if err != nil {
		return err
	}
	if len(moves) > 0 {
		printSummary(analysis.Summarize(moves))
		printRepeats(analysis.MineNGrams(moves, 2, 4, 3))
	}

	return nil
}

func printMoveSection(title string, recs []storage.MoveRecord) {
	if len(recs) == 0 {
		return
	}
	fmt.Printf("%s (%d moves)\n", title, len(recs))
	notations := make([]string, len(recs))
	for i, r := range recs {
		notations[i] = r.Notation
	}
	for _, line := range wrapNotation(notations, 60) {
		fmt.Printf("  %s\n", line)
	}
	fmt.Println()
}

func printSummary(s *analysis.Summary) {
	fmt.Println("Analysis")
	fmt.Println("--------")
	fmt.Printf("Moves:         %d (%d plus, %d minus)\n", s.TotalMoves, s.PlusTurns, s.MinusTurns)
	fmt.Printf("Per axis:      x=%d y=%d z=%d\n", s.AxisCounts["x"], s.AxisCounts["y"], s.AxisCounts["z"])
	fmt.Printf("Cancellations: %d\n", s.Cancellations)
	fmt.Printf("Simplified:    %d moves\n", s.Simplified)
	if s.NetZero() {
		fmt.Println("Net turns:     every layer back at rest")
	} else {
		fmt.Println("Net turns:")
		for _, lt := range s.Layers {
			if lt.Net != 0 {
				fmt.Printf("  %s%g: %+d\n", lt.Axis, lt.Slice, lt.Net)
			}
		}
	}
}

func printRepeats(r *analysis.NGramReport) {
	printed := false
	for n := 2; n <= 4; n++ {
		for _, ng := range r.TopNGrams[n] {
			if !printed {
				fmt.Println("Repeated sequences:")
				printed = true
			}
			fmt.Printf("  %-20s x%d\n", strings.Join(ng.Sequence, " "), ng.Count)
		}
	}
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	gameRepo := storage.NewGameRepository(db)
	g, err := resolveGame(gameRepo, args, false)
	if err != nil {
		return err
	}

	if err := gameRepo.Delete(g.GameID); err != nil {
		return err
	}
	fmt.Printf("Deleted game %s\n", g.GameID)
	return nil
}
