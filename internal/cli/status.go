package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and history status",
	Long:  `Display the active settings, the history database location and the most recent game.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("cubetoe Status")
	fmt.Println("==============")
	fmt.Println()

	fmt.Printf("Config:   %s\n", configPath)
	fmt.Printf("Database: %s\n", cfg.DBPath)
	fmt.Printf("Logs:     %s\n", cfg.LogDir)
	fmt.Printf("Puzzle:   %dx%dx%d, %d shuffle moves, %s per move\n",
		cfg.Size, cfg.Size, cfg.Size, cfg.ShuffleMoves, cfg.MoveDuration)
	fmt.Println()

	db, err := openDB()
	if err != nil {
		fmt.Printf("History unavailable: %v\n", err)
		return nil
	}
	defer db.Close()

	if v, err := db.CurrentVersion(); err == nil {
		fmt.Printf("Schema version: %d\n", v)
	}

	gameRepo := storage.NewGameRepository(db)
	count, err := gameRepo.Count()
	if err != nil {
		return err
	}
	fmt.Printf("Total games: %d\n", count)

	last, err := gameRepo.GetLast()
	if err != nil {
		return err
	}
	if last == nil {
		fmt.Println("No games recorded yet")
		return nil
	}

	fmt.Printf("Last game: %s (%s)\n", shortID(last.GameID), last.StartedAt.Local().Format(time.RFC3339))
	if last.Outcome == nil {
		fmt.Println("  still open (not finished or interrupted)")
	} else {
		fmt.Printf("  %s, X %d - O %d, winner %s\n", *last.Outcome, last.ScoreX, last.ScoreO, last.Winner())
	}

	return nil
}
