// Package cli implements the command-line interface for cubetoe.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetoe/internal/config"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath     string
	configPath string
	logLevel   string
	verbose    bool

	// Set by loadConfig before any command runs.
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubetoe",
	Short: "Twisty puzzle tic-tac-toe",
	Long: `cubetoe - An N x N x N twisty puzzle with a tic-tac-toe game on its faces.

Shuffle the puzzle, then take turns marking face cells while each round
applies one step of the guided solve. Lines of three (or N) on any face
score for their owner. Games are recorded to a local history database for
listing, export and replay.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.cubetoe/cubetoe.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.cubetoe/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (same as --log-level debug)")
}

// loadConfig resolves the configuration: file, then environment, then
// flags. It also builds the JSON logger used by every command.
func loadConfig(cmd *cobra.Command, args []string) error {
	dataDir, err := storage.DefaultDir()
	if err != nil {
		return err
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(dataDir)
	}

	c, err := config.Load(path, dataDir)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if verbose {
		c.LogLevel = "debug"
	}

	level, err := config.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}

	cfg = c
	configPath = path
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}
