package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetoe/internal/analysis"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

var (
	exportFormat string
	exportOutput string
	exportLast   bool
	exportKind   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export game data",
	Long:  `Export recorded game data in various formats.`,
}

var exportMovesCmd = &cobra.Command{
	Use:   "moves [game_id]",
	Short: "Export moves from a game",
	Long: `Export the move sequence of a game in text or JSON format.

Examples:
  cubetoe export moves --last
  cubetoe export moves 3f2a9c1e --format json
  cubetoe export moves --last --kind shuffle -o shuffle.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExportMoves,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportMovesCmd)
	exportMovesCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last game")
	exportMovesCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	exportMovesCmd.Flags().StringVar(&exportKind, "kind", "", "Only export shuffle or solve moves")
	exportMovesCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

// movesExport is the JSON document written by export moves.
type movesExport struct {
	GameID  string            `json:"game_id"`
	Size    int               `json:"size"`
	Moves   []moveJSON        `json:"moves"`
	Summary *analysis.Summary `json:"summary"`
}

type moveJSON struct {
	MoveIndex int     `json:"move_index"`
	TsMs      int64   `json:"ts_ms"`
	Kind      string  `json:"kind"`
	Axis      string  `json:"axis"`
	Slice     float64 `json:"slice"`
	Angle     int     `json:"angle"`
	Notation  string  `json:"notation"`
}

func runExportMoves(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	g, err := resolveGame(storage.NewGameRepository(db), args, exportLast)
	if err != nil {
		return err
	}

	moveRepo := storage.NewMoveRepository(db)
	var recs []storage.MoveRecord
	switch exportKind {
	case "":
		recs, err = moveRepo.GetByGame(g.GameID)
	case storage.KindShuffle, storage.KindSolve:
		recs, err = moveRepo.GetByKind(g.GameID, exportKind)
	default:
		return fmt.Errorf("unknown kind: %s (use shuffle or solve)", exportKind)
	}
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}

	if len(recs) == 0 {
		return fmt.Errorf("no moves found for game %s", g.GameID)
	}

	output, err := formatMoves(g, recs, exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Exported %d moves to %s\n", len(recs), exportOutput)
	return nil
}

func formatMoves(g *storage.Game, recs []storage.MoveRecord, format string) (string, error) {
	switch strings.ToLower(format) {
	case "txt":
		notations := make([]string, len(recs))
		for i, m := range recs {
			notations[i] = m.Notation
		}
		return strings.Join(notations, " "), nil

	case "json":
		moves, err := storage.ToMoves(recs)
		if err != nil {
			return "", err
		}

		doc := movesExport{
			GameID:  g.GameID,
			Size:    g.Size,
			Moves:   make([]moveJSON, len(recs)),
			Summary: analysis.Summarize(moves),
		}
		for i, m := range recs {
			doc.Moves[i] = moveJSON{
				MoveIndex: m.MoveIndex,
				TsMs:      m.TsMs,
				Kind:      m.Kind,
				Axis:      m.Axis,
				Slice:     m.Slice,
				Angle:     m.Angle,
				Notation:  m.Notation,
			}
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unknown format: %s (use txt or json)", format)
	}
}
