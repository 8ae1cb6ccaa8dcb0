package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

// openDB opens and migrates the configured history database.
func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// resolveGame finds a game by full ID or unique prefix, or the most
// recent game when last is set.
func resolveGame(games *storage.GameRepository, args []string, last bool) (*storage.Game, error) {
	var (
		g   *storage.Game
		err error
	)

	switch {
	case last:
		g, err = games.GetLast()
		if err != nil {
			return nil, fmt.Errorf("failed to get last game: %w", err)
		}
		if g == nil {
			return nil, fmt.Errorf("no games found")
		}
	case len(args) > 0:
		g, err = games.FindByPrefix(args[0])
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, fmt.Errorf("game not found: %s", args[0])
		}
	default:
		return nil, fmt.Errorf("please provide a game ID or use --last")
	}

	return g, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}

// wrapNotation joins notations into lines of at most width characters.
func wrapNotation(notations []string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, n := range notations {
		if line.Len() > 0 && line.Len()+len(n)+1 > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(n)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
