package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome values stored for finished games.
const (
	OutcomeSolved    = "solved"
	OutcomeFull      = "full"
	OutcomeAbandoned = "abandoned"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Game represents a played game in the database.
type Game struct {
	GameID       string
	Size         int
	ShuffleMoves int
	Seed         *int64
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationMs   *int64
	ScoreX       int
	ScoreO       int
	Outcome      *string
	Notes        *string
}

// Winner returns "X", "O" or "draw" from the stored scores.
func (g *Game) Winner() string {
	switch {
	case g.ScoreX > g.ScoreO:
		return "X"
	case g.ScoreO > g.ScoreX:
		return "O"
	default:
		return "draw"
	}
}

// GameRepository provides CRUD operations for games.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create creates a new game and returns its ID. A nil seed means the
// shuffle was not reproducible.
func (r *GameRepository) Create(size, shuffleMoves int, seed *int64, notes string) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	_, err := r.db.Exec(`
		INSERT INTO games (game_id, size, shuffle_moves, seed, started_at, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, size, shuffleMoves, seed, startedAt.Format(timeLayout), notesPtr)

	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return id, nil
}

// End marks a game as complete with its final scores and outcome.
func (r *GameRepository) End(gameID string, scoreX, scoreO int, outcome string) error {
	endedAt := time.Now().UTC()

	// Get start time to calculate duration
	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM games WHERE game_id = ?", gameID).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get game start time: %w", err)
	}

	startedAt, err := time.Parse(timeLayout, startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to parse start time: %w", err)
	}

	durationMs := endedAt.Sub(startedAt).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE games
		SET ended_at = ?, duration_ms = ?, score_x = ?, score_o = ?, outcome = ?
		WHERE game_id = ?
	`, endedAt.Format(timeLayout), durationMs, scoreX, scoreO, outcome, gameID)

	if err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	return nil
}

// UpdateScores stores the running scores of a game in progress.
func (r *GameRepository) UpdateScores(gameID string, scoreX, scoreO int) error {
	_, err := r.db.Exec(`
		UPDATE games SET score_x = ?, score_o = ? WHERE game_id = ?
	`, scoreX, scoreO, gameID)
	if err != nil {
		return fmt.Errorf("failed to update scores: %w", err)
	}
	return nil
}

const gameColumns = `game_id, size, shuffle_moves, seed, started_at, ended_at, duration_ms, score_x, score_o, outcome, notes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	var g Game
	var startedAtStr string
	var endedAtStr sql.NullString

	err := row.Scan(
		&g.GameID, &g.Size, &g.ShuffleMoves, &g.Seed,
		&startedAtStr, &endedAtStr, &g.DurationMs,
		&g.ScoreX, &g.ScoreO, &g.Outcome, &g.Notes,
	)
	if err != nil {
		return nil, err
	}

	g.StartedAt, _ = time.Parse(timeLayout, startedAtStr)
	if endedAtStr.Valid {
		t, _ := time.Parse(timeLayout, endedAtStr.String)
		g.EndedAt = &t
	}

	return &g, nil
}

// Get retrieves a game by ID. It returns nil if no game matches.
func (r *GameRepository) Get(gameID string) (*Game, error) {
	g, err := scanGame(r.db.QueryRow(`SELECT `+gameColumns+` FROM games WHERE game_id = ?`, gameID))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return g, nil
}

// GetLast retrieves the most recent game.
func (r *GameRepository) GetLast() (*Game, error) {
	g, err := scanGame(r.db.QueryRow(`
		SELECT ` + gameColumns + ` FROM games
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last game: %w", err)
	}

	return g, nil
}

// FindByPrefix retrieves the single game whose ID starts with prefix.
func (r *GameRepository) FindByPrefix(prefix string) (*Game, error) {
	rows, err := r.db.Query(`
		SELECT `+gameColumns+` FROM games
		WHERE game_id LIKE ? || '%'
		LIMIT 2
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to find game: %w", err)
	}
	defer rows.Close()

	var found []*Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		found = append(found, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("game id prefix %q is ambiguous", prefix)
	}
}

// List retrieves recent games, newest first.
func (r *GameRepository) List(limit int) ([]Game, error) {
	rows, err := r.db.Query(`
		SELECT `+gameColumns+` FROM games
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)

	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *g)
	}

	return games, rows.Err()
}

// Delete deletes a game and all related data (cascading).
func (r *GameRepository) Delete(gameID string) error {
	_, err := r.db.Exec("DELETE FROM games WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// Count returns the number of stored games.
func (r *GameRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM games").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}
