package storage

import (
	"fmt"
	"time"
)

// Round represents one scored round of a game.
type Round struct {
	RoundID    int64
	GameID     string
	RoundIndex int
	TsMs       int64
	Notation   string // Solve move applied in the round
	LinesX     int
	LinesO     int
	ScoreX     int
	ScoreO     int
	Remaining  int
}

// Mark represents one mark placed on the overlay.
type Mark struct {
	MarkID     int64
	GameID     string
	RoundIndex int // Round the mark was placed before
	TsMs       int64
	Face       int
	Row        int
	Col        int
	Player     string
}

// RoundRepository provides CRUD operations for rounds and marks.
type RoundRepository struct {
	db *DB
}

// NewRoundRepository creates a new round repository.
func NewRoundRepository(db *DB) *RoundRepository {
	return &RoundRepository{db: db}
}

// Create stores a round and returns its ID.
func (r *RoundRepository) Create(rd Round) (int64, error) {
	if rd.TsMs == 0 {
		rd.TsMs = time.Now().UnixMilli()
	}
	result, err := r.db.Exec(`
		INSERT INTO rounds (game_id, round_index, ts_ms, notation, lines_x, lines_o, score_x, score_o, remaining)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rd.GameID, rd.RoundIndex, rd.TsMs, rd.Notation, rd.LinesX, rd.LinesO, rd.ScoreX, rd.ScoreO, rd.Remaining)

	if err != nil {
		return 0, fmt.Errorf("failed to create round: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get round ID: %w", err)
	}

	return id, nil
}

// GetByGame retrieves all rounds for a game in order.
func (r *RoundRepository) GetByGame(gameID string) ([]Round, error) {
	rows, err := r.db.Query(`
		SELECT round_id, game_id, round_index, ts_ms, notation, lines_x, lines_o, score_x, score_o, remaining
		FROM rounds
		WHERE game_id = ?
		ORDER BY round_index
	`, gameID)

	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var rd Round
		err := rows.Scan(&rd.RoundID, &rd.GameID, &rd.RoundIndex, &rd.TsMs, &rd.Notation,
			&rd.LinesX, &rd.LinesO, &rd.ScoreX, &rd.ScoreO, &rd.Remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, rd)
	}

	return rounds, rows.Err()
}

// CreateMark stores a placed mark and returns its ID.
func (r *RoundRepository) CreateMark(m Mark) (int64, error) {
	if m.TsMs == 0 {
		m.TsMs = time.Now().UnixMilli()
	}
	result, err := r.db.Exec(`
		INSERT INTO marks (game_id, round_index, ts_ms, face, row_index, col_index, player)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.GameID, m.RoundIndex, m.TsMs, m.Face, m.Row, m.Col, m.Player)

	if err != nil {
		return 0, fmt.Errorf("failed to create mark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get mark ID: %w", err)
	}

	return id, nil
}

// GetMarks retrieves all marks for a game in placement order.
func (r *RoundRepository) GetMarks(gameID string) ([]Mark, error) {
	rows, err := r.db.Query(`
		SELECT mark_id, game_id, round_index, ts_ms, face, row_index, col_index, player
		FROM marks
		WHERE game_id = ?
		ORDER BY mark_id
	`, gameID)

	if err != nil {
		return nil, fmt.Errorf("failed to get marks: %w", err)
	}
	defer rows.Close()

	var marks []Mark
	for rows.Next() {
		var m Mark
		err := rows.Scan(&m.MarkID, &m.GameID, &m.RoundIndex, &m.TsMs, &m.Face, &m.Row, &m.Col, &m.Player)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		marks = append(marks, m)
	}

	return marks, rows.Err()
}

// CountMarks returns the number of marks per player for a game.
func (r *RoundRepository) CountMarks(gameID string) (x, o int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN player = 'X' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN player = 'O' THEN 1 ELSE 0 END), 0)
		FROM marks WHERE game_id = ?
	`, gameID).Scan(&x, &o)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count marks: %w", err)
	}
	return x, o, nil
}
