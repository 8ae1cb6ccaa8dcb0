package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubetoe"
)

// Move kinds.
const (
	KindShuffle = "shuffle"
	KindSolve   = "solve"
)

// MoveRecord represents a move in the database.
type MoveRecord struct {
	MoveID    int64
	GameID    string
	MoveIndex int
	TsMs      int64
	Kind      string
	Axis      string
	Slice     float64
	Angle     int
	Notation  string
}

// Move converts the record back to a cubetoe.Move.
func (m MoveRecord) Move() (cubetoe.Move, error) {
	axis, err := cubetoe.ParseAxis(m.Axis)
	if err != nil {
		return cubetoe.Move{}, err
	}
	return cubetoe.Move{Axis: axis, Slice: m.Slice, Angle: cubetoe.Angle(m.Angle)}, nil
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

// Create creates a new move and returns its ID.
func (r *MoveRepository) Create(gameID string, moveIndex int, ts time.Time, kind string, move cubetoe.Move) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO moves (game_id, move_index, ts_ms, kind, axis, slice, angle, notation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, gameID, moveIndex, ts.UnixMilli(), kind, move.Axis.String(), move.Slice, int(move.Angle), move.Notation())

	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch creates multiple moves of one kind in a single transaction.
func (r *MoveRepository) CreateBatch(gameID string, kind string, moves []cubetoe.Move, startIndex int) error {
	tsMs := time.Now().UnixMilli()
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			_, err := tx.Exec(`
				INSERT INTO moves (game_id, move_index, ts_ms, kind, axis, slice, angle, notation)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, gameID, startIndex+i, tsMs, kind, move.Axis.String(), move.Slice, int(move.Angle), move.Notation())
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetByGame retrieves all moves for a game in order.
func (r *MoveRepository) GetByGame(gameID string) ([]MoveRecord, error) {
	return r.query(`
		SELECT move_id, game_id, move_index, ts_ms, kind, axis, slice, angle, notation
		FROM moves
		WHERE game_id = ?
		ORDER BY move_index
	`, gameID)
}

// GetByKind retrieves the moves of one kind for a game in order.
func (r *MoveRepository) GetByKind(gameID, kind string) ([]MoveRecord, error) {
	return r.query(`
		SELECT move_id, game_id, move_index, ts_ms, kind, axis, slice, angle, notation
		FROM moves
		WHERE game_id = ? AND kind = ?
		ORDER BY move_index
	`, gameID, kind)
}

func (r *MoveRepository) query(q string, args ...any) ([]MoveRecord, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.GameID, &m.MoveIndex, &m.TsMs, &m.Kind, &m.Axis, &m.Slice, &m.Angle, &m.Notation)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// GetNextIndex returns the next move index for a game.
func (r *MoveRepository) GetNextIndex(gameID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE game_id = ?
	`, gameID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a game.
func (r *MoveRepository) Count(gameID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoves converts MoveRecords to a cubetoe.Move slice.
func ToMoves(records []MoveRecord) ([]cubetoe.Move, error) {
	moves := make([]cubetoe.Move, len(records))
	for i, rec := range records {
		m, err := rec.Move()
		if err != nil {
			return nil, fmt.Errorf("failed to decode move %d: %w", rec.MoveIndex, err)
		}
		moves[i] = m
	}
	return moves, nil
}
