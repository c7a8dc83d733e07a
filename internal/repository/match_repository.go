package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/database"
)

type MatchRepository struct {
	db *database.DB
}

func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, player1_id, player2_id, problem_id, code_player1, code_player2,
	       status, winner_id, start_time, end_time`

// Insert creates an active match with start_time set by the database.
func (r *MatchRepository) Insert(player1ID, player2ID, problemID string) (*models.Match, error) {
	query := `
		INSERT INTO matches (id, player1_id, player2_id, problem_id, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING ` + matchColumns

	match, err := r.scanOne(r.db.QueryRow(query, uuid.New().String(), player1ID, player2ID, problemID))
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return match, nil
}

func (r *MatchRepository) FindByID(id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanOne(r.db.QueryRow(query, id))
}

// FindActiveByUser returns the active match the user participates in, or
// (nil, nil) when there is none. At most one row can match because match
// creation enforces the one-active-match-per-user invariant.
func (r *MatchRepository) FindActiveByUser(userID string) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = 'active' AND (player1_id = $1 OR player2_id = $1)
		ORDER BY start_time ASC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, userID))
}

// FindByUser lists a user's matches, newest first.
func (r *MatchRepository) FindByUser(userID string, limit, offset int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE player1_id = $1 OR player2_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// SetPlayerCode stores the submitting player's latest code on the match. The
// WHERE clause doubles as a guard: nothing is written when the match is no
// longer active or the user is not a participant. Returns the number of rows
// updated.
func (r *MatchRepository) SetPlayerCode(matchID, userID, code string) (int64, error) {
	query := `
		UPDATE matches
		SET code_player1 = CASE WHEN player1_id = $2 THEN $3 ELSE code_player1 END,
		    code_player2 = CASE WHEN player2_id = $2 THEN $3 ELSE code_player2 END
		WHERE id = $1
		  AND status = 'active'
		  AND (player1_id = $2 OR player2_id = $2)
	`

	res, err := r.db.Exec(query, matchID, userID, code)
	if err != nil {
		return 0, fmt.Errorf("failed to record code: %w", err)
	}

	return res.RowsAffected()
}

// CompleteIfActive is the single serialization point for match completion: a
// compare-and-set on status. Exactly one caller per match id gets the updated
// row back; every other caller gets (nil, nil).
func (r *MatchRepository) CompleteIfActive(matchID, winnerID string) (*models.Match, error) {
	query := `
		UPDATE matches
		SET status = 'completed', winner_id = $2, end_time = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING ` + matchColumns

	return r.scanOne(r.db.QueryRow(query, matchID, winnerID))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *MatchRepository) scanOne(row *sql.Row) (*models.Match, error) {
	match, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *MatchRepository) scanRow(s rowScanner) (*models.Match, error) {
	match := &models.Match{}
	err := s.Scan(
		&match.ID,
		&match.Player1ID,
		&match.Player2ID,
		&match.ProblemID,
		&match.CodePlayer1,
		&match.CodePlayer2,
		&match.Status,
		&match.WinnerID,
		&match.StartTime,
		&match.EndTime,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return match, nil
}
