package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/database"
)

type SubmissionRepository struct {
	db *database.DB
}

func NewSubmissionRepository(db *database.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create appends one grading attempt. Submissions are immutable; there are
// no update or delete paths.
func (r *SubmissionRepository) Create(userID, matchID, code, language, result string) (*models.Submission, error) {
	query := `
		INSERT INTO submissions (id, user_id, match_id, code, language, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, match_id, code, language, result, created_at
	`

	sub := &models.Submission{}
	err := r.db.QueryRow(query, uuid.New().String(), userID, matchID, code, language, result).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.MatchID,
		&sub.Code,
		&sub.Language,
		&sub.Result,
		&sub.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	return sub, nil
}

// FindByMatch lists all grading attempts of a match, oldest first.
func (r *SubmissionRepository) FindByMatch(matchID string) ([]*models.Submission, error) {
	query := `
		SELECT id, user_id, match_id, code, language, result, created_at
		FROM submissions
		WHERE match_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		sub := &models.Submission{}
		if err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.MatchID,
			&sub.Code,
			&sub.Language,
			&sub.Result,
			&sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}
