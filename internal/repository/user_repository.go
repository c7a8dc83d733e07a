package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/database"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with the default rating and zeroed counters.
func (r *UserRepository) Create(username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, rating, win_count, loss_count, created_at, updated_at
	`

	user := &models.User{}
	err := r.db.QueryRow(query, uuid.New().String(), username, email, passwordHash, models.DefaultRating).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Rating,
		&user.WinCount,
		&user.LossCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	return r.findOne(`
		SELECT id, username, email, password_hash, rating, win_count, loss_count, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	return r.findOne(`
		SELECT id, username, email, password_hash, rating, win_count, loss_count, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	return r.findOne(`
		SELECT id, username, email, password_hash, rating, win_count, loss_count, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)
}

func (r *UserRepository) findOne(query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Rating,
		&user.WinCount,
		&user.LossCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfile overwrites the mutable profile fields. Nil pointers leave
// the corresponding column untouched.
func (r *UserRepository) UpdateProfile(id string, username, passwordHash *string) (*models.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    password_hash = COALESCE($3, password_hash),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, username, email, password_hash, rating, win_count, loss_count, created_at, updated_at
	`

	user := &models.User{}
	err := r.db.QueryRow(query, id, username, passwordHash).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Rating,
		&user.WinCount,
		&user.LossCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Leaderboard returns the top users ordered by rating descending.
func (r *UserRepository) Leaderboard(limit int) ([]*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, rating, win_count, loss_count, created_at, updated_at
		FROM users
		ORDER BY rating DESC, win_count DESC, username ASC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Rating,
			&user.WinCount,
			&user.LossCount,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// ApplyMatchResult mutates both players' ratings and counters in a single
// transaction. The loser's rating is floored in SQL so the clamp and the
// decrement cannot be split by a concurrent reader.
func (r *UserRepository) ApplyMatchResult(winnerID, loserID string, winDelta, lossDelta, floor int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	winnerQuery := `
		UPDATE users
		SET rating = rating + $1, win_count = win_count + 1, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := tx.Exec(winnerQuery, winDelta, winnerID); err != nil {
		return fmt.Errorf("failed to update winner: %w", err)
	}

	loserQuery := `
		UPDATE users
		SET rating = GREATEST($1, rating - $2), loss_count = loss_count + 1, updated_at = NOW()
		WHERE id = $3
	`
	if _, err := tx.Exec(loserQuery, floor, lossDelta, loserID); err != nil {
		return fmt.Errorf("failed to update loser: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating update: %w", err)
	}

	return nil
}
