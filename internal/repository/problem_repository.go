package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/database"
)

type ProblemRepository struct {
	db *database.DB
}

func NewProblemRepository(db *database.DB) *ProblemRepository {
	return &ProblemRepository{db: db}
}

func (r *ProblemRepository) FindByID(id string) (*models.Problem, error) {
	query := `
		SELECT id, title, description, input_format, output_format, test_cases, difficulty, created_at
		FROM problems
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// PickAny returns the oldest problem in the catalog, or (nil, nil) when the
// catalog is empty.
func (r *ProblemRepository) PickAny() (*models.Problem, error) {
	query := `
		SELECT id, title, description, input_format, output_format, test_cases, difficulty, created_at
		FROM problems
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query))
}

// Upsert inserts a problem keyed by title and returns the stored row. A
// second insert with the same title returns the existing row instead of
// creating a duplicate, which makes concurrent catalog seeding safe.
func (r *ProblemRepository) Upsert(p *models.Problem) (*models.Problem, error) {
	query := `
		INSERT INTO problems (id, title, description, input_format, output_format, test_cases, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
		RETURNING id, title, description, input_format, output_format, test_cases, difficulty, created_at
	`

	stored, err := r.scanOne(r.db.QueryRow(query,
		uuid.New().String(),
		p.Title,
		p.Description,
		p.InputFormat,
		p.OutputFormat,
		p.TestCases,
		p.Difficulty,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert problem: %w", err)
	}

	return stored, nil
}

func (r *ProblemRepository) scanOne(row *sql.Row) (*models.Problem, error) {
	problem := &models.Problem{}
	err := row.Scan(
		&problem.ID,
		&problem.Title,
		&problem.Description,
		&problem.InputFormat,
		&problem.OutputFormat,
		&problem.TestCases,
		&problem.Difficulty,
		&problem.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}

	return problem, nil
}
