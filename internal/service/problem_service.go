package service

import (
	"fmt"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

// ProblemCatalog is the problem storage contract. PickAny returns (nil, nil)
// on an empty catalog; Upsert is keyed on title and must return the existing
// row instead of inserting a duplicate.
type ProblemCatalog interface {
	FindByID(id string) (*models.Problem, error)
	PickAny() (*models.Problem, error)
	Upsert(p *models.Problem) (*models.Problem, error)
}

// ProblemService picks problems for new matches. It never mutates an
// existing problem; its only write is provisioning the seed problem when the
// catalog is empty.
type ProblemService struct {
	catalog ProblemCatalog
}

func NewProblemService(catalog ProblemCatalog) *ProblemService {
	return &ProblemService{catalog: catalog}
}

// SelectForNewMatch returns an eligible problem, seeding the catalog with
// the default problem when it is empty. Seeding is idempotent: concurrent
// empty-catalog calls all converge on the same single row because the upsert
// is keyed on title.
func (s *ProblemService) SelectForNewMatch() (*models.Problem, error) {
	problem, err := s.catalog.PickAny()
	if err != nil {
		return nil, fmt.Errorf("failed to pick problem: %w", err)
	}
	if problem != nil {
		return problem, nil
	}

	logger.Warn("Problem catalog is empty, provisioning seed problem")

	seeded, err := s.catalog.Upsert(SeedProblem())
	if err != nil {
		return nil, fmt.Errorf("failed to seed problem catalog: %w", err)
	}

	return seeded, nil
}

// GetByID fetches a problem for display.
func (s *ProblemService) GetByID(id string) (*models.Problem, error) {
	problem, err := s.catalog.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}

	return problem, nil
}

// SeedProblem is the fixed default problem provisioned on an empty catalog.
func SeedProblem() *models.Problem {
	return &models.Problem{
		Title: "Two Sum",
		Description: "Given an array of integers nums and an integer target, " +
			"return indices of the two numbers such that they add up to target.",
		InputFormat:  "First line: array of integers\nSecond line: target integer",
		OutputFormat: "Two integers representing the indices",
		TestCases: `[{"input":"[2,7,11,15]\n9","output":"0 1"},` +
			`{"input":"[3,2,4]\n6","output":"1 2"}]`,
		Difficulty: "easy",
	}
}
