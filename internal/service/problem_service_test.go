package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hrick-08/BeatCode/internal/models"
)

func TestSelectForNewMatchSeedsEmptyCatalog(t *testing.T) {
	catalog := newFakeProblemCatalog()
	svc := NewProblemService(catalog)

	problem, err := svc.SelectForNewMatch()
	require.NoError(t, err)
	require.NotNil(t, problem)
	assert.Equal(t, "Two Sum", problem.Title)
	assert.Equal(t, 1, catalog.problemCount())

	cases, err := problem.ParsedTestCases()
	require.NoError(t, err)
	assert.NotEmpty(t, cases)
}

func TestSelectForNewMatchReusesExistingProblem(t *testing.T) {
	catalog := newFakeProblemCatalog()
	seeded, err := catalog.Upsert(&models.Problem{Title: "Reverse String", Description: "d", Difficulty: "easy", TestCases: "[]"})
	require.NoError(t, err)

	problem, err := NewProblemService(catalog).SelectForNewMatch()
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, problem.ID)
	assert.Equal(t, 1, catalog.problemCount())
	assert.Equal(t, 1, catalog.upserts)
}

func TestConcurrentSeedingInsertsOneProblem(t *testing.T) {
	catalog := newFakeProblemCatalog()
	svc := NewProblemService(catalog)

	const workers = 20
	ids := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			problem, err := svc.SelectForNewMatch()
			if assert.NoError(t, err) {
				ids[i] = problem.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, catalog.problemCount())
	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewProblemService(newFakeProblemCatalog())

	_, err := svc.GetByID("missing")
	assert.ErrorIs(t, err, ErrProblemNotFound)
}
