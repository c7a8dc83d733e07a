package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hrick-08/BeatCode/internal/models"
)

func newMatchService(t *testing.T) (*MatchService, *fakeMatchStore) {
	t.Helper()
	store := newFakeMatchStore()
	return NewMatchService(store), store
}

func TestMatchCreate(t *testing.T) {
	svc, _ := newMatchService(t)

	match, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, match.Status)
	assert.Equal(t, "p1", match.Player1ID)
	assert.Equal(t, "p2", match.Player2ID)
	assert.Nil(t, match.WinnerID)
}

func TestMatchCreateRejectsSelfPairing(t *testing.T) {
	svc, _ := newMatchService(t)

	_, err := svc.Create("p1", "p1", "prob")
	assert.ErrorIs(t, err, ErrInvalidPairing)
}

func TestMatchCreateRejectsBusyPlayer(t *testing.T) {
	svc, _ := newMatchService(t)

	_, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	_, err = svc.Create("p1", "p3", "prob")
	assert.ErrorIs(t, err, ErrAlreadyInMatch)

	_, err = svc.Create("p4", "p2", "prob")
	assert.ErrorIs(t, err, ErrAlreadyInMatch)
}

func TestMatchCreateAllowsRematchAfterCompletion(t *testing.T) {
	svc, _ := newMatchService(t)

	match, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	_, err = svc.Complete(match.ID, "p1")
	require.NoError(t, err)

	_, err = svc.Create("p1", "p2", "prob")
	assert.NoError(t, err)
}

func TestFindActiveFor(t *testing.T) {
	svc, _ := newMatchService(t)

	_, err := svc.FindActiveFor("p1")
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	created, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	found, err := svc.FindActiveFor("p2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRecordCode(t *testing.T) {
	svc, store := newMatchService(t)

	match, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	require.NoError(t, svc.RecordCode(match.ID, "p1", "def solve(): pass"))
	require.NoError(t, svc.RecordCode(match.ID, "p2", "function solve() {}"))

	stored, err := store.FindByID(match.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CodePlayer1)
	require.NotNil(t, stored.CodePlayer2)
	assert.Equal(t, "def solve(): pass", *stored.CodePlayer1)
	assert.Equal(t, "function solve() {}", *stored.CodePlayer2)

	// Latest write wins.
	require.NoError(t, svc.RecordCode(match.ID, "p1", "def solve(): return 1"))
	stored, _ = store.FindByID(match.ID)
	assert.Equal(t, "def solve(): return 1", *stored.CodePlayer1)
}

func TestRecordCodeValidation(t *testing.T) {
	svc, _ := newMatchService(t)

	match, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RecordCode("missing", "p1", "x"), ErrMatchNotFound)
	assert.ErrorIs(t, svc.RecordCode(match.ID, "stranger", "x"), ErrNotParticipant)

	_, err = svc.Complete(match.ID, "p1")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.RecordCode(match.ID, "p1", "x"), ErrMatchAlreadyCompleted)
}

func TestCompleteSetsOutcome(t *testing.T) {
	svc, _ := newMatchService(t)

	match, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	completed, err := svc.Complete(match.ID, "p2")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, completed.Status)
	require.NotNil(t, completed.WinnerID)
	assert.Equal(t, "p2", *completed.WinnerID)
	assert.NotNil(t, completed.EndTime)
}

func TestCompleteValidation(t *testing.T) {
	svc, _ := newMatchService(t)

	match, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	_, err = svc.Complete("missing", "p1")
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = svc.Complete(match.ID, "stranger")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestCompleteExactlyOnce(t *testing.T) {
	svc, _ := newMatchService(t)

	match, err := svc.Create("p1", "p2", "prob")
	require.NoError(t, err)

	const workers = 50
	winners := []string{"p1", "p2"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var completions int
	var races int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Complete(match.ID, winners[i%2])

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				completions++
			case err == ErrMatchAlreadyCompleted:
				races++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, completions)
	assert.Equal(t, workers-1, races)

	final, err := svc.GetByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, final.Status)
	require.NotNil(t, final.WinnerID)
	assert.True(t, final.HasPlayer(*final.WinnerID))
}

func TestHistoryFor(t *testing.T) {
	svc, _ := newMatchService(t)

	for i := 0; i < 3; i++ {
		match, err := svc.Create("p1", "p2", "prob")
		require.NoError(t, err)
		_, err = svc.Complete(match.ID, "p1")
		require.NoError(t, err)
	}

	history, err := svc.HistoryFor("p1", 1, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = svc.HistoryFor("p1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	history, err = svc.HistoryFor("nobody", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
