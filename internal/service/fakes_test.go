package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/judge"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	m.Run()
}

// fakeMatchStore mirrors the SQL repository's semantics in memory, including
// the compare-and-set behavior of CompleteIfActive, so the concurrency tests
// below exercise the same contract the real store provides.
type fakeMatchStore struct {
	mu      sync.Mutex
	matches map[string]*models.Match

	insertErr  error
	insertHook func() // runs before Insert touches the store
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{matches: make(map[string]*models.Match)}
}

func (f *fakeMatchStore) Insert(player1ID, player2ID, problemID string) (*models.Match, error) {
	if f.insertHook != nil {
		f.insertHook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return nil, f.insertErr
	}

	match := &models.Match{
		ID:        uuid.New().String(),
		Player1ID: player1ID,
		Player2ID: player2ID,
		ProblemID: problemID,
		Status:    models.MatchStatusActive,
		StartTime: time.Now(),
	}
	f.matches[match.ID] = match
	return copyMatch(match), nil
}

func (f *fakeMatchStore) FindByID(id string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	match, ok := f.matches[id]
	if !ok {
		return nil, nil
	}
	return copyMatch(match), nil
}

func (f *fakeMatchStore) FindActiveByUser(userID string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, match := range f.matches {
		if match.Status == models.MatchStatusActive && match.HasPlayer(userID) {
			return copyMatch(match), nil
		}
	}
	return nil, nil
}

func (f *fakeMatchStore) FindByUser(userID string, limit, offset int) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*models.Match
	for _, match := range f.matches {
		if match.HasPlayer(userID) {
			all = append(all, copyMatch(match))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.After(all[j].StartTime) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeMatchStore) SetPlayerCode(matchID, userID, code string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	match, ok := f.matches[matchID]
	if !ok || match.Status != models.MatchStatusActive || !match.HasPlayer(userID) {
		return 0, nil
	}

	if match.Player1ID == userID {
		match.CodePlayer1 = &code
	} else {
		match.CodePlayer2 = &code
	}
	return 1, nil
}

func (f *fakeMatchStore) CompleteIfActive(matchID, winnerID string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	match, ok := f.matches[matchID]
	if !ok || match.Status != models.MatchStatusActive {
		return nil, nil
	}

	now := time.Now()
	match.Status = models.MatchStatusCompleted
	match.WinnerID = &winnerID
	match.EndTime = &now
	return copyMatch(match), nil
}

func copyMatch(m *models.Match) *models.Match {
	clone := *m
	return &clone
}

// fakeUserStore applies rating updates with the same floor semantics as the
// SQL transaction.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User

	applyCalls int
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(username, email, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Rating:       models.DefaultRating,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) FindByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByUsername(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateProfile(id string, username, passwordHash *string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}

	if username != nil {
		user.Username = *username
	}
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}

	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) Leaderboard(limit int) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*models.User
	for _, user := range f.users {
		clone := *user
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Rating > all[j].Rating })

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeUserStore) ApplyMatchResult(winnerID, loserID string, winDelta, lossDelta, floor int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applyCalls++

	winner, ok := f.users[winnerID]
	if !ok {
		return errors.New("winner not found")
	}
	loser, ok := f.users[loserID]
	if !ok {
		return errors.New("loser not found")
	}

	winner.Rating += winDelta
	winner.WinCount++

	loser.Rating -= lossDelta
	if loser.Rating < floor {
		loser.Rating = floor
	}
	loser.LossCount++

	return nil
}

func (f *fakeUserStore) rating(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].Rating
}

func (f *fakeUserStore) applyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyCalls
}

// fakeProblemCatalog upserts by title like the SQL repository, so concurrent
// seeding converges on one row.
type fakeProblemCatalog struct {
	mu      sync.Mutex
	byTitle map[string]*models.Problem
	upserts int
	pickErr error
}

func newFakeProblemCatalog() *fakeProblemCatalog {
	return &fakeProblemCatalog{byTitle: make(map[string]*models.Problem)}
}

func (f *fakeProblemCatalog) FindByID(id string) (*models.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.byTitle {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeProblemCatalog) PickAny() (*models.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pickErr != nil {
		return nil, f.pickErr
	}

	for _, p := range f.byTitle {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeProblemCatalog) Upsert(p *models.Problem) (*models.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upserts++

	if existing, ok := f.byTitle[p.Title]; ok {
		clone := *existing
		return &clone, nil
	}

	stored := *p
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()
	f.byTitle[p.Title] = &stored

	clone := stored
	return &clone, nil
}

func (f *fakeProblemCatalog) problemCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byTitle)
}

// fakeSubmissionStore is an append-only log.
type fakeSubmissionStore struct {
	mu   sync.Mutex
	subs []*models.Submission
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{}
}

func (f *fakeSubmissionStore) Create(userID, matchID, code, language, result string) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &models.Submission{
		ID:        uuid.New().String(),
		UserID:    userID,
		MatchID:   matchID,
		Code:      code,
		Language:  language,
		Result:    result,
		CreatedAt: time.Now(),
	}
	f.subs = append(f.subs, sub)
	clone := *sub
	return &clone, nil
}

func (f *fakeSubmissionStore) FindByMatch(matchID string) ([]*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Submission
	for _, sub := range f.subs {
		if sub.MatchID == matchID {
			clone := *sub
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// fakeJudge returns a scripted verdict per call.
type fakeJudge struct {
	verdict *judge.Verdict
	err     error
	delay   time.Duration
}

func (f *fakeJudge) Evaluate(ctx context.Context, code, language string) (*judge.Verdict, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.verdict, nil
}

func acceptingJudge() *fakeJudge {
	return &fakeJudge{verdict: &judge.Verdict{Status: models.VerdictAccepted, Message: "All test cases passed"}}
}

func rejectingJudge() *fakeJudge {
	return &fakeJudge{verdict: &judge.Verdict{Status: models.VerdictWrongAnswer, Message: "Failed on test case 2"}}
}
