package service

import (
	"fmt"
	"sync"

	"github.com/Hrick-08/BeatCode/internal/metrics"
	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

// MatchStore is the match persistence contract. CompleteIfActive is a
// compare-and-set on status: it returns the completed match to exactly one
// caller per match id and (nil, nil) to every other. SetPlayerCode reports
// the number of rows it touched so a lost completion race is detectable.
type MatchStore interface {
	Insert(player1ID, player2ID, problemID string) (*models.Match, error)
	FindByID(id string) (*models.Match, error)
	FindActiveByUser(userID string) (*models.Match, error)
	FindByUser(userID string, limit, offset int) ([]*models.Match, error)
	SetPlayerCode(matchID, userID, code string) (int64, error)
	CompleteIfActive(matchID, winnerID string) (*models.Match, error)
}

// MatchService owns match records and their state transitions. It is the
// only writer of status, winner_id and end_time; everything else in the
// system mutates matches through its methods.
type MatchService struct {
	store MatchStore

	// Serializes Create so the at-most-one-active-match check and the
	// insert cannot interleave between two racing pairings.
	createMu sync.Mutex
}

func NewMatchService(store MatchStore) *MatchService {
	return &MatchService{store: store}
}

// Create starts an active match between two distinct players. It fails with
// ErrAlreadyInMatch when either player already has an active match.
func (s *MatchService) Create(player1ID, player2ID, problemID string) (*models.Match, error) {
	if player1ID == player2ID {
		return nil, ErrInvalidPairing
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	for _, playerID := range []string{player1ID, player2ID} {
		active, err := s.store.FindActiveByUser(playerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check active match: %w", err)
		}
		if active != nil {
			return nil, fmt.Errorf("player %s: %w", playerID, ErrAlreadyInMatch)
		}
	}

	match, err := s.store.Insert(player1ID, player2ID, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	metrics.MatchesCreated.Inc()

	logger.Info("Match created",
		"matchId", match.ID,
		"player1", player1ID,
		"player2", player2ID,
		"problemId", problemID,
	)

	return match, nil
}

// FindActiveFor returns the caller's active match, or ErrNoActiveMatch.
func (s *MatchService) FindActiveFor(userID string) (*models.Match, error) {
	match, err := s.store.FindActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active match: %w", err)
	}
	if match == nil {
		return nil, ErrNoActiveMatch
	}

	return match, nil
}

func (s *MatchService) GetByID(id string) (*models.Match, error) {
	match, err := s.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	return match, nil
}

// HistoryFor lists a user's matches, newest first. Completed matches are
// retained forever, so this is the full duel history.
func (s *MatchService) HistoryFor(userID string, page, pageSize int) ([]*models.Match, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize

	matches, err := s.store.FindByUser(userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	return matches, nil
}

// RecordCode stores the submitting player's latest code on the match.
func (s *MatchService) RecordCode(matchID, userID, code string) error {
	match, err := s.store.FindByID(matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return ErrMatchNotFound
	}
	if !match.HasPlayer(userID) {
		return ErrNotParticipant
	}
	if match.Status == models.MatchStatusCompleted {
		return ErrMatchAlreadyCompleted
	}

	n, err := s.store.SetPlayerCode(matchID, userID, code)
	if err != nil {
		return fmt.Errorf("failed to record code: %w", err)
	}
	if n == 0 {
		// The match completed between our read and the guarded write.
		return ErrMatchAlreadyCompleted
	}

	return nil
}

// Complete transitions the match to completed exactly once. Concurrent
// attempts on the same match id all go through the store's compare-and-set;
// every attempt after the first observes ErrMatchAlreadyCompleted.
func (s *MatchService) Complete(matchID, winnerID string) (*models.Match, error) {
	match, err := s.store.FindByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if !match.HasPlayer(winnerID) {
		return nil, ErrNotParticipant
	}

	completed, err := s.store.CompleteIfActive(matchID, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete match: %w", err)
	}
	if completed == nil {
		return nil, ErrMatchAlreadyCompleted
	}

	metrics.MatchesCompleted.Inc()

	logger.Info("Match completed",
		"matchId", matchID,
		"winnerId", winnerID,
	)

	return completed, nil
}
