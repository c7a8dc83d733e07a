package service

import (
	"fmt"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

// Fixed rating deltas applied on match completion. The loser never drops
// below models.RatingFloor.
const (
	RatingWinDelta  = 25
	RatingLossDelta = 25
)

// ratingStore is the slice of the user store the rating updater needs.
type ratingStore interface {
	ApplyMatchResult(winnerID, loserID string, winDelta, lossDelta, floor int) error
}

// RatingService applies win/loss rating deltas. It has no idea whether a
// match was already scored; invoking it at most once per match is the
// completion path's responsibility.
type RatingService struct {
	users ratingStore
}

func NewRatingService(users ratingStore) *RatingService {
	return &RatingService{users: users}
}

// Apply credits the winner and debits the loser in one transaction.
func (s *RatingService) Apply(winnerID, loserID string) error {
	if err := s.users.ApplyMatchResult(winnerID, loserID, RatingWinDelta, RatingLossDelta, models.RatingFloor); err != nil {
		return fmt.Errorf("failed to apply rating update: %w", err)
	}

	logger.Info("Rating update applied",
		"winnerId", winnerID,
		"loserId", loserID,
		"winDelta", RatingWinDelta,
		"lossDelta", RatingLossDelta,
	)

	return nil
}

// LoserRatingAfter computes the floored post-match rating for a loser.
func LoserRatingAfter(before int) int {
	after := before - RatingLossDelta
	if after < models.RatingFloor {
		return models.RatingFloor
	}
	return after
}

// WinnerRatingAfter computes the post-match rating for a winner.
func WinnerRatingAfter(before int) int {
	return before + RatingWinDelta
}
