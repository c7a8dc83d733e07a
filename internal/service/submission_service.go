package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hrick-08/BeatCode/internal/metrics"
	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/internal/websocket"
	"github.com/Hrick-08/BeatCode/pkg/judge"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

// SubmissionStore persists grading attempts. Records are append-only.
type SubmissionStore interface {
	Create(userID, matchID, code, language, result string) (*models.Submission, error)
	FindByMatch(matchID string) ([]*models.Submission, error)
}

// Judge grades a submission in a single blocking round trip.
type Judge interface {
	Evaluate(ctx context.Context, code, language string) (*judge.Verdict, error)
}

// SubmitResult is the outcome of one submit call. MatchCompleted is true
// only for the call whose accepted verdict actually completed the match; a
// caller that loses the completion race gets false and the standing outcome.
type SubmitResult struct {
	Submission     *models.Submission
	Verdict        *judge.Verdict
	MatchCompleted bool
}

// SubmissionService drives a submission through validation, grading,
// persistence and, on acceptance, match completion with a rating update.
type SubmissionService struct {
	submissions   SubmissionStore
	matchService  *MatchService
	ratingService *RatingService
	judge         Judge
	hub           *websocket.Hub // optional
}

func NewSubmissionService(
	submissions SubmissionStore,
	matchService *MatchService,
	ratingService *RatingService,
	judgeClient Judge,
	hub *websocket.Hub,
) *SubmissionService {
	return &SubmissionService{
		submissions:   submissions,
		matchService:  matchService,
		ratingService: ratingService,
		judge:         judgeClient,
		hub:           hub,
	}
}

// Submit grades code for an active match. Every graded attempt persists a
// Submission record, judge failures included: a timeout or transport error
// is folded into a runtime_error verdict and the match stays active so the
// player can resubmit.
func (s *SubmissionService) Submit(ctx context.Context, matchID, userID, code, language string) (*SubmitResult, error) {
	if !judge.SupportsLanguage(language) {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, language)
	}

	// Validates existence, participation and active status in one step.
	if err := s.matchService.RecordCode(matchID, userID, code); err != nil {
		return nil, err
	}

	// The judge call holds no lock on match state; a slow grading run never
	// blocks the opponent.
	verdict, err := s.judge.Evaluate(ctx, code, language)
	if err != nil {
		logger.Warn("Judge unavailable, recording submission as runtime_error",
			"matchId", matchID,
			"userId", userID,
			"error", err,
		)
		verdict = &judge.Verdict{
			Status:  models.VerdictRuntimeError,
			Message: "judge unavailable: " + err.Error(),
		}
	}

	submission, err := s.submissions.Create(userID, matchID, code, language, verdict.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	metrics.Submissions.WithLabelValues(verdict.Status).Inc()

	result := &SubmitResult{
		Submission: submission,
		Verdict:    verdict,
	}

	if verdict.Accepted() {
		completed, err := s.finishMatch(matchID, userID)
		if err != nil {
			return nil, err
		}
		result.MatchCompleted = completed != nil
	}

	logger.Info("Submission processed",
		"submissionId", submission.ID,
		"matchId", matchID,
		"userId", userID,
		"verdict", verdict.Status,
		"matchCompleted", result.MatchCompleted,
	)

	return result, nil
}

// ReportResult is the manual completion path: equivalent to an accepted
// verdict for userID without invoking the judge. When the match was already
// completed by a racing submission or report, the standing outcome is
// returned unchanged and no rating is touched.
func (s *SubmissionService) ReportResult(matchID, userID string) (*models.Match, error) {
	completed, err := s.finishMatch(matchID, userID)
	if err != nil {
		return nil, err
	}
	if completed == nil {
		// Lost the completion race; hand back the final state.
		return s.matchService.GetByID(matchID)
	}

	return completed, nil
}

// SubmissionsForMatch lists a match's grading attempts for a participant.
func (s *SubmissionService) SubmissionsForMatch(matchID, requesterID string) ([]*models.Submission, error) {
	match, err := s.matchService.GetByID(matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(requesterID) {
		return nil, ErrNotParticipant
	}

	return s.submissions.FindByMatch(matchID)
}

// finishMatch completes the match for winnerID and applies the rating
// update. It returns (nil, nil) when another completion won the race, in
// which case no rating is applied: the single-completion guarantee of
// MatchService.Complete is what keeps rating updates exactly-once.
func (s *SubmissionService) finishMatch(matchID, winnerID string) (*models.Match, error) {
	match, err := s.matchService.Complete(matchID, winnerID)
	if errors.Is(err, ErrMatchAlreadyCompleted) {
		logger.Info("Completion race lost, existing outcome stands",
			"matchId", matchID,
			"userId", winnerID,
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	loserID, _ := match.OpponentOf(winnerID)
	if err := s.ratingService.Apply(winnerID, loserID); err != nil {
		// The match outcome stands; the rating write is the only casualty.
		logger.Error("Failed to apply rating update",
			"matchId", matchID,
			"winnerId", winnerID,
			"error", err,
		)
	}

	if s.hub != nil {
		s.hub.NotifyMatchCompleted(match)
	}

	return match, nil
}
