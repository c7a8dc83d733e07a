package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/internal/service"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Submit grades the caller's code for their match. A non-accepting verdict
// is a successful request; only validation and persistence failures map to
// error statuses.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")

	result, err := h.submissionService.Submit(c.Request.Context(), req.MatchID, userID, req.Code, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this match"})
		case errors.Is(err, service.ErrMatchAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Match already completed"})
		default:
			logger.Error("Submission failed", "matchId", req.MatchID, "userId", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process submission"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission":      result.Submission,
		"verdict":         result.Verdict,
		"match_completed": result.MatchCompleted,
	})
}

// ReportResult manually completes a match in the caller's favor. When a
// racing submission already completed the match, the standing outcome is
// returned unchanged.
func (h *SubmissionHandler) ReportResult(c *gin.Context) {
	userID := c.GetString("userID")
	matchID := c.Param("id")

	match, err := h.submissionService.ReportResult(matchID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this match"})
		default:
			logger.Error("Failed to report match result", "matchId", matchID, "userId", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report result"})
		}
		return
	}

	c.JSON(http.StatusOK, match)
}

// ListByMatch returns a match's submissions to its participants.
func (h *SubmissionHandler) ListByMatch(c *gin.Context) {
	userID := c.GetString("userID")
	matchID := c.Param("id")

	submissions, err := h.submissionService.SubmissionsForMatch(matchID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this match"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list submissions"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       len(submissions),
	})
}
