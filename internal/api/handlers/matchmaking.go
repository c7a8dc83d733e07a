package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hrick-08/BeatCode/internal/service"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

type MatchmakingHandler struct {
	matchmakingService *service.MatchmakingService
}

func NewMatchmakingHandler(matchmakingService *service.MatchmakingService) *MatchmakingHandler {
	return &MatchmakingHandler{matchmakingService: matchmakingService}
}

// Join adds the caller to the queue. When an opponent is already waiting the
// response carries the created match; otherwise it carries the queue position.
func (h *MatchmakingHandler) Join(c *gin.Context) {
	userID := c.GetString("userID")

	result, err := h.matchmakingService.Join(userID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyInMatch) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already have an active match"})
			return
		}

		logger.Error("Matchmaking join failed", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join matchmaking"})
		return
	}

	if result.Paired {
		c.JSON(http.StatusOK, gin.H{
			"status": "matched",
			"match":  result.Match,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "waiting",
		"position": result.Position,
	})
}

// Leave removes the caller from the queue.
func (h *MatchmakingHandler) Leave(c *gin.Context) {
	userID := c.GetString("userID")

	if !h.matchmakingService.Leave(userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not in the queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

// Status reports how many users are waiting.
func (h *MatchmakingHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"waiting": h.matchmakingService.WaitingCount(),
	})
}
