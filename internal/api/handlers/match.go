package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hrick-08/BeatCode/internal/service"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

type MatchHandler struct {
	matchService   *service.MatchService
	problemService *service.ProblemService
	userService    *service.UserService
}

func NewMatchHandler(
	matchService *service.MatchService,
	problemService *service.ProblemService,
	userService *service.UserService,
) *MatchHandler {
	return &MatchHandler{
		matchService:   matchService,
		problemService: problemService,
		userService:    userService,
	}
}

// GetActive returns the caller's active match together with the problem and
// the opponent's public profile, which is everything the duel screen needs.
func (h *MatchHandler) GetActive(c *gin.Context) {
	userID := c.GetString("userID")

	match, err := h.matchService.FindActiveFor(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveMatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active match"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get active match"})
		return
	}

	response := gin.H{"match": match}

	if problem, err := h.problemService.GetByID(match.ProblemID); err == nil {
		response["problem"] = problem
	} else {
		logger.Warn("Failed to load match problem", "matchId", match.ID, "problemId", match.ProblemID, "error", err)
	}

	if opponentID, ok := match.OpponentOf(userID); ok {
		if opponent, err := h.userService.GetByID(opponentID); err == nil {
			response["opponent"] = opponent.Public()
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetMatch returns one match by id.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matchService.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get match"})
		return
	}

	c.JSON(http.StatusOK, match)
}

// History lists the caller's past and present matches, newest first.
func (h *MatchHandler) History(c *gin.Context) {
	userID := c.GetString("userID")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	matches, err := h.matchService.HistoryFor(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get match history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"page":    page,
		"total":   len(matches),
	})
}
