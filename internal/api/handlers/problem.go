package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hrick-08/BeatCode/internal/service"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: problemService}
}

// GetProblem returns one problem by id.
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	problem, err := h.problemService.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get problem"})
		return
	}

	c.JSON(http.StatusOK, problem)
}
