package handler

import (
	"net/http"

	"goals-service/internal/middleware"
	"goals-service/internal/repository"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	goals repository.GoalRepository
}

func NewGoalHandler(goals repository.GoalRepository) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// List returns every goal the caller owns, active and deactivated alike.
// Mutations go through the websocket actions; this is the read side.
func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	goals, err := h.goals.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list goals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}
