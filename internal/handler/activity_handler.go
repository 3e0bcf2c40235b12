package handler

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"goals-service/internal/middleware"
	"goals-service/internal/models"
	"goals-service/internal/repository"
	"goals-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	friends *service.FriendService
	goals   repository.GoalRepository
	tasks   repository.TaskRepository
	users   repository.UserRepository
}

func NewActivityHandler(
	friends *service.FriendService,
	goals repository.GoalRepository,
	tasks repository.TaskRepository,
	users repository.UserRepository,
) *ActivityHandler {
	return &ActivityHandler{friends: friends, goals: goals, tasks: tasks, users: users}
}

type activityEntry struct {
	Type      string       `json:"type"`
	User      activityUser `json:"user"`
	Goal      interface{}  `json:"goal,omitempty"`
	Task      interface{}  `json:"task,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

type activityUser struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

// Feed returns the caller's friends' recent goals and progress, newest
// first.
func (h *ActivityHandler) Feed(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	friendIDs, err := h.friends.AcceptedFriendIDs(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve friends"})
		return
	}
	if len(friendIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"activities": []activityEntry{}})
		return
	}

	recentGoals, err := h.goals.RecentActiveByUserIDs(ctx, friendIDs, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	recentTasks, err := h.tasks.RecentByUserIDs(ctx, friendIDs, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}

	userRefs, err := h.userRefs(ctx, recentGoals, recentTasks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}

	activities := make([]activityEntry, 0, len(recentGoals)+len(recentTasks))
	for _, goal := range recentGoals {
		activities = append(activities, activityEntry{
			Type: "goal.created",
			User: userRefs[goal.UserID],
			Goal: gin.H{"id": goal.ID, "title": goal.Title, "type": goal.Type},
			Timestamp: goal.CreatedAt,
		})
	}
	for _, task := range recentTasks {
		activities = append(activities, activityEntry{
			Type: "progress.updated",
			User: userRefs[task.UserID],
			Task: gin.H{
				"id":         task.ID,
				"date":       task.Date,
				"completed":  task.Completed,
				"percentage": task.Percentage,
				"value":      task.Value,
			},
			Goal:      gin.H{"id": task.GoalID},
			Timestamp: task.UpdatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

func (h *ActivityHandler) userRefs(ctx context.Context, goals []models.Goal, tasks []models.Task) (map[uint]activityUser, error) {
	seen := make(map[uint]bool)
	ids := make([]uint, 0)
	for _, g := range goals {
		if !seen[g.UserID] {
			seen[g.UserID] = true
			ids = append(ids, g.UserID)
		}
	}
	for _, t := range tasks {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			ids = append(ids, t.UserID)
		}
	}

	users, err := h.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	refs := make(map[uint]activityUser, len(users))
	for _, u := range users {
		refs[u.ID] = activityUser{ID: u.ID, UUID: u.UUID, Username: u.Username}
	}
	return refs, nil
}
