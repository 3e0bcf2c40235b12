package handler

import (
	"errors"
	"net/http"
	"strconv"

	"goals-service/internal/middleware"
	"goals-service/internal/models"
	"goals-service/internal/repository"
	"goals-service/internal/service"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	friends  *service.FriendService
	presence repository.PresenceRepository
}

func NewFriendHandler(friends *service.FriendService, presence repository.PresenceRepository) *FriendHandler {
	return &FriendHandler{friends: friends, presence: presence}
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := middleware.UserID(c)

	var input models.FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	friend, err := h.friends.SendRequest(c.Request.Context(), userID, input.RecipientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFriendship), errors.Is(err, service.ErrFriendshipExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send friend request"})
		}
		return
	}

	c.JSON(http.StatusCreated, friend)
}

func (h *FriendHandler) Accept(c *gin.Context) {
	h.respond(c, true)
}

func (h *FriendHandler) Reject(c *gin.Context) {
	h.respond(c, false)
}

func (h *FriendHandler) respond(c *gin.Context, accept bool) {
	userID := middleware.UserID(c)

	friendshipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friendship id"})
		return
	}

	friend, err := h.friends.Respond(c.Request.Context(), uint(friendshipID), userID, accept)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFriendshipNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotRequestRecipient):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRequestNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to respond to friend request"})
		}
		return
	}

	c.JSON(http.StatusOK, friend)
}

func (h *FriendHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	friends, err := h.friends.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// Online returns the subset of the caller's accepted friends that are
// currently marked online.
func (h *FriendHandler) Online(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	friendIDs, err := h.friends.AcceptedFriendIDs(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve friends"})
		return
	}

	online, err := h.presence.OnlineSubset(ctx, friendIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve presence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"onlineFriends": online})
}
