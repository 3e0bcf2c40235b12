package service

import (
	"context"
	"errors"

	"goals-service/internal/models"
	"goals-service/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrSelfFriendship      = errors.New("cannot befriend yourself")
	ErrFriendshipExists    = errors.New("friendship already exists")
	ErrFriendshipNotFound  = errors.New("friendship not found")
	ErrNotRequestRecipient = errors.New("only the recipient can answer a friend request")
	ErrRequestNotPending   = errors.New("friend request is not pending")
)

// FriendService implements the friendship workflow and the social graph
// lookup used for event fan-out.
type FriendService struct {
	friends repository.FriendRepository
}

func NewFriendService(friends repository.FriendRepository) *FriendService {
	return &FriendService{friends: friends}
}

// SendRequest creates a pending friendship from requester to recipient.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, recipientID uint) (*models.Friend, error) {
	if requesterID == recipientID {
		return nil, ErrSelfFriendship
	}

	if _, err := s.friends.FindPair(ctx, requesterID, recipientID); err == nil {
		return nil, ErrFriendshipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	friend := &models.Friend{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.FriendStatusPending,
	}
	if err := s.friends.Create(ctx, friend); err != nil {
		return nil, err
	}
	return friend, nil
}

// Respond accepts or rejects a pending request. Only the recipient may
// answer it.
func (s *FriendService) Respond(ctx context.Context, friendshipID, userID uint, accept bool) (*models.Friend, error) {
	friend, err := s.friends.FindByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}

	if friend.RecipientID != userID {
		return nil, ErrNotRequestRecipient
	}
	if friend.Status != models.FriendStatusPending {
		return nil, ErrRequestNotPending
	}

	status := models.FriendStatusRejected
	if accept {
		status = models.FriendStatusAccepted
	}
	if err := s.friends.UpdateStatus(ctx, friendshipID, status); err != nil {
		return nil, err
	}
	friend.Status = status
	return friend, nil
}

// List returns every friendship the user is part of, with the other side's
// identity filled in.
func (s *FriendService) List(ctx context.Context, userID uint) ([]models.FriendResponse, error) {
	friends, err := s.friends.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.FriendResponse, 0, len(friends))
	for _, f := range friends {
		other := f.Recipient
		otherID := f.RecipientID
		if f.RecipientID == userID {
			other = f.Requester
			otherID = f.RequesterID
		}
		responses = append(responses, models.FriendResponse{
			FriendshipID: f.ID,
			UserID:       otherID,
			UUID:         other.UUID,
			Username:     other.Username,
			Status:       f.Status,
		})
	}
	return responses, nil
}

// AcceptedFriendIDs returns the IDs of the user's accepted friends: the
// union of recipients where the user requested and requesters where the
// user received. Resolved fresh on every call, no caching.
func (s *FriendService) AcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	asRequester, err := s.friends.AcceptedByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	asRecipient, err := s.friends.AcceptedByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(asRequester)+len(asRecipient))
	for _, f := range asRequester {
		ids = append(ids, f.RecipientID)
	}
	for _, f := range asRecipient {
		ids = append(ids, f.RequesterID)
	}
	return ids, nil
}
