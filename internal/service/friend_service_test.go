package service

import (
	"context"
	"testing"

	"goals-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFriendRepo struct {
	friends map[uint]*models.Friend
	nextID  uint
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{
		friends: make(map[uint]*models.Friend),
		nextID:  1,
	}
}

func (r *fakeFriendRepo) Create(_ context.Context, friend *models.Friend) error {
	friend.ID = r.nextID
	r.nextID++
	r.friends[friend.ID] = friend
	return nil
}

func (r *fakeFriendRepo) FindByID(_ context.Context, id uint) (*models.Friend, error) {
	friend, ok := r.friends[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return friend, nil
}

func (r *fakeFriendRepo) FindPair(_ context.Context, userA, userB uint) (*models.Friend, error) {
	for _, f := range r.friends {
		if (f.RequesterID == userA && f.RecipientID == userB) ||
			(f.RequesterID == userB && f.RecipientID == userA) {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFriendRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	friend, ok := r.friends[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	friend.Status = status
	return nil
}

func (r *fakeFriendRepo) AcceptedByRequester(_ context.Context, userID uint) ([]models.Friend, error) {
	var out []models.Friend
	for _, f := range r.friends {
		if f.RequesterID == userID && f.Status == models.FriendStatusAccepted {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFriendRepo) AcceptedByRecipient(_ context.Context, userID uint) ([]models.Friend, error) {
	var out []models.Friend
	for _, f := range r.friends {
		if f.RecipientID == userID && f.Status == models.FriendStatusAccepted {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFriendRepo) ListByUserID(_ context.Context, userID uint) ([]models.Friend, error) {
	var out []models.Friend
	for _, f := range r.friends {
		if f.RequesterID == userID || f.RecipientID == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func TestSendRequestCreatesPending(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())

	friend, err := s.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), friend.RequesterID)
	assert.Equal(t, uint(2), friend.RecipientID)
	assert.Equal(t, models.FriendStatusPending, friend.Status)
}

func TestSendRequestRejectsSelf(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())

	_, err := s.SendRequest(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfFriendship)
}

func TestSendRequestRejectsExistingPairEitherDirection(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())
	_, err := s.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = s.SendRequest(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrFriendshipExists)

	_, err = s.SendRequest(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrFriendshipExists)
}

func TestRespondAccept(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())
	req, err := s.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)

	friend, err := s.Respond(context.Background(), req.ID, 2, true)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusAccepted, friend.Status)
}

func TestRespondReject(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())
	req, err := s.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)

	friend, err := s.Respond(context.Background(), req.ID, 2, false)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusRejected, friend.Status)
}

func TestRespondOnlyRecipientMayAnswer(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())
	req, err := s.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = s.Respond(context.Background(), req.ID, 1, true)
	assert.ErrorIs(t, err, ErrNotRequestRecipient)

	_, err = s.Respond(context.Background(), req.ID, 3, true)
	assert.ErrorIs(t, err, ErrNotRequestRecipient)
}

func TestRespondRequiresPending(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())
	req, err := s.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = s.Respond(context.Background(), req.ID, 2, true)
	require.NoError(t, err)

	_, err = s.Respond(context.Background(), req.ID, 2, false)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestRespondUnknownFriendship(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())

	_, err := s.Respond(context.Background(), 999, 2, true)
	assert.ErrorIs(t, err, ErrFriendshipNotFound)
}

func TestAcceptedFriendIDsUnionsBothDirections(t *testing.T) {
	repo := newFakeFriendRepo()
	s := NewFriendService(repo)

	// 1 requested 2, accepted. 3 requested 1, accepted. 1 requested 4,
	// still pending. 5 requested 1, rejected.
	req12, _ := s.SendRequest(context.Background(), 1, 2)
	s.Respond(context.Background(), req12.ID, 2, true)
	req31, _ := s.SendRequest(context.Background(), 3, 1)
	s.Respond(context.Background(), req31.ID, 1, true)
	s.SendRequest(context.Background(), 1, 4)
	req51, _ := s.SendRequest(context.Background(), 5, 1)
	s.Respond(context.Background(), req51.ID, 1, false)

	ids, err := s.AcceptedFriendIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{2, 3}, ids)
}

func TestAcceptedFriendIDsEmptyGraph(t *testing.T) {
	s := NewFriendService(newFakeFriendRepo())

	ids, err := s.AcceptedFriendIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListShowsOtherSide(t *testing.T) {
	repo := newFakeFriendRepo()
	s := NewFriendService(repo)

	req, err := s.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)
	repo.friends[req.ID].Recipient = models.User{Username: "bob", UUID: "uuid-bob"}

	responses, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, uint(2), responses[0].UserID)
	assert.Equal(t, "bob", responses[0].Username)
	assert.Equal(t, models.FriendStatusPending, responses[0].Status)

	// The same friendship seen from the recipient shows the requester.
	repo.friends[req.ID].Requester = models.User{Username: "alice", UUID: "uuid-alice"}
	responses, err = s.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, uint(1), responses[0].UserID)
	assert.Equal(t, "alice", responses[0].Username)
}
