package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"goals-service/internal/models"
	"goals-service/internal/repository"
)

// fakeConn implements the Conn interface for testing.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

var errConnClosed = errors.New("connection closed")

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errConnClosed
	}
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, nil, errConnClosed
	}
	return 0, nil, errConnClosed
}

func (f *fakeConn) SetReadLimit(int64)                     {}
func (f *fakeConn) SetReadDeadline(time.Time) error        { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error       { return nil }
func (f *fakeConn) SetPongHandler(func(string) error)      {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu        sync.Mutex
	friends   map[uint][]uint
	owners    map[string]map[uint]uint
	goals     map[uint]*models.Goal
	tasks     map[uint]*models.Task
	comments  []*models.Comment
	reactions []*models.Reaction
	nextID    uint

	friendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		friends: make(map[uint][]uint),
		owners: map[string]map[uint]uint{
			models.TargetTypeGoal:    {},
			models.TargetTypeTask:    {},
			models.TargetTypeComment: {},
		},
		goals:  make(map[uint]*models.Goal),
		tasks:  make(map[uint]*models.Task),
		nextID: 1,
	}
}

// befriend records an accepted friendship in both directions.
func (s *fakeStore) befriend(a, b uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[a] = append(s.friends[a], b)
	s.friends[b] = append(s.friends[b], a)
}

func (s *fakeStore) addGoal(userID uint, title string) *models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal := &models.Goal{
		UserID:   userID,
		Title:    title,
		Type:     models.GoalTypeOneTime,
		IsActive: true,
	}
	goal.ID = s.nextID
	s.nextID++
	s.goals[goal.ID] = goal
	s.owners[models.TargetTypeGoal][goal.ID] = userID
	return goal
}

func (s *fakeStore) AcceptedFriendIDs(_ context.Context, userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.friendErr != nil {
		return nil, s.friendErr
	}
	return append([]uint(nil), s.friends[userID]...), nil
}

func (s *fakeStore) FindOwner(_ context.Context, targetType string, targetID uint) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byType, ok := s.owners[targetType]
	if !ok {
		return 0, repository.ErrNotFound
	}
	owner, ok := byType[targetID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return owner, nil
}

func (s *fakeStore) CreateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal.ID = s.nextID
	s.nextID++
	s.goals[goal.ID] = goal
	s.owners[models.TargetTypeGoal][goal.ID] = goal.UserID
	return nil
}

func (s *fakeStore) FindGoal(_ context.Context, id uint) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return goal, nil
}

func (s *fakeStore) UpdateGoal(_ context.Context, id uint, updates map[string]interface{}) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if title, ok := updates["title"].(string); ok {
		goal.Title = title
	}
	return goal, nil
}

func (s *fakeStore) DeactivateGoal(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return repository.ErrNotFound
	}
	goal.IsActive = false
	return nil
}

func (s *fakeStore) UpsertTask(_ context.Context, goalID, userID uint, date time.Time, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &models.Task{GoalID: goalID, UserID: userID, Date: models.TruncateToDay(date)}
	task.ID = s.nextID
	s.nextID++
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Value != nil {
		task.Value = *patch.Value
	}
	if patch.Percentage != nil {
		task.Percentage = *patch.Percentage
	}
	if patch.Notes != nil {
		task.Notes = *patch.Notes
	}
	s.tasks[task.ID] = task
	s.owners[models.TargetTypeTask][task.ID] = userID
	return task, nil
}

func (s *fakeStore) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment.ID = s.nextID
	s.nextID++
	s.comments = append(s.comments, comment)
	s.owners[models.TargetTypeComment][comment.ID] = comment.UserID
	return nil
}

func (s *fakeStore) UpsertReaction(_ context.Context, reaction *models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reaction.ID = s.nextID
	s.nextID++
	s.reactions = append(s.reactions, reaction)
	return nil
}

// fakeAuth resolves tokens from a fixed table.
type fakeAuth struct {
	users map[string]*models.User
}

var errBadToken = errors.New("invalid or expired token")

func (a *fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	user, ok := a.users[token]
	if !ok {
		return nil, errBadToken
	}
	return user, nil
}

// fakePresence records transitions.
type fakePresence struct {
	mu      sync.Mutex
	online  []uint
	offline []uint
}

func (p *fakePresence) SetOnline(_ context.Context, userID uint) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = append(p.online, userID)
	return nil
}

func (p *fakePresence) SetOffline(_ context.Context, userID uint) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offline = append(p.offline, userID)
	return nil
}

func testUser(id uint, username string) *models.User {
	user := &models.User{Username: username, Email: username + "@example.com", UUID: "uuid-" + username}
	user.ID = id
	return user
}

func newTestHub(store *fakeStore, auth *fakeAuth) (*Hub, *fakePresence) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, store)
	presence := &fakePresence{}
	return NewHub(registry, dispatcher, auth, store, presence), presence
}

// connect creates a client on the hub without running its pumps; pushed
// frames accumulate in the buffered send channel.
func connect(h *Hub) (*Client, *fakeConn) {
	conn := &fakeConn{}
	return newClient(h, conn), conn
}

// authenticate runs the handshake for a user and drains the confirmation.
func authenticate(t *testing.T, h *Hub, c *Client, user *models.User) {
	t.Helper()
	token := "token-" + user.Username
	h.auth.(*fakeAuth).users[token] = user
	h.route(c, inbound(t, MessageTypeAuthenticate, AuthenticatePayload{Token: token}))
	frames := drain(t, c)
	if len(frames) == 0 || frames[0].Type != string(MessageTypeAuthenticated) {
		t.Fatalf("expected authenticated frame, got %+v", frames)
	}
}

type frame struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// drain decodes every frame currently buffered on the client.
func drain(t *testing.T, c *Client) []frame {
	t.Helper()
	var frames []frame
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return frames
			}
			var f frame
			if err := json.Unmarshal(data, &f); err != nil {
				t.Fatalf("invalid frame %q: %v", data, err)
			}
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func inbound(t *testing.T, msgType MessageType, payload interface{}) Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return Message{Type: msgType, Data: data}
}
