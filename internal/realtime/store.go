package realtime

import (
	"context"
	"time"

	"goals-service/internal/models"
)

// Store is the storage collaborator the realtime core calls into. All
// operations are record-level and atomic on the storage side; the core
// holds no lock while any of them is in flight.
type Store interface {
	// AcceptedFriendIDs resolves the accepted-friend set of a user, fresh
	// on every call.
	AcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error)

	// FindOwner resolves the owning user of a goal, task or comment.
	// Returns repository.ErrNotFound when the entity does not exist.
	FindOwner(ctx context.Context, targetType string, targetID uint) (uint, error)

	CreateGoal(ctx context.Context, goal *models.Goal) error
	FindGoal(ctx context.Context, id uint) (*models.Goal, error)
	UpdateGoal(ctx context.Context, id uint, updates map[string]interface{}) (*models.Goal, error)
	DeactivateGoal(ctx context.Context, id uint) error
	UpsertTask(ctx context.Context, goalID, userID uint, date time.Time, patch models.TaskPatch) (*models.Task, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	UpsertReaction(ctx context.Context, reaction *models.Reaction) error
}

// Authenticator resolves a bearer credential to an existing user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Presence records online/offline transitions in a shared projection so
// other instances and the HTTP layer can read them. Failures are logged,
// never fatal to the session.
type Presence interface {
	SetOnline(ctx context.Context, userID uint) error
	SetOffline(ctx context.Context, userID uint) error
}
