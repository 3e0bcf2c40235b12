package repository

import (
	"context"
	"errors"
	"time"

	"goals-service/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store bundles the record-level operations the realtime core consumes.
// It is the storage collaborator behind goal, task, comment and reaction
// mutations plus the two lookups the dispatcher needs: accepted friendships
// and target-entity ownership.
type Store struct {
	users     UserRepository
	friends   FriendRepository
	goals     GoalRepository
	tasks     TaskRepository
	comments  CommentRepository
	reactions ReactionRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		users:     NewUserRepository(db),
		friends:   NewFriendRepository(db),
		goals:     NewGoalRepository(db),
		tasks:     NewTaskRepository(db),
		comments:  NewCommentRepository(db),
		reactions: NewReactionRepository(db),
	}
}

// AcceptedFriendIDs returns the IDs of everyone the user has an accepted
// friendship with, regardless of which side requested it.
func (s *Store) AcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
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

// FindOwner resolves the owning user of a goal, task or comment.
func (s *Store) FindOwner(ctx context.Context, targetType string, targetID uint) (uint, error) {
	switch targetType {
	case models.TargetTypeGoal:
		goal, err := s.goals.FindByID(ctx, targetID)
		if err != nil {
			return 0, wrapNotFound(err)
		}
		return goal.UserID, nil
	case models.TargetTypeTask:
		task, err := s.tasks.FindByID(ctx, targetID)
		if err != nil {
			return 0, wrapNotFound(err)
		}
		return task.UserID, nil
	case models.TargetTypeComment:
		comment, err := s.comments.FindByID(ctx, targetID)
		if err != nil {
			return 0, wrapNotFound(err)
		}
		return comment.UserID, nil
	default:
		return 0, ErrNotFound
	}
}

func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return s.goals.Create(ctx, goal)
}

func (s *Store) FindGoal(ctx context.Context, id uint) (*models.Goal, error) {
	goal, err := s.goals.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return goal, nil
}

func (s *Store) UpdateGoal(ctx context.Context, id uint, updates map[string]interface{}) (*models.Goal, error) {
	return s.goals.Update(ctx, id, updates)
}

func (s *Store) DeactivateGoal(ctx context.Context, id uint) error {
	return s.goals.Deactivate(ctx, id)
}

// UpsertTask applies a progress patch to the task for (goal, user, date),
// creating it when missing. Single-record atomicity is the database's
// unique index on the triple.
func (s *Store) UpsertTask(ctx context.Context, goalID, userID uint, date time.Time, patch models.TaskPatch) (*models.Task, error) {
	day := models.TruncateToDay(date)

	task, err := s.tasks.FindByGoalUserDate(ctx, goalID, userID, day)
	if err != nil {
		return nil, err
	}
	if task == nil {
		task = &models.Task{
			GoalID: goalID,
			UserID: userID,
			Date:   day,
		}
	}

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

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.comments.Create(ctx, comment)
}

func (s *Store) UpsertReaction(ctx context.Context, reaction *models.Reaction) error {
	return s.reactions.Upsert(ctx, reaction)
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
