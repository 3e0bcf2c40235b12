package repository

import (
	"context"
	"errors"
	"time"

	"goals-service/internal/models"

	"gorm.io/gorm"
)

type TaskRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Task, error)
	FindByGoalUserDate(ctx context.Context, goalID, userID uint, date time.Time) (*models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	RecentByUserIDs(ctx context.Context, userIDs []uint, limit int) ([]models.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) FindByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByGoalUserDate(ctx context.Context, goalID, userID uint, date time.Time) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("goal_id = ? AND user_id = ? AND date = ?", goalID, userID, date).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Save(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) RecentByUserIDs(ctx context.Context, userIDs []uint, limit int) ([]models.Task, error) {
	var tasks []models.Task
	if len(userIDs) == 0 {
		return tasks, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("updated_at DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}
