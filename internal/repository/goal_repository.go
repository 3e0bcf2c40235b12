package repository

import (
	"context"

	"goals-service/internal/models"

	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	FindByID(ctx context.Context, id uint) (*models.Goal, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Goal, error)
	Deactivate(ctx context.Context, id uint) error
	RecentActiveByUserIDs(ctx context.Context, userIDs []uint, limit int) ([]models.Goal, error)
	ListByUserID(ctx context.Context, userID uint) ([]models.Goal, error)
}

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) FindByID(ctx context.Context, id uint) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Goal, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Deactivate soft-deletes a goal by flipping IsActive.
func (r *goalRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *goalRepository) RecentActiveByUserIDs(ctx context.Context, userIDs []uint, limit int) ([]models.Goal, error) {
	var goals []models.Goal
	if len(userIDs) == 0 {
		return goals, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&goals).Error
	return goals, err
}

func (r *goalRepository) ListByUserID(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}
