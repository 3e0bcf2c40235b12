package repository

import (
	"context"

	"goals-service/internal/models"

	"gorm.io/gorm"
)

type FriendRepository interface {
	Create(ctx context.Context, friend *models.Friend) error
	FindByID(ctx context.Context, id uint) (*models.Friend, error)
	FindPair(ctx context.Context, userA, userB uint) (*models.Friend, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	AcceptedByRequester(ctx context.Context, userID uint) ([]models.Friend, error)
	AcceptedByRecipient(ctx context.Context, userID uint) ([]models.Friend, error)
	ListByUserID(ctx context.Context, userID uint) ([]models.Friend, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *friendRepository) FindByID(ctx context.Context, id uint) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		First(&friend, id).Error
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

// FindPair looks up a friendship record in either direction.
func (r *friendRepository) FindPair(ctx context.Context, userA, userB uint) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		First(&friend).Error
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Friend{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *friendRepository) AcceptedByRequester(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Preload("Recipient").
		Where("requester_id = ? AND status = ?", userID, models.FriendStatusAccepted).
		Find(&friends).Error
	return friends, err
}

func (r *friendRepository) AcceptedByRecipient(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("recipient_id = ? AND status = ?", userID, models.FriendStatusAccepted).
		Find(&friends).Error
	return friends, err
}

func (r *friendRepository) ListByUserID(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Find(&friends).Error
	return friends, err
}
