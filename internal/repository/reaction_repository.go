package repository

import (
	"context"

	"goals-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository interface {
	Upsert(ctx context.Context, reaction *models.Reaction) error
	ListByTarget(ctx context.Context, targetType string, targetID uint) ([]models.Reaction, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Upsert inserts the reaction or, when the user already reacted to the
// target, replaces the emoji. Relies on the unique (user, target) index.
func (r *reactionRepository) Upsert(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"emoji", "updated_at"}),
		}).
		Create(reaction).Error
}

func (r *reactionRepository) ListByTarget(ctx context.Context, targetType string, targetID uint) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Find(&reactions).Error
	return reactions, err
}
