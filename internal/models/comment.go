package models

import (
	"gorm.io/gorm"
)

// Target types a comment or reaction can point at.
const (
	TargetTypeGoal    = "goal"
	TargetTypeTask    = "task"
	TargetTypeComment = "comment"
)

// Comment represents a comment on a goal or task.
type Comment struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index" json:"userId"`
	TargetType string `gorm:"not null;type:varchar(16);index:idx_comments_target" json:"targetType"`
	TargetID   uint   `gorm:"not null;index:idx_comments_target" json:"targetId"`
	Content    string `gorm:"not null;type:varchar(500)" json:"content"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user"`
}

// IsValidCommentTarget reports whether comments may be attached to the
// given target type. Comments on comments are not a thing.
func IsValidCommentTarget(t string) bool {
	return t == TargetTypeGoal || t == TargetTypeTask
}
