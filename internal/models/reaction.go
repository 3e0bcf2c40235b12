package models

import (
	"gorm.io/gorm"
)

// Reaction represents an emoji reaction. A user has at most one reaction per
// target; reacting again replaces the emoji.
type Reaction struct {
	gorm.Model
	UserID     uint   `gorm:"not null;uniqueIndex:idx_reactions_user_target" json:"userId"`
	TargetType string `gorm:"not null;type:varchar(16);uniqueIndex:idx_reactions_user_target" json:"targetType"`
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_reactions_user_target" json:"targetId"`
	Emoji      string `gorm:"not null;type:varchar(10)" json:"emoji"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user"`
}

// IsValidReactionTarget reports whether reactions may be attached to the
// given target type.
func IsValidReactionTarget(t string) bool {
	return t == TargetTypeGoal || t == TargetTypeTask || t == TargetTypeComment
}
