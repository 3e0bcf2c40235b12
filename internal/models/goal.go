package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal types supported by the tracker.
const (
	GoalTypeOneTime    = "one-time"
	GoalTypeRecurring  = "recurring"
	GoalTypeSeries     = "series"
	GoalTypeNumeric    = "numeric"
	GoalTypePercentage = "percentage"
)

// Goal represents a user-defined goal. Deleting a goal is a soft delete:
// IsActive flips to false and the record stays.
type Goal struct {
	gorm.Model
	UserID      uint       `gorm:"not null;index" json:"userId"`
	Title       string     `gorm:"not null;type:varchar(200)" json:"title"`
	Description string     `gorm:"type:varchar(1000)" json:"description"`
	Type        string     `gorm:"not null;type:varchar(20)" json:"type"`
	TargetValue *float64   `json:"targetValue"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    bool       `gorm:"default:true;index" json:"isActive"`
}

// IsValidGoalType reports whether t is one of the supported goal types.
func IsValidGoalType(t string) bool {
	switch t {
	case GoalTypeOneTime, GoalTypeRecurring, GoalTypeSeries, GoalTypeNumeric, GoalTypePercentage:
		return true
	default:
		return false
	}
}
