package models

import (
	"time"

	"gorm.io/gorm"
)

// Task represents one day of progress against a goal. There is at most one
// task per (goal, user, date); progress updates upsert into it. Date is
// truncated to midnight before storage.
type Task struct {
	gorm.Model
	GoalID    uint      `gorm:"not null;index;uniqueIndex:idx_tasks_goal_user_date" json:"goalId"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_tasks_goal_user_date" json:"userId"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_tasks_goal_user_date" json:"date"`
	Completed bool      `gorm:"default:false" json:"completed"`
	Value     float64   `gorm:"default:0" json:"value"`
	Percentage int      `gorm:"default:0" json:"percentage"`
	Notes     string    `gorm:"type:varchar(500)" json:"notes"`
}

// TaskPatch carries the fields of a progress update. Nil fields are left
// untouched on an existing task.
type TaskPatch struct {
	Completed  *bool    `json:"completed"`
	Value      *float64 `json:"value"`
	Percentage *int     `json:"percentage"`
	Notes      *string  `json:"notes"`
}

// TruncateToDay normalizes a timestamp to midnight UTC, the granularity
// progress is tracked at.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
