package models

import "time"

// Project is the rollup target for its tasks. Progress and the analytics
// counters are derived fields, recomputed whenever a member task changes.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Progress    int       `gorm:"default:0" json:"progress"`
	Analytics   ProjectAnalytics `gorm:"embedded;embeddedPrefix:analytics_" json:"analytics"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectAnalytics struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
}
