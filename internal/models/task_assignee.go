package models

import "time"

// TaskAssignee joins a task and a user with the points currently held by
// that user on the task. Unique per (task, user): re-assigning the same
// user increments Points in place rather than duplicating the row. Rows
// are hard-deleted on unassignment.
type TaskAssignee struct {
	TaskID    string    `gorm:"type:uuid;primarykey" json:"taskid"`
	UserID    string    `gorm:"type:uuid;primarykey" json:"userid"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task    Task    `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Profile Profile `gorm:"foreignKey:UserID" json:"profiles,omitempty"`
}
