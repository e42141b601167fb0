package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is append-only: there is no edit or delete path.
type Comment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	TaskID    string    `gorm:"type:uuid;not null;index" json:"taskid"`
	UserID    string    `gorm:"type:uuid;not null" json:"userid"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task    Task    `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Profile Profile `gorm:"foreignKey:UserID" json:"profiles,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
