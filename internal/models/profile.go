package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the denormalized display data for a user plus their
// credentials. It is created on signup and refreshed via upsert on login.
type Profile struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50)" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"type:varchar(255)" json:"full_name"`
	AvatarURL    string    `gorm:"type:varchar(500)" json:"avatar_url"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Memberships  []TeamMembership `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks []Task           `gorm:"foreignKey:CreatedBy" json:"-"`
	Assignments  []TaskAssignee   `gorm:"foreignKey:UserID" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
