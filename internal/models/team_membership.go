package models

import "time"

type TeamRole string

const (
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
)

// TeamMembership is the authorization join between a team and a user.
// Both the assigner and the assignee of a task must hold a row here for
// the task's team.
type TeamMembership struct {
	TeamID   string    `gorm:"type:uuid;primarykey" json:"team_id"`
	UserID   string    `gorm:"type:uuid;primarykey" json:"user_id"`
	Role     TeamRole  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Team    Team    `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Profile Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}
