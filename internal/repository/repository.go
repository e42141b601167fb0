package repository

import (
	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// LedgerTotals holds a task's aggregate point counters after a ledger
// operation.
type LedgerTotals struct {
	PuntosAsign int `json:"puntosAsign"`
	PuntosTotal int `json:"puntosTotal"`
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// ListByTeams retrieves every task belonging to the given teams,
	// joined with assignees and their profiles
	ListByTeams(teamIDs []string) ([]models.Task, error)

	// ListAssignedTo retrieves every task on which the user holds an
	// assignment row
	ListAssignedTo(userID string) ([]models.Task, error)

	// UpdateState sets a task's lane and refreshes updated_at, leaving all
	// other fields untouched
	UpdateState(id string, state models.TaskState) (*models.Task, error)

	// AssignPoints creates or increments the (task, user) assignment row by
	// points and recomputes the task's aggregate counters in the same
	// transaction
	AssignPoints(taskID, userID string, points int) (*LedgerTotals, error)

	// UnassignPoints deletes the (task, user) assignment row and recomputes
	// puntos_asign; puntos_total is never touched
	UnassignPoints(taskID, userID string) (*LedgerTotals, error)

	// FindAssignment finds a specific assignment row
	FindAssignment(taskID, userID string) (*models.TaskAssignee, error)
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	// CreateWithAdmin creates a team and its first membership atomically
	CreateWithAdmin(team *models.Team, adminUserID string) error

	// FindByID finds a team by ID
	FindByID(id string) (*models.Team, error)

	// FindMember finds a specific team membership
	FindMember(teamID, userID string) (*models.TeamMembership, error)

	// AddMember adds a member to a team
	AddMember(member *models.TeamMembership) error

	// ListTeamIDsByUser lists the IDs of every team the user belongs to
	ListTeamIDsByUser(userID string) ([]string, error)

	// ListMembers lists all members of a team with their profiles
	ListMembers(teamID string) ([]models.TeamMembership, error)
}

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// Create creates a new profile
	Create(profile *models.Profile) error

	// Upsert inserts the profile or, when a row with the same email exists,
	// refreshes its display fields in place
	Upsert(profile *models.Profile) error

	// FindByID finds a profile by ID
	FindByID(id string) (*models.Profile, error)

	// FindByEmail finds a profile by email
	FindByEmail(email string) (*models.Profile, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create appends a comment and reloads it with the author profile
	Create(comment *models.Comment) error

	// ListByTask lists a task's comments newest first, with author profiles
	ListByTask(taskID string) ([]models.Comment, error)
}
