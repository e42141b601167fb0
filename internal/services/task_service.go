package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/models"
	"github.com/davidmorenoc/taskboard-api/internal/realtime"
	"github.com/davidmorenoc/taskboard-api/internal/repository"
)

// Task list filters accepted by List.
const (
	FilterTeam = "team"
	FilterMy   = "my"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrNoTeamMemberships  = errors.New("user not in any team")
	ErrInvalidFilter      = errors.New("invalid filter parameter")
	ErrInvalidState       = errors.New("invalid task state")
	ErrInvalidPriority    = errors.New("invalid task priority")
	ErrInvalidPoints      = errors.New("points must be a non-negative number")
	ErrNotTeamMember      = errors.New("user is not a member of this team")
	ErrAssigneeNotMember  = errors.New("user to assign is not a member of this team")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// TaskService owns the task workflow: listing, creation, lane transitions
// and the assignment point ledger.
type TaskService struct {
	taskRepo  repository.TaskRepository
	teamRepo  repository.TeamRepository
	publisher realtime.Publisher
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, teamRepo repository.TeamRepository, publisher realtime.Publisher) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		teamRepo:  teamRepo,
		publisher: publisher,
	}
}

// List returns the tasks visible to the user under the given filter:
// "team" is every task of every team the user belongs to, "my" only the
// tasks on which the user holds an assignment row. A "team" query from a
// user with no memberships is reported as ErrNoTeamMemberships rather than
// an empty list.
func (s *TaskService) List(userID, filter string) ([]models.Task, error) {
	switch filter {
	case FilterTeam:
		teamIDs, err := s.teamRepo.ListTeamIDsByUser(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list memberships: %w", err)
		}
		if len(teamIDs) == 0 {
			return nil, ErrNoTeamMemberships
		}
		return s.taskRepo.ListByTeams(teamIDs)
	case FilterMy:
		return s.taskRepo.ListAssignedTo(userID)
	default:
		return nil, ErrInvalidFilter
	}
}

// CreateTaskInput holds the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    models.TaskPriority
	TeamID      string
}

// Create creates a task in the backlog lane. The creator must be a member
// of the target team.
func (s *TaskService) Create(userID string, input CreateTaskInput) (*models.Task, error) {
	if input.Priority == "" {
		input.Priority = models.PriorityMedia
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if _, err := s.teamRepo.FindMember(input.TeamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		State:       models.StateBacklog,
		TeamID:      input.TeamID,
		CreatedBy:   userID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publisher.Publish(realtime.Event{
		Type:   realtime.EventInsert,
		TaskID: task.ID,
		TeamID: task.TeamID,
	})

	return task, nil
}

// UpdateState moves a task to the given lane, touching nothing but the
// state field and updated_at.
func (s *TaskService) UpdateState(taskID string, state models.TaskState) (*models.Task, error) {
	if !state.Valid() {
		return nil, ErrInvalidState
	}

	task, err := s.taskRepo.UpdateState(taskID, state)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task state: %w", err)
	}

	s.publisher.Publish(realtime.Event{
		Type:   realtime.EventUpdate,
		TaskID: task.ID,
		TeamID: task.TeamID,
	})

	return task, nil
}

// Assign grants points on the task to the given user. Both the caller and
// the assignee must be members of the task's team. Repeated assignment is
// additive: the existing row's points grow by the new amount, and so does
// the lifetime counter. Returns the task's aggregate counters.
func (s *TaskService) Assign(taskID, callerID, assigneeID string, points int) (*repository.LedgerTotals, error) {
	if points < 0 {
		return nil, ErrInvalidPoints
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.teamRepo.FindMember(task.TeamID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to check caller membership: %w", err)
	}

	if _, err := s.teamRepo.FindMember(task.TeamID, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotMember
		}
		return nil, fmt.Errorf("failed to check assignee membership: %w", err)
	}

	totals, err := s.taskRepo.AssignPoints(taskID, assigneeID, points)
	if err != nil {
		return nil, fmt.Errorf("failed to assign points: %w", err)
	}

	s.publisher.Publish(realtime.Event{
		Type:   realtime.EventUpdate,
		TaskID: taskID,
		TeamID: task.TeamID,
	})

	return totals, nil
}

// Unassign removes the user's assignment row from the task. puntos_asign
// drops by the removed row's points; puntos_total is left untouched.
func (s *TaskService) Unassign(taskID, userID string) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.taskRepo.UnassignPoints(taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to unassign: %w", err)
	}

	s.publisher.Publish(realtime.Event{
		Type:   realtime.EventUpdate,
		TaskID: taskID,
		TeamID: task.TeamID,
	})

	return nil
}
