package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/davidmorenoc/taskboard-api/internal/errors"
	"github.com/davidmorenoc/taskboard-api/internal/middleware"
	"github.com/davidmorenoc/taskboard-api/internal/models"
	"github.com/davidmorenoc/taskboard-api/internal/services"
)

// TaskHandler coordinates the task endpoints: listing, creation, lane
// transitions and the assignment ledger.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks under ?filter=team|my (default
// team). Tasks come joined with their assignees and profiles.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	filter := c.DefaultQuery("filter", services.FilterTeam)

	tasks, err := h.taskService.List(userID, filter)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFilter):
			apierrors.BadRequest(c, "Invalid filter parameter. Use 'team' or 'my'")
		case errors.Is(err, services.ErrNoTeamMemberships):
			apierrors.NotFound(c, "User not in any team")
		default:
			apierrors.InternalError(c, "Failed to fetch tasks")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask creates a task in the backlog lane of one of the caller's
// teams.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Priority    string `json:"priority"`
		TeamID      string `json:"teamid" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    models.TaskPriority(req.Priority),
		TeamID:      req.TeamID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPriority):
			apierrors.BadRequest(c, "Priority must be one of 'baja', 'media', 'alta'")
		case errors.Is(err, services.ErrNotTeamMember):
			apierrors.Forbidden(c, "You are not a member of this team")
		default:
			apierrors.InternalError(c, "Failed to create task")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// UpdateTaskState moves a task to another lane. Only the state field (and
// updated_at) changes; the request schema rejects anything else.
func (h *TaskHandler) UpdateTaskState(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateStateRequest struct {
		State string `json:"state" binding:"required"`
	}

	var req UpdateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "State is required")
		return
	}

	state := models.TaskState(req.State)
	if !state.Valid() {
		apierrors.BadRequest(c, "State must be one of 'backlog', 'en_progreso', 'en_revision', 'finalizado'")
		return
	}

	task, err := h.taskService.UpdateState(c.Param("id"), state)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found or you don't have permission to update it")
		default:
			apierrors.InternalError(c, "Failed to update task")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// AssignUser grants points on the task to a team member. Repeated
// assignment of the same user accumulates points.
func (h *TaskHandler) AssignUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AssignRequest struct {
		UserID string `json:"userId" binding:"required"`
		Points *int   `json:"points" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Missing required fields: userId, points")
		return
	}

	totals, err := h.taskService.Assign(c.Param("id"), userID, req.UserID, *req.Points)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPoints):
			apierrors.BadRequest(c, "Points must be a positive number")
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, services.ErrNotTeamMember):
			apierrors.Forbidden(c, "You don't have permission to assign users to this task")
		case errors.Is(err, services.ErrAssigneeNotMember):
			apierrors.BadRequest(c, "User to assign is not a member of this team")
		default:
			apierrors.InternalError(c, "Failed to assign user to task")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "User assigned successfully",
		"puntosAsign": totals.PuntosAsign,
		"puntosTotal": totals.PuntosTotal,
	})
}

// UnassignUser removes a user's assignment row from the task. The lifetime
// counter keeps the points ever granted.
func (h *TaskHandler) UnassignUser(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetUserID := c.Query("userId")
	if targetUserID == "" {
		apierrors.BadRequest(c, "Missing required parameter: userId")
		return
	}

	err := h.taskService.Unassign(c.Param("id"), targetUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, services.ErrAssignmentNotFound):
			apierrors.NotFound(c, "Assignment not found")
		default:
			apierrors.InternalError(c, "Failed to remove assignment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unassigned successfully"})
}
