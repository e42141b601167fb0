package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/davidmorenoc/taskboard-api/internal/constants"
	"github.com/davidmorenoc/taskboard-api/internal/database"
	apierrors "github.com/davidmorenoc/taskboard-api/internal/errors"
	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// RequireTaskAccess checks if the user has access to a task.
// User must be a member of the task's team. Missing task and missing
// membership are both reported as 404 so task existence never leaks,
// mirroring the row-level visibility of the original store.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID := c.Param("id")
		if taskID == "" {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Assignees").
			Preload("Assignees.Profile").
			First(&task, "id = ?", taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		var member models.TeamMembership
		err := database.GetDB().
			Where("team_id = ? AND user_id = ?", task.TeamID, userID).
			First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}
