package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/davidmorenoc/taskboard-api/internal/constants"
	"github.com/davidmorenoc/taskboard-api/internal/database"
	apierrors "github.com/davidmorenoc/taskboard-api/internal/errors"
	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// RequireTeamAccess checks if the user is a member of the team named by the
// :teamId route parameter. Non-members get 403, matching the members
// endpoint contract.
func RequireTeamAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID := c.Param("teamId")
		if teamID == "" {
			apierrors.BadRequest(c, "Invalid team ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var member models.TeamMembership
		err := database.GetDB().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			First(&member).Error
		if err != nil {
			apierrors.Forbidden(c, "User is not a member of this team")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyMembership, member)
		c.Next()
	}
}
