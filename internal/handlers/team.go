package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davidmorenoc/taskboard-api/internal/dto"
	apierrors "github.com/davidmorenoc/taskboard-api/internal/errors"
	"github.com/davidmorenoc/taskboard-api/internal/middleware"
	"github.com/davidmorenoc/taskboard-api/internal/services"
)

// TeamHandler coordinates the team endpoints.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam creates a team with the caller as admin.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTeamRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.Create(req.Name, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNameRequired):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create team")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": team})
}

// ListMembers returns the team's members with their display profiles.
func (h *TeamHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	members, err := h.teamService.Members(c.Param("teamId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamMember):
			apierrors.Forbidden(c, "User is not a member of this team")
		default:
			apierrors.InternalError(c, "Failed to fetch team memberships")
		}
		return
	}

	memberDTOs := dto.ToMemberDTOs(members)
	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
		"count":   len(memberDTOs),
	})
}

// AddMember adds a user to the team. Caller must be a team admin.
func (h *TeamHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AddMemberRequest struct {
		UserID string `json:"userId" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.teamService.AddMember(c.Param("teamId"), userID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamMember), errors.Is(err, services.ErrNotTeamAdmin):
			apierrors.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrAlreadyMember):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to add member")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}
