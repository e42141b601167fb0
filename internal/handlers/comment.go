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

// CommentHandler coordinates the comment endpoints.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns a task's comments newest first. The listing is
// public: no session is required.
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.ListByTask(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentDTOs(comments)})
}

// CreateComment appends a comment to the task.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCommentRequest struct {
		Text string `json:"text"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(c.Param("id"), userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyComment):
			apierrors.BadRequest(c, "Comment text cannot be empty")
		default:
			apierrors.InternalError(c, "Failed to create comment")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": dto.ToCommentDTO(*comment)})
}
