package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davidmorenoc/taskboard-api/internal/models"
	"github.com/davidmorenoc/taskboard-api/internal/repository"
)

var ErrEmptyComment = errors.New("comment text cannot be empty")

// CommentService handles the append-only comment thread of a task.
type CommentService struct {
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
	}
}

// ListByTask lists a task's comments newest first.
func (s *CommentService) ListByTask(taskID string) ([]models.Comment, error) {
	return s.commentRepo.ListByTask(taskID)
}

// Create appends a comment to the task. Text is trimmed and must be
// non-empty.
func (s *CommentService) Create(taskID, userID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	comment := &models.Comment{
		TaskID: taskID,
		UserID: userID,
		Text:   text,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}
