package repository

import (
	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create appends a comment and reloads it with the author profile
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return err
	}
	return r.db.Preload("Profile").First(comment, "id = ?", comment.ID).Error
}

// ListByTask lists a task's comments newest first, with author profiles
func (r *GormCommentRepository) ListByTask(taskID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.Preload("Profile").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
