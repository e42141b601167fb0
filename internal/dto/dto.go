package dto

import (
	"time"

	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// ProfileDTO is the display projection of a profile used inside member and
// comment responses.
type ProfileDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// CommentDTO represents a comment in API responses.
type CommentDTO struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	Profile   ProfileDTO `json:"profiles"`
}

// ToProfileDTO converts a Profile model to ProfileDTO.
func ToProfileDTO(profile models.Profile) ProfileDTO {
	return ProfileDTO{
		ID:        profile.ID,
		Email:     profile.Email,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
	}
}

// ToCommentDTO converts a Comment model to CommentDTO.
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		Profile:   ToProfileDTO(comment.Profile),
	}
}

// ToCommentDTOs converts a slice of comments.
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return dtos
}

// ToMemberDTOs converts team memberships to the member list projection.
func ToMemberDTOs(members []models.TeamMembership) []ProfileDTO {
	dtos := make([]ProfileDTO, len(members))
	for i, member := range members {
		dtos[i] = ToProfileDTO(member.Profile)
	}
	return dtos
}
