package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithAdmin creates a team and its first membership atomically
func (r *GormTeamRepository) CreateWithAdmin(team *models.Team, adminUserID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := models.TeamMembership{
			TeamID:   team.ID,
			UserID:   adminUserID,
			Role:     models.RoleAdmin,
			JoinedAt: time.Now(),
		}
		return tx.Create(&member).Error
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id string) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindMember finds a specific team membership
func (r *GormTeamRepository) FindMember(teamID, userID string) (*models.TeamMembership, error) {
	var member models.TeamMembership
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember adds a member to a team
func (r *GormTeamRepository) AddMember(member *models.TeamMembership) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	return r.db.Create(member).Error
}

// ListTeamIDsByUser lists the IDs of every team the user belongs to
func (r *GormTeamRepository) ListTeamIDsByUser(userID string) ([]string, error) {
	var teamIDs []string
	err := r.db.Model(&models.TeamMembership{}).
		Where("user_id = ?", userID).
		Pluck("team_id", &teamIDs).Error
	if err != nil {
		return nil, err
	}
	return teamIDs, nil
}

// ListMembers lists all members of a team with their profiles
func (r *GormTeamRepository) ListMembers(teamID string) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	if err := r.db.Preload("Profile").
		Where("team_id = ?", teamID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
