package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/models"
	"github.com/davidmorenoc/taskboard-api/internal/repository"
)

var (
	ErrTeamNameRequired = errors.New("team name is required")
	ErrNotTeamAdmin     = errors.New("only team admins can perform this action")
	ErrAlreadyMember    = errors.New("user is already a member of this team")
)

// TeamService handles teams and the membership join that gates task access.
type TeamService struct {
	teamRepo    repository.TeamRepository
	profileRepo repository.ProfileRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, profileRepo repository.ProfileRepository) *TeamService {
	return &TeamService{
		teamRepo:    teamRepo,
		profileRepo: profileRepo,
	}
}

// Create creates a team with the caller as its admin member.
func (s *TeamService) Create(name, creatorID string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{Name: name}
	if err := s.teamRepo.CreateWithAdmin(team, creatorID); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// Members lists the team's members. The caller must be a member.
func (s *TeamService) Members(teamID, callerID string) ([]models.TeamMembership, error) {
	if _, err := s.teamRepo.FindMember(teamID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	return s.teamRepo.ListMembers(teamID)
}

// AddMember adds a user to the team. The caller must hold the admin role.
func (s *TeamService) AddMember(teamID, callerID, userID string) (*models.TeamMembership, error) {
	caller, err := s.teamRepo.FindMember(teamID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if caller.Role != models.RoleAdmin {
		return nil, ErrNotTeamAdmin
	}

	if _, err := s.profileRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if _, err := s.teamRepo.FindMember(teamID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.TeamMembership{
		TeamID:   teamID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}
