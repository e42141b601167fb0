package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/constants"
	"github.com/davidmorenoc/taskboard-api/internal/models"
	"github.com/davidmorenoc/taskboard-api/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles signup, login and profile lookup.
type AuthService struct {
	profileRepo repository.ProfileRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(profileRepo repository.ProfileRepository) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
	}
}

// SignupInput represents the required information to create a new profile.
type SignupInput struct {
	Email    string
	Password string
	Username string
	FullName string
}

// Signup creates the caller's profile.
func (s *AuthService) Signup(input SignupInput) (*models.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.profileRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	profile := &models.Profile{
		Email:        email,
		Username:     username,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: string(hashedPassword),
	}

	if err := s.profileRepo.Create(profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated profile. The
// profile row's display fields are re-upserted so updated_at reflects the
// latest login, matching the upsert-on-login behavior of the hosted auth
// flow this replaces.
func (s *AuthService) Login(input LoginInput) (*models.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	profile, err := s.profileRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.profileRepo.Upsert(profile); err != nil {
		return nil, fmt.Errorf("failed to refresh profile: %w", err)
	}

	return profile, nil
}

// GetProfile retrieves a profile by ID.
func (s *AuthService) GetProfile(id string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}
