package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// Create creates a new profile
func (r *GormProfileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// Upsert inserts the profile or refreshes the display fields of the row
// sharing its email. The password hash is never overwritten here.
func (r *GormProfileRepository) Upsert(profile *models.Profile) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "full_name", "avatar_url", "updated_at"}),
		}).
		Create(profile).Error
}

// FindByID finds a profile by ID
func (r *GormProfileRepository) FindByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile by email
func (r *GormProfileRepository) FindByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
