package repository

import (
	"jobboard/internal/api/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByUserID(userID string) (*models.Profile, error)
	Update(profile *models.Profile) error
	UpdateResumePath(userID, path string) error
	UpdateProfileImage(userID, path string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) FindByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) UpdateResumePath(userID, path string) error {
	return r.db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("resume_path", path).Error
}

func (r *profileRepository) UpdateProfileImage(userID, path string) error {
	return r.db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("profile_image", path).Error
}
