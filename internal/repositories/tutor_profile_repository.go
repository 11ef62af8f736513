package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tutorlink_backend/internal/models"
)

var (
	ErrTutorProfileNotFound      = errors.New("tutor profile not found")
	ErrTutorProfileAlreadyExists = errors.New("tutor profile already exists for this user")
)

type TutorProfileRepository interface {
	Create(profile *models.TutorProfile) error
	FindByID(id string) (*models.TutorProfile, error)
	FindByUserID(userID string) (*models.TutorProfile, error)
	Update(profile *models.TutorProfile) error
	UpdateFields(profileID string, fields map[string]interface{}) error
	FindAll() ([]models.TutorProfile, error)
}

type TutorProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewTutorProfileRepository(db *gorm.DB) TutorProfileRepository {
	return &TutorProfileRepositoryImpl{db: db}
}

func (r *TutorProfileRepositoryImpl) Create(profile *models.TutorProfile) error {
	var count int64
	r.db.Model(&models.TutorProfile{}).Where("user_id = ?", profile.UserID).Count(&count)
	if count > 0 {
		return ErrTutorProfileAlreadyExists
	}
	return r.db.Create(profile).Error
}

func (r *TutorProfileRepositoryImpl) FindByID(id string) (*models.TutorProfile, error) {
	var profile models.TutorProfile
	err := r.db.Preload("User").First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *TutorProfileRepositoryImpl) FindByUserID(userID string) (*models.TutorProfile, error) {
	var profile models.TutorProfile
	err := r.db.Preload("User").First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *TutorProfileRepositoryImpl) Update(profile *models.TutorProfile) error {
	result := r.db.Save(profile)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTutorProfileNotFound
	}
	return nil
}

// UpdateFields merges a partial update. Rating and review_count are owned by
// the review repository and must never be touched through this path.
func (r *TutorProfileRepositoryImpl) UpdateFields(profileID string, fields map[string]interface{}) error {
	delete(fields, "rating")
	delete(fields, "review_count")

	result := r.db.Model(&models.TutorProfile{}).Where("id = ?", profileID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTutorProfileNotFound
	}
	return nil
}

// FindAll returns every tutor profile joined with its owning user, the
// candidate set the matching service narrows down.
func (r *TutorProfileRepositoryImpl) FindAll() ([]models.TutorProfile, error) {
	var profiles []models.TutorProfile
	err := r.db.Preload("User").Find(&profiles).Error
	return profiles, err
}
