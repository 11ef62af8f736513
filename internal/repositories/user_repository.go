package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tutorlink_backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateFields(userID string, fields map[string]interface{}) error
	FindStudents() ([]models.User, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("TutorProfile").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("TutorProfile").First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("TutorProfile").First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	// Uniqueness pre-check keeps the common path off the DB constraint; the
	// unique indexes still back it up under races.
	var count int64
	r.db.Model(&models.User{}).
		Where("email = ? OR username = ?", user.Email, user.Username).
		Count(&count)
	if count > 0 {
		return ErrUserAlreadyExists
	}
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	result := r.db.Save(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateFields merges a partial update into the user row. Callers must not
// include password_hash here; password changes go through the auth service.
func (r *UserRepositoryImpl) UpdateFields(userID string, fields map[string]interface{}) error {
	delete(fields, "password_hash")

	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindStudents returns every student record; the matching service applies
// its own in-memory filter pipeline on top.
func (r *UserRepositoryImpl) FindStudents() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", models.UserRoleStudent).Find(&users).Error
	return users, err
}
