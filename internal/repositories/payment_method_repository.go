package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tutorlink_backend/internal/models"
)

var (
	ErrPaymentMethodNotFound = errors.New("payment method not found")
)

type PaymentMethodRepository interface {
	Create(method *models.PaymentMethod) error
	FindByID(id string) (*models.PaymentMethod, error)
	FindByUser(userID string) ([]models.PaymentMethod, error)
	Delete(id string) error

	// SetDefault clears every other default for the user and sets the new
	// one inside a single transaction, so at most one default survives.
	SetDefault(userID, methodID string) error
}

type PaymentMethodRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &PaymentMethodRepositoryImpl{db: db}
}

func (r *PaymentMethodRepositoryImpl) Create(method *models.PaymentMethod) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if method.IsDefault {
			err := tx.Model(&models.PaymentMethod{}).
				Where("user_id = ?", method.UserID).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(method).Error
	})
}

func (r *PaymentMethodRepositoryImpl) FindByID(id string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.First(&method, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

func (r *PaymentMethodRepositoryImpl) FindByUser(userID string) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&methods).Error
	return methods, err
}

func (r *PaymentMethodRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.PaymentMethod{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

func (r *PaymentMethodRepositoryImpl) SetDefault(userID, methodID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.PaymentMethod{}).
			Where("user_id = ? AND id != ?", userID, methodID).
			Update("is_default", false).Error
		if err != nil {
			return err
		}

		result := tx.Model(&models.PaymentMethod{}).
			Where("id = ? AND user_id = ?", methodID, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentMethodNotFound
		}
		return nil
	})
}
