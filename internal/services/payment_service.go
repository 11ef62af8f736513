package services

import (
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type PaymentService interface {
	AddPaymentMethod(userID string, req *dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	ListPaymentMethods(userID string) ([]*dto.PaymentMethodResponse, error)
	SetDefaultPaymentMethod(userID, methodID string) error
	DeletePaymentMethod(userID, methodID string) error
}

type paymentService struct {
	paymentMethodRepo repositories.PaymentMethodRepository
}

func NewPaymentService(paymentMethodRepo repositories.PaymentMethodRepository) PaymentService {
	return &paymentService{paymentMethodRepo: paymentMethodRepo}
}

func (s *paymentService) AddPaymentMethod(userID string, req *dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	method := &models.PaymentMethod{
		UserID:        userID,
		Type:          req.Type,
		AccountNumber: req.AccountNumber,
		IsDefault:     req.IsDefault,
	}

	if err := s.paymentMethodRepo.Create(method); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaymentMethodResponse(method), nil
}

func (s *paymentService) ListPaymentMethods(userID string) ([]*dto.PaymentMethodResponse, error) {
	methods, err := s.paymentMethodRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.PaymentMethodResponse, 0, len(methods))
	for i := range methods {
		responses = append(responses, buildPaymentMethodResponse(&methods[i]))
	}
	return responses, nil
}

func (s *paymentService) SetDefaultPaymentMethod(userID, methodID string) error {
	if err := s.paymentMethodRepo.SetDefault(userID, methodID); err != nil {
		if apperrors.Is(err, repositories.ErrPaymentMethodNotFound) {
			return apperrors.ErrPaymentMethodNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// DeletePaymentMethod verifies ownership before deleting; a method id that
// belongs to someone else reads as not found, not forbidden, to avoid leaking
// its existence.
func (s *paymentService) DeletePaymentMethod(userID, methodID string) error {
	method, err := s.paymentMethodRepo.FindByID(methodID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentMethodNotFound) {
			return apperrors.ErrPaymentMethodNotFound
		}
		return apperrors.InternalError(err)
	}
	if method.UserID != userID {
		return apperrors.ErrPaymentMethodNotFound
	}

	if err := s.paymentMethodRepo.Delete(methodID); err != nil {
		if apperrors.Is(err, repositories.ErrPaymentMethodNotFound) {
			return apperrors.ErrPaymentMethodNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func buildPaymentMethodResponse(m *models.PaymentMethod) *dto.PaymentMethodResponse {
	return &dto.PaymentMethodResponse{
		ID:            m.ID,
		Type:          m.Type,
		AccountNumber: m.AccountNumber,
		IsDefault:     m.IsDefault,
		CreatedAt:     m.CreatedAt,
	}
}
