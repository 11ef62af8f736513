package services

import (
	"tutorlink_backend/internal/auth"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	ChangePassword(userID string, req *dto.ChangePasswordRequest) error
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if req.Role != models.UserRoleStudent && req.Role != models.UserRoleTutor {
		return nil, apperrors.ErrInvalidUserRole
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	// Duplicate checks give the client a precise conflict message; the
	// repository and unique indexes still guard the race.
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperrors.ErrUsernameAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		FullName:     req.FullName,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return buildUserResponse(user), nil
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		User:        buildUserResponse(user),
	}, nil
}

// ChangePassword is the only path that may touch the password hash; profile
// updates never carry it.
func (s *AuthServiceImpl) ChangePassword(userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
