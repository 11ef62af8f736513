package services

import (
	"github.com/lib/pq"

	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type UserService interface {
	GetUser(userID string) (*dto.UserResponse, error)
	GetUserByUsername(username string) (*dto.UserResponse, error)
	UpdateUser(userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

func (s *userService) GetUserByUsername(username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

// UpdateUser merges the non-nil fields into the record. Username, email,
// role and password are not changeable through this path.
func (s *userService) UpdateUser(userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.University != nil {
		fields["university"] = *req.University
	}
	if req.Program != nil {
		fields["program"] = *req.Program
	}
	if req.Semester != nil {
		fields["semester"] = *req.Semester
	}
	if req.Subjects != nil {
		fields["subjects"] = pq.StringArray(*req.Subjects)
	}
	if req.Availability != nil {
		fields["availability"] = *req.Availability
	}
	if req.Budget != nil {
		fields["budget"] = *req.Budget
	}
	if req.ProfileImage != nil {
		fields["profile_image"] = *req.ProfileImage
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
	}

	return s.GetUser(userID)
}
