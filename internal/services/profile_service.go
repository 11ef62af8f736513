package services

import (
	"github.com/lib/pq"

	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type ProfileService interface {
	CreateTutorProfile(userID string, req *dto.CreateTutorProfileRequest) (*dto.TutorProfileResponse, error)
	GetTutorProfile(profileID string) (*dto.TutorProfileResponse, error)
	GetTutorProfileByUserID(userID string) (*dto.TutorProfileResponse, error)
	UpdateTutorProfile(userID string, req *dto.UpdateTutorProfileRequest) (*dto.TutorProfileResponse, error)
	ListTutors() ([]*dto.TutorProfileResponse, error)
}

type profileService struct {
	profileRepo repositories.TutorProfileRepository
	userRepo    repositories.UserRepository
}

func NewProfileService(
	profileRepo repositories.TutorProfileRepository,
	userRepo repositories.UserRepository,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

func (s *profileService) CreateTutorProfile(userID string, req *dto.CreateTutorProfileRequest) (*dto.TutorProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleTutor {
		return nil, apperrors.ErrInvalidUserRole
	}

	profile := &models.TutorProfile{
		UserID:         userID,
		Subjects:       pq.StringArray(req.Subjects),
		HourlyRate:     req.HourlyRate,
		Experience:     req.Experience,
		Availability:   req.Availability,
		IsAvailableNow: req.IsAvailableNow,
	}

	if err := s.profileRepo.Create(profile); err != nil {
		if apperrors.Is(err, repositories.ErrTutorProfileAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	profile.User = user
	return buildTutorProfileResponse(profile, true), nil
}

func (s *profileService) GetTutorProfile(profileID string) (*dto.TutorProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTutorProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildTutorProfileResponse(profile, true), nil
}

func (s *profileService) GetTutorProfileByUserID(userID string) (*dto.TutorProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTutorProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildTutorProfileResponse(profile, true), nil
}

func (s *profileService) UpdateTutorProfile(userID string, req *dto.UpdateTutorProfileRequest) (*dto.TutorProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTutorProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	fields := map[string]interface{}{}
	if req.Subjects != nil {
		fields["subjects"] = pq.StringArray(*req.Subjects)
	}
	if req.HourlyRate != nil {
		fields["hourly_rate"] = *req.HourlyRate
	}
	if req.Experience != nil {
		fields["experience"] = *req.Experience
	}
	if req.Availability != nil {
		fields["availability"] = *req.Availability
	}
	if req.IsAvailableNow != nil {
		fields["is_available_now"] = *req.IsAvailableNow
	}

	if len(fields) > 0 {
		if err := s.profileRepo.UpdateFields(profile.ID, fields); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return s.GetTutorProfileByUserID(userID)
}

func (s *profileService) ListTutors() ([]*dto.TutorProfileResponse, error) {
	profiles, err := s.profileRepo.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.TutorProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, buildTutorProfileResponse(&profiles[i], true))
	}
	return responses, nil
}
