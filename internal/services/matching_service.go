package services

import (
	"strings"

	"tutorlink_backend/internal/algorithms"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type MatchingService interface {
	SearchTutors(criteria *dto.TutorSearchCriteria) (*dto.TutorSearchResponse, error)
	SearchStudents(criteria *dto.StudentSearchCriteria) (*dto.StudentSearchResponse, error)
}

type matchingService struct {
	profileRepo repositories.TutorProfileRepository
	userRepo    repositories.UserRepository
	matcher     algorithms.TextMatcher
}

func NewMatchingService(
	profileRepo repositories.TutorProfileRepository,
	userRepo repositories.UserRepository,
	matcher algorithms.TextMatcher,
) MatchingService {
	return &matchingService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		matcher:     matcher,
	}
}

// SearchTutors loads the full candidate set and narrows it filter by filter.
// Cheap numeric comparisons run first, the text matching last, so most
// candidates drop out before the expensive step.
func (s *matchingService) SearchTutors(criteria *dto.TutorSearchCriteria) (*dto.TutorSearchResponse, error) {
	profiles, err := s.profileRepo.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	subjects := splitSubjects(criteria.Subjects)

	matched := make([]*dto.TutorProfileResponse, 0, len(profiles))
	for i := range profiles {
		profile := &profiles[i]

		if criteria.MaxRate != nil && profile.HourlyRate > *criteria.MaxRate {
			continue
		}
		if criteria.IsAvailableNow != nil && profile.IsAvailableNow != *criteria.IsAvailableNow {
			continue
		}
		if criteria.Program != "" {
			if profile.User == nil || !strings.EqualFold(profile.User.Program, criteria.Program) {
				continue
			}
		}
		if criteria.Semester > 0 {
			if profile.User == nil || profile.User.Semester != criteria.Semester {
				continue
			}
		}
		if len(subjects) > 0 {
			// A tutor advertising no subjects cannot be matched against a
			// subject filter and is excluded, unlike the student search below.
			if len(profile.Subjects) == 0 || !s.matchesAnyRequested(subjects, profile.Subjects) {
				continue
			}
		}

		matched = append(matched, buildTutorProfileResponse(profile, true))
	}

	return &dto.TutorSearchResponse{Tutors: matched, Total: len(matched)}, nil
}

// SearchStudents is the reverse direction: tutors browsing for clients.
// Student profiles are often sparse, so a missing field never disqualifies a
// candidate; only a present, non-matching field does.
func (s *matchingService) SearchStudents(criteria *dto.StudentSearchCriteria) (*dto.StudentSearchResponse, error) {
	students, err := s.userRepo.FindStudents()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	subjects := splitSubjects(criteria.Subjects)

	matched := make([]*dto.UserResponse, 0, len(students))
	for i := range students {
		student := &students[i]

		if len(subjects) > 0 && len(student.Subjects) > 0 &&
			!s.matchesAnyRequested(subjects, student.Subjects) {
			continue
		}
		if criteria.Program != "" && student.Program != "" &&
			!strings.EqualFold(student.Program, criteria.Program) {
			continue
		}
		if criteria.Semester > 0 && student.Semester > 0 &&
			student.Semester != criteria.Semester {
			continue
		}
		if criteria.Availability != "" && student.Availability != "" &&
			!s.matcher.MatchAvailability(criteria.Availability, student.Availability) {
			continue
		}
		if criteria.MaxBudget != nil && student.Budget != nil &&
			*student.Budget > *criteria.MaxBudget {
			continue
		}

		matched = append(matched, buildUserResponse(student))
	}

	return &dto.StudentSearchResponse{Students: matched, Total: len(matched)}, nil
}

func (s *matchingService) matchesAnyRequested(requested, stored []string) bool {
	for _, subject := range requested {
		if s.matcher.MatchAnySubject(subject, stored) {
			return true
		}
	}
	return false
}

func splitSubjects(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	subjects := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			subjects = append(subjects, trimmed)
		}
	}
	return subjects
}
