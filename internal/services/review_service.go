package services

import (
	"tutorlink_backend/internal/logger"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type ReviewService interface {
	SubmitReview(studentID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetTutorReviews(tutorID string, page, pageSize int) (*dto.ReviewListResponse, error)
	GetTutorRating(tutorID string) (*dto.TutorRatingResponse, error)
}

type reviewService struct {
	reviewRepo      repositories.ReviewRepository
	sessionRepo     repositories.SessionRepository
	profileRepo     repositories.TutorProfileRepository
	notificationSvc NotificationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	sessionRepo repositories.SessionRepository,
	profileRepo repositories.TutorProfileRepository,
	notificationSvc NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		sessionRepo:     sessionRepo,
		profileRepo:     profileRepo,
		notificationSvc: notificationSvc,
	}
}

// SubmitReview checks the preconditions in order of specificity (does the
// session exist, is it reviewable, may this caller review it, has it been
// reviewed), then inserts the review and recomputes the tutor's aggregate in
// one transaction.
func (s *reviewService) SubmitReview(studentID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	session, err := s.sessionRepo.FindByID(req.SessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if session.Status != models.SessionStatusCompleted {
		return nil, apperrors.ErrSessionNotCompleted
	}
	if session.StudentID != studentID {
		return nil, apperrors.ErrNotSessionStudent
	}
	if _, err := s.reviewRepo.FindBySessionAndStudent(req.SessionID, studentID); err == nil {
		return nil, apperrors.ErrDuplicateReview
	}

	review := &models.Review{
		SessionID: req.SessionID,
		StudentID: studentID,
		TutorID:   session.TutorID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.reviewRepo.CreateAndRecalc(review); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrReviewAlreadyExists):
			// Lost the race against a concurrent submission.
			return nil, apperrors.ErrConflict(err, "reviews",
				"A review already exists for this session")
		case apperrors.Is(err, repositories.ErrTutorProfileNotFound):
			return nil, apperrors.ErrNotFound(err)
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	if err := s.notificationSvc.NotifyNewReview(session.TutorID, session.ID, review.Rating); err != nil {
		logger.Warn("review notification failed", "session_id", session.ID, "error", err)
	}

	return buildReviewResponse(review), nil
}

func (s *reviewService) GetTutorReviews(tutorID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindByTutorWithPagination(tutorID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, buildReviewResponse(&reviews[i]))
	}

	return &dto.ReviewListResponse{
		Reviews:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

// GetTutorRating reads the stored aggregate; it is maintained transactionally
// on every submission, so no recomputation happens here.
func (s *reviewService) GetTutorRating(tutorID string) (*dto.TutorRatingResponse, error) {
	profile, err := s.profileRepo.FindByUserID(tutorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTutorProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.TutorRatingResponse{
		TutorID:     tutorID,
		Rating:      profile.Rating,
		ReviewCount: profile.ReviewCount,
	}, nil
}

func buildReviewResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:        review.ID,
		SessionID: review.SessionID,
		StudentID: review.StudentID,
		TutorID:   review.TutorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
