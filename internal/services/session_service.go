package services

import (
	"time"

	"tutorlink_backend/internal/logger"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type SessionService interface {
	CreateSession(callerID string, callerRole models.UserRole, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(callerID, sessionID string) (*dto.SessionResponse, error)
	ListSessions(callerID string, callerRole models.UserRole, page, pageSize int) (*dto.SessionListResponse, error)
	UpdateStatus(callerID, sessionID string, next models.SessionStatus) (*dto.SessionResponse, error)
	UpdatePaymentStatus(callerID, sessionID string, next models.PaymentStatus) (*dto.SessionResponse, error)
}

type sessionService struct {
	sessionRepo     repositories.SessionRepository
	userRepo        repositories.UserRepository
	profileRepo     repositories.TutorProfileRepository
	notificationSvc NotificationService
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.TutorProfileRepository,
	notificationSvc NotificationService,
) SessionService {
	return &sessionService{
		sessionRepo:     sessionRepo,
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		notificationSvc: notificationSvc,
	}
}

// allowedTransitions is the lifecycle state machine. tutorOnly marks the
// transitions the student side may not perform.
var allowedTransitions = map[models.SessionStatus]map[models.SessionStatus]struct{ tutorOnly bool }{
	models.SessionStatusPending: {
		models.SessionStatusConfirmed: {tutorOnly: true},
		models.SessionStatusCancelled: {tutorOnly: false},
	},
	models.SessionStatusConfirmed: {
		models.SessionStatusCompleted: {tutorOnly: true},
		models.SessionStatusCancelled: {tutorOnly: false},
	},
}

func (s *sessionService) CreateSession(callerID string, callerRole models.UserRole, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	// The caller may only book into their own role slot: a student sets
	// themselves as the student, a tutor as the tutor.
	switch callerRole {
	case models.UserRoleStudent:
		if req.StudentID != callerID {
			return nil, apperrors.ErrRoleSlotMismatch
		}
	case models.UserRoleTutor:
		if req.TutorID != callerID {
			return nil, apperrors.ErrRoleSlotMismatch
		}
	default:
		return nil, apperrors.ErrInvalidUserRole
	}

	if req.Duration <= 0 {
		return nil, apperrors.ErrInvalidOperation("sessions", "Duration must be a positive number of minutes")
	}

	student, err := s.userRepo.FindByID(req.StudentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if student.Role != models.UserRoleStudent {
		return nil, apperrors.ErrInvalidOperation("sessions", "student_id must reference a student account")
	}

	tutor, err := s.userRepo.FindByID(req.TutorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if tutor.Role != models.UserRoleTutor {
		return nil, apperrors.ErrInvalidOperation("sessions", "tutor_id must reference a tutor account")
	}

	profile, err := s.profileRepo.FindByUserID(req.TutorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTutorProfileNotFound) {
			return nil, apperrors.ErrInvalidOperation("sessions", "Tutor has not published a profile yet")
		}
		return nil, apperrors.InternalError(err)
	}

	session := &models.Session{
		StudentID:   req.StudentID,
		TutorID:     req.TutorID,
		Subject:     req.Subject,
		SessionType: req.SessionType,
		Date:        req.Date,
		StartTime:   req.StartTime,
		Duration:    req.Duration,
		// Price is derived server-side from the tutor's published rate,
		// never taken from the request.
		TotalAmount:   profile.HourlyRate * float64(req.Duration) / 60.0,
		Status:        models.SessionStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Description:   req.Description,
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationSvc.NotifySessionRequested(tutor.ID, student.FullName, session.ID); err != nil {
		logger.Warn("session request notification failed", "session_id", session.ID, "error", err)
	}

	session.Student = student
	session.Tutor = tutor
	return buildSessionResponse(session), nil
}

func (s *sessionService) GetSession(callerID, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if callerID != session.StudentID && callerID != session.TutorID {
		return nil, apperrors.ErrNotSessionParticipant
	}
	return buildSessionResponse(session), nil
}

func (s *sessionService) ListSessions(callerID string, callerRole models.UserRole, page, pageSize int) (*dto.SessionListResponse, error) {
	offset := (page - 1) * pageSize

	var sessions []models.Session
	var total int64
	var err error
	if callerRole == models.UserRoleTutor {
		sessions, total, err = s.sessionRepo.FindByTutor(callerID, pageSize, offset)
	} else {
		sessions, total, err = s.sessionRepo.FindByStudent(callerID, pageSize, offset)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, buildSessionResponse(&sessions[i]))
	}

	return &dto.SessionListResponse{
		Sessions:   responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

// UpdateStatus drives the lifecycle state machine. The transition is gated on
// the caller's relationship to the session, then applied with a conditional
// update so a concurrent transition loses cleanly instead of overwriting.
func (s *sessionService) UpdateStatus(callerID, sessionID string, next models.SessionStatus) (*dto.SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if callerID != session.StudentID && callerID != session.TutorID {
		return nil, apperrors.ErrNotSessionParticipant
	}

	if session.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidStatus("sessions",
			"Session is in a terminal state and cannot be changed")
	}
	rule, ok := allowedTransitions[session.Status][next]
	if !ok {
		return nil, apperrors.ErrInvalidStatus("sessions",
			"Transition from "+string(session.Status)+" to "+string(next)+" is not allowed")
	}
	if rule.tutorOnly && callerID != session.TutorID {
		return nil, apperrors.ErrOnlyTutorMayTransition
	}

	if err := s.sessionRepo.UpdateStatusIfCurrent(sessionID, session.Status, next); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrSessionNotFound):
			return nil, apperrors.ErrSessionNotFound
		case apperrors.Is(err, repositories.ErrStaleStatus):
			return nil, apperrors.ErrInvalidStatus("sessions",
				"Session status changed concurrently, reload and retry")
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	// Tell the counterpart, not the actor.
	recipient := session.StudentID
	if callerID == session.StudentID {
		recipient = session.TutorID
	}
	if err := s.notificationSvc.NotifySessionStatus(recipient, session.ID, next); err != nil {
		logger.Warn("session status notification failed", "session_id", session.ID, "error", err)
	}

	session.Status = next
	session.UpdatedAt = time.Now()
	return buildSessionResponse(session), nil
}

// UpdatePaymentStatus records the payment signal on the session. The value is
// opaque here; only participants may report it, and it never feeds back into
// the lifecycle state machine.
func (s *sessionService) UpdatePaymentStatus(callerID, sessionID string, next models.PaymentStatus) (*dto.SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if callerID != session.StudentID && callerID != session.TutorID {
		return nil, apperrors.ErrNotSessionParticipant
	}

	if err := s.sessionRepo.UpdatePaymentStatus(sessionID, next); err != nil {
		if apperrors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	session.PaymentStatus = next
	return buildSessionResponse(session), nil
}
