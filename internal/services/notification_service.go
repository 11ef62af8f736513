package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"tutorlink_backend/internal/logger"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/pkg/email"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type NotificationService interface {
	GetUserNotifications(userID string, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)

	// Factory methods for the event types the marketplace emits. All are
	// fire-and-forget from the caller's perspective.
	NotifySessionRequested(tutorID, studentName, sessionID string) error
	NotifySessionStatus(userID, sessionID string, status models.SessionStatus) error
	NotifySessionReminder(userID, sessionID, subject, when string) error
	NotifyNewMessage(recipientID, senderName, conversationID string) error
	NotifyNewReview(tutorID, sessionID string, rating int) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailProvider    email.Provider
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailProvider:    emailProvider,
	}
}

// ---------------- Notification operations ----------------

func (s *notificationService) GetUserNotifications(userID string, page, pageSize int) (*dto.NotificationListResponse, error) {
	offset := (page - 1) * pageSize
	notifications, total, err := s.notificationRepo.FindByUser(userID, pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	err := s.notificationRepo.MarkAsRead(userID, notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// ---------------- Factory methods ----------------

func (s *notificationService) NotifySessionRequested(tutorID, studentName, sessionID string) error {
	return s.create(tutorID, "session_requested",
		"New session request",
		fmt.Sprintf("%s requested a tutoring session with you", studentName),
		map[string]string{"session_id": sessionID})
}

func (s *notificationService) NotifySessionStatus(userID, sessionID string, status models.SessionStatus) error {
	var title, message string
	switch status {
	case models.SessionStatusConfirmed:
		title = "Session confirmed"
		message = "Your tutor confirmed the session"
	case models.SessionStatusCompleted:
		title = "Session completed"
		message = "Your session was marked as completed. You can now leave a review."
	case models.SessionStatusCancelled:
		title = "Session cancelled"
		message = "The session was cancelled"
	default:
		title = "Session updated"
		message = fmt.Sprintf("Session status changed to %s", status)
	}

	if err := s.create(userID, "session_status", title, message,
		map[string]string{"session_id": sessionID, "status": string(status)}); err != nil {
		return err
	}

	// Confirmations also go out by email, best effort.
	if status == models.SessionStatusConfirmed {
		s.sendStatusEmail(userID, title, message)
	}
	return nil
}

func (s *notificationService) NotifySessionReminder(userID, sessionID, subject, when string) error {
	return s.create(userID, "session_reminder",
		"Upcoming session",
		fmt.Sprintf("Your %s session starts %s", subject, when),
		map[string]string{"session_id": sessionID})
}

func (s *notificationService) NotifyNewMessage(recipientID, senderName, conversationID string) error {
	return s.create(recipientID, "new_message",
		"New message",
		fmt.Sprintf("%s sent you a message", senderName),
		map[string]string{"conversation_id": conversationID})
}

func (s *notificationService) NotifyNewReview(tutorID, sessionID string, rating int) error {
	return s.create(tutorID, "new_review",
		"New review",
		fmt.Sprintf("You received a %d-star review", rating),
		map[string]string{"session_id": sessionID})
}

// ---------------- Helpers ----------------

func (s *notificationService) create(userID, notifType, title, message string, data map[string]string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return apperrors.InternalError(err)
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    datatypes.JSON(payload),
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) sendStatusEmail(userID, subject, message string) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.Warn("notification email skipped, user lookup failed", "user_id", userID, "error", err)
		return
	}

	go func() {
		err := s.emailProvider.SendTemplate(
			[]string{user.Email},
			subject,
			"session_confirmed",
			email.TemplateData{
				UserName: user.FullName,
				Subject:  subject,
				Message:  message,
			},
		)
		if err != nil {
			logger.Warn("failed to send notification email", "user_id", userID, "error", err)
		}
	}()
}

func buildNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
