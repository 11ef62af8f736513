package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tutorlink_backend/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStaleStatus     = errors.New("session status changed concurrently")
)

type SessionRepository interface {
	Create(session *models.Session) error
	FindByID(id string) (*models.Session, error)
	FindByStudent(studentID string, limit, offset int) ([]models.Session, int64, error)
	FindByTutor(tutorID string, limit, offset int) ([]models.Session, int64, error)

	// UpdateStatusIfCurrent performs the atomic check-then-set for the
	// lifecycle state machine: the row is only updated when its status still
	// equals expected. A concurrent transition surfaces as ErrStaleStatus.
	UpdateStatusIfCurrent(sessionID string, expected, next models.SessionStatus) error

	UpdatePaymentStatus(sessionID string, status models.PaymentStatus) error

	// Reminder sweep support.
	FindConfirmedStartingWithin(from, to time.Time) ([]models.Session, error)
	MarkReminderSent(sessionID string, at time.Time) error
}

type SessionRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

func (r *SessionRepositoryImpl) FindByID(id string) (*models.Session, error) {
	var session models.Session
	err := r.db.Preload("Student").Preload("Tutor").First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) FindByStudent(studentID string, limit, offset int) ([]models.Session, int64, error) {
	return r.findByParticipant("student_id", studentID, limit, offset)
}

func (r *SessionRepositoryImpl) FindByTutor(tutorID string, limit, offset int) ([]models.Session, int64, error) {
	return r.findByParticipant("tutor_id", tutorID, limit, offset)
}

func (r *SessionRepositoryImpl) findByParticipant(column, id string, limit, offset int) ([]models.Session, int64, error) {
	var sessions []models.Session
	var total int64

	query := r.db.Model(&models.Session{}).Where(column+" = ?", id)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Student").Preload("Tutor").
		Order("date DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *SessionRepositoryImpl) UpdateStatusIfCurrent(sessionID string, expected, next models.SessionStatus) error {
	result := r.db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, expected).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the session is gone or another caller won the race.
		var count int64
		if err := r.db.Model(&models.Session{}).Where("id = ?", sessionID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrSessionNotFound
		}
		return ErrStaleStatus
	}
	return nil
}

func (r *SessionRepositoryImpl) UpdatePaymentStatus(sessionID string, status models.PaymentStatus) error {
	result := r.db.Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepositoryImpl) FindConfirmedStartingWithin(from, to time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.Preload("Student").Preload("Tutor").
		Where("status = ? AND reminder_sent_at IS NULL AND date BETWEEN ? AND ?",
			models.SessionStatusConfirmed, from, to).
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepositoryImpl) MarkReminderSent(sessionID string, at time.Time) error {
	return r.db.Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("reminder_sent_at", at).Error
}
