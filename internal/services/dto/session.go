package dto

import (
	"time"

	"tutorlink_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type CreateSessionRequest struct {
	StudentID   string    `json:"student_id" validate:"required"`
	TutorID     string    `json:"tutor_id" validate:"required"`
	Subject     string    `json:"subject" validate:"required,max=200"`
	SessionType string    `json:"session_type" validate:"omitempty,max=50"`
	Date        time.Time `json:"date" validate:"required"`
	StartTime   string    `json:"start_time" validate:"omitempty,max=20"`
	Duration    int       `json:"duration" validate:"required,gt=0"` // minutes
	Description string    `json:"description" validate:"omitempty,max=2000"`
}

type UpdateSessionStatusRequest struct {
	Status models.SessionStatus `json:"status" validate:"required,is-session-status"`
}

// UpdateSessionPaymentStatusRequest carries the payment signal reported by the
// payment collaborator. The value is opaque to the lifecycle state machine.
type UpdateSessionPaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required,is-payment-status"`
}

// ======================
// Response DTOs
// ======================

type SessionResponse struct {
	ID             string               `json:"id"`
	StudentID      string               `json:"student_id"`
	TutorID        string               `json:"tutor_id"`
	Subject        string               `json:"subject"`
	SessionType    string               `json:"session_type,omitempty"`
	Date           time.Time            `json:"date"`
	StartTime      string               `json:"start_time,omitempty"`
	Duration       int                  `json:"duration"`
	TotalAmount    float64              `json:"total_amount"`
	Status         models.SessionStatus `json:"status"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	Description    string               `json:"description,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`

	StudentName string `json:"student_name,omitempty"`
	TutorName   string `json:"tutor_name,omitempty"`
}

type SessionListResponse struct {
	Sessions   []*SessionResponse `json:"sessions"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
