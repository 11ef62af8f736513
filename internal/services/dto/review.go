package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateReviewRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	StudentID string `json:"student_id" validate:"-"` // set by the server from auth
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	StudentID string    `json:"student_id"`
	TutorID   string    `json:"tutor_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// TutorRatingResponse reports the derived aggregate for a tutor.
type TutorRatingResponse struct {
	TutorID     string  `json:"tutor_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
