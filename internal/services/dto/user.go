package dto

import (
	"time"

	"tutorlink_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

// UpdateUserRequest is a partial profile update; nil fields are left
// untouched. There is deliberately no password field on this path.
type UpdateUserRequest struct {
	FullName     *string   `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Bio          *string   `json:"bio,omitempty" validate:"omitempty,max=2000"`
	University   *string   `json:"university,omitempty" validate:"omitempty,max=200"`
	Program      *string   `json:"program,omitempty" validate:"omitempty,max=200"`
	Semester     *int      `json:"semester,omitempty" validate:"omitempty,min=1,max=20"`
	Subjects     *[]string `json:"subjects,omitempty"`
	Availability *string   `json:"availability,omitempty" validate:"omitempty,max=500"`
	Budget       *float64  `json:"budget,omitempty" validate:"omitempty,gt=0"`
	ProfileImage *string   `json:"profile_image,omitempty" validate:"omitempty,url"`
}

// ======================
// Response DTOs
// ======================

type UserResponse struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	FullName     string          `json:"full_name"`
	Bio          string          `json:"bio,omitempty"`
	University   string          `json:"university,omitempty"`
	Program      string          `json:"program,omitempty"`
	Semester     int             `json:"semester,omitempty"`
	Subjects     []string        `json:"subjects,omitempty"`
	Availability string          `json:"availability,omitempty"`
	Budget       *float64        `json:"budget,omitempty"`
	ProfileImage string          `json:"profile_image,omitempty"`
	JoinedAt     time.Time       `json:"joined_at"`

	TutorProfile *TutorProfileResponse `json:"tutor_profile,omitempty"`
}
