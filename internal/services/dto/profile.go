package dto

// ======================
// Request DTOs
// ======================

type CreateTutorProfileRequest struct {
	Subjects       []string `json:"subjects" validate:"required,min=1"`
	HourlyRate     float64  `json:"hourly_rate" validate:"required,gt=0"`
	Experience     string   `json:"experience" validate:"omitempty,max=2000"`
	Availability   string   `json:"availability" validate:"omitempty,max=500"`
	IsAvailableNow bool     `json:"is_available_now"`
}

type UpdateTutorProfileRequest struct {
	Subjects       *[]string `json:"subjects,omitempty"`
	HourlyRate     *float64  `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	Experience     *string   `json:"experience,omitempty" validate:"omitempty,max=2000"`
	Availability   *string   `json:"availability,omitempty" validate:"omitempty,max=500"`
	IsAvailableNow *bool     `json:"is_available_now,omitempty"`
}

// ======================
// Response DTOs
// ======================

type TutorProfileResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Subjects       []string `json:"subjects"`
	HourlyRate     float64  `json:"hourly_rate"`
	Experience     string   `json:"experience,omitempty"`
	Availability   string   `json:"availability,omitempty"`
	IsAvailableNow bool     `json:"is_available_now"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"review_count"`

	User *UserResponse `json:"user,omitempty"`
}
