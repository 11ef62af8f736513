package dto

// ======================
// Search criteria (query params)
// ======================

// TutorSearchCriteria narrows the tutor candidate set. Subjects accepts a
// comma-separated list. Absent filters mean "browse all".
type TutorSearchCriteria struct {
	Subjects       string   `form:"subjects"`
	Program        string   `form:"program"`
	Semester       int      `form:"semester" validate:"omitempty,min=1,max=20"`
	MaxRate        *float64 `form:"max_rate" validate:"omitempty,gt=0"`
	IsAvailableNow *bool    `form:"is_available_now"`
}

// StudentSearchCriteria mirrors TutorSearchCriteria from the tutor's
// perspective ("tutors searching for clients").
type StudentSearchCriteria struct {
	Subjects     string   `form:"subjects"`
	Program      string   `form:"program"`
	Semester     int      `form:"semester" validate:"omitempty,min=1,max=20"`
	Availability string   `form:"availability"`
	MaxBudget    *float64 `form:"max_budget" validate:"omitempty,gt=0"`
}

// ======================
// Results
// ======================

type TutorSearchResponse struct {
	Tutors []*TutorProfileResponse `json:"tutors"`
	Total  int                     `json:"total"`
}

type StudentSearchResponse struct {
	Students []*UserResponse `json:"students"`
	Total    int             `json:"total"`
}
