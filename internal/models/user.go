package models

import (
	"github.com/lib/pq"
)

// User is the canonical account record for both students and tutors.
// CreatedAt doubles as the "joined at" timestamp. Users are never
// hard-deleted; there is no delete path through the services.
type User struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	FullName     string   `json:"full_name"`
	Bio          string   `gorm:"type:text" json:"bio"`
	University   string   `json:"university"`
	Program      string   `json:"program"`
	Semester     int      `json:"semester"`

	// Student-side search data. Tutors keep their teaching subjects and
	// availability on TutorProfile.
	Subjects     pq.StringArray `gorm:"type:text[]" json:"subjects"`
	Availability string         `json:"availability"`
	Budget       *float64       `json:"budget,omitempty"`

	ProfileImage string `json:"profile_image,omitempty"`

	// Relations
	TutorProfile *TutorProfile `gorm:"foreignKey:UserID" json:"tutor_profile,omitempty"`
}
