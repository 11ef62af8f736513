package models

import (
	"github.com/lib/pq"
)

// TutorProfile extends a User with role=tutor. Rating and ReviewCount are
// derived from the review table and always written together; see
// ReviewRepository.CreateAndRecalc.
type TutorProfile struct {
	BaseModel
	UserID         string         `gorm:"not null;uniqueIndex" json:"user_id"`
	Subjects       pq.StringArray `gorm:"type:text[]" json:"subjects"`
	HourlyRate     float64        `gorm:"not null;check:hourly_rate > 0" json:"hourly_rate"`
	Experience     string         `gorm:"type:text" json:"experience"`
	Availability   string         `json:"availability"`
	IsAvailableNow bool           `gorm:"default:false" json:"is_available_now"`
	Rating         float64        `gorm:"default:0" json:"rating"`
	ReviewCount    int            `gorm:"default:0" json:"review_count"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
