package models

// Review is tied to exactly one completed session. A student reviews a given
// session at most once, enforced by the composite unique index.
type Review struct {
	BaseModel
	SessionID string `gorm:"not null;uniqueIndex:idx_reviews_session_student" json:"session_id"`
	StudentID string `gorm:"not null;uniqueIndex:idx_reviews_session_student;index" json:"student_id"`
	TutorID   string `gorm:"not null;index" json:"tutor_id"`
	Rating    int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string `gorm:"type:text" json:"comment"`

	// Relations
	Session *Session `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}
