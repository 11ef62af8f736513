package models

import "time"

// Session is a booked tutoring appointment (not a login session).
// Status moves pending -> confirmed -> completed, with cancelled reachable
// from pending or confirmed only. Completed and cancelled are terminal.
type Session struct {
	BaseModel
	StudentID      string        `gorm:"not null;index" json:"student_id"`
	TutorID        string        `gorm:"not null;index" json:"tutor_id"`
	Subject        string        `gorm:"not null" json:"subject"`
	SessionType    string        `json:"session_type"` // "online", "one-on-one", ...
	Date           time.Time     `gorm:"not null" json:"date"`
	StartTime      string        `json:"start_time"` // "15:04"
	Duration       int           `gorm:"not null;check:duration > 0" json:"duration"` // minutes
	TotalAmount    float64       `gorm:"not null" json:"total_amount"`                // hourly rate * duration/60
	Status         SessionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	Description    string        `gorm:"type:text" json:"description"`
	ReminderSentAt *time.Time    `json:"reminder_sent_at,omitempty"`

	// Relations
	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Tutor   *User `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
}
