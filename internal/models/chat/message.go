package chat

import "time"

// Message is immutable once created except for its status, which moves
// sent -> delivered -> read and never back.
type Message struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ConversationID string    `gorm:"index;not null" json:"conversation_id"`
	SenderID       string    `gorm:"index;not null" json:"sender_id"`
	ReceiverID     string    `gorm:"index;not null" json:"receiver_id"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	Status         string    `gorm:"default:'sent'" json:"status"` // sent, delivered, read
	SentAt         time.Time `gorm:"not null" json:"sent_at"`
}

func (Message) TableName() string {
	return "chat.messages"
}
