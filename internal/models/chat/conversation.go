package chat

import "time"

// Conversation is the unordered pair (participant one, participant two).
// Lookup is order-insensitive; the repository checks both orderings.
type Conversation struct {
	ID               string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ParticipantOneID string    `gorm:"not null;index:idx_conversations_pair" json:"participant_one_id"`
	ParticipantTwoID string    `gorm:"not null;index:idx_conversations_pair" json:"participant_two_id"`
	LastMessageAt    time.Time `gorm:"not null" json:"last_message_at"`
	CreatedAt        time.Time `json:"created_at"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "chat.conversations"
}

// OtherParticipant returns the counterpart of userID, or "" if userID is not
// a participant.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantOneID:
		return c.ParticipantTwoID
	case c.ParticipantTwoID:
		return c.ParticipantOneID
	default:
		return ""
	}
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID == c.ParticipantOneID || userID == c.ParticipantTwoID
}
