package chat

import (
	"errors"

	"gorm.io/gorm"

	"tutorlink_backend/internal/models"
	chatmodels "tutorlink_backend/internal/models/chat"
)

var (
	ErrMessageNotFound = errors.New("message not found")
)

type MessageRepository interface {
	Create(message *chatmodels.Message) error
	FindByConversation(conversationID string, limit, offset int) ([]chatmodels.Message, error)

	// MarkReadForReader flips every sent/delivered message addressed to the
	// reader to read. Re-running it is a no-op, which makes markRead
	// idempotent by construction.
	MarkReadForReader(conversationID, readerID string) (int64, error)

	CountUnreadForReader(conversationID, readerID string) (int64, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *chatmodels.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByConversation(conversationID string, limit, offset int) ([]chatmodels.Message, error) {
	var messages []chatmodels.Message
	query := r.db.Where("conversation_id = ?", conversationID).Order("sent_at ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) MarkReadForReader(conversationID, readerID string) (int64, error) {
	result := r.db.Model(&chatmodels.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND status IN ?",
			conversationID, readerID,
			[]string{string(models.MessageStatusSent), string(models.MessageStatusDelivered)}).
		Update("status", string(models.MessageStatusRead))
	return result.RowsAffected, result.Error
}

func (r *MessageRepositoryImpl) CountUnreadForReader(conversationID, readerID string) (int64, error) {
	var count int64
	err := r.db.Model(&chatmodels.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND status != ?",
			conversationID, readerID, string(models.MessageStatusRead)).
		Count(&count).Error
	return count, err
}
