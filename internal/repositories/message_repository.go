package repositories

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/errors"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// CreateMessage appends a message
func (r *MessageRepository) CreateMessage(msg *models.Message) error {
	if err := r.db.Create(msg).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create message")
	}
	return nil
}

// GetMessageByID retrieves a message by ID
func (r *MessageRepository) GetMessageByID(id uint) (*models.Message, error) {
	var msg models.Message
	result := r.db.First(&msg, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "message not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get message")
	}

	return &msg, nil
}

// GetMessagesByIDs returns the messages that exist among ids, keyed by id
func (r *MessageRepository) GetMessagesByIDs(ids []uint) (map[uint]models.Message, error) {
	msgs := make(map[uint]models.Message, len(ids))
	if len(ids) == 0 {
		return msgs, nil
	}

	var rows []models.Message
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get messages")
	}
	for _, m := range rows {
		msgs[m.ID] = m
	}
	return msgs, nil
}

// GetConversationMessages returns up to limit messages, newest first. A
// non-positive limit returns the whole log.
func (r *MessageRepository) GetConversationMessages(convID uint, limit int) ([]models.Message, error) {
	var msgs []models.Message
	q := r.db.Where("conversation_id = ?", convID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&msgs).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get messages")
	}

	return msgs, nil
}

// GetLatestMessage returns the newest message in a conversation, or nil
func (r *MessageRepository) GetLatestMessage(convID uint) (*models.Message, error) {
	var msg models.Message
	result := r.db.Where("conversation_id = ?", convID).Order("id DESC").First(&msg)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get latest message")
	}

	return &msg, nil
}

// CountConversationMessages counts messages in a conversation, deleted ones included
func (r *MessageRepository) CountConversationMessages(convID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Message{}).Where("conversation_id = ?", convID).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count messages")
	}
	return count, nil
}

// SoftDelete flags a message as deleted; its row is kept
func (r *MessageRepository) SoftDelete(id uint) error {
	result := r.db.Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_deleted", true)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete message")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "message not found")
	}

	return nil
}
