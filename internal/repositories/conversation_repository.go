package repositories

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/errors"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) WithTx(tx *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: tx}
}

// CreateConversation creates a new conversation
func (r *ConversationRepository) CreateConversation(conv *models.Conversation) error {
	if err := r.db.Create(conv).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create conversation")
	}
	return nil
}

// GetConversationByID retrieves a conversation by ID
func (r *ConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	result := r.db.First(&conv, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "conversation not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get conversation")
	}

	return &conv, nil
}

// GetConversationsByIDs returns the conversations that exist among ids, keyed by id
func (r *ConversationRepository) GetConversationsByIDs(ids []uint) (map[uint]models.Conversation, error) {
	convs := make(map[uint]models.Conversation, len(ids))
	if len(ids) == 0 {
		return convs, nil
	}

	var rows []models.Conversation
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get conversations")
	}
	for _, c := range rows {
		convs[c.ID] = c
	}
	return convs, nil
}

// GetDirectConversation returns the direct conversation between two users, or nil
func (r *ConversationRepository) GetDirectConversation(user1ID, user2ID uint) (*models.Conversation, error) {
	var conv models.Conversation
	result := r.db.Where("direct_key = ? AND is_group = ?", models.DirectKeyFor(user1ID, user2ID), false).First(&conv)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get direct conversation")
	}

	return &conv, nil
}

// UpdateName updates a group's name
func (r *ConversationRepository) UpdateName(convID uint, name string) error {
	return r.updateColumn(convID, "name", name, "failed to update group name")
}

// UpdateImage updates a group's avatar reference
func (r *ConversationRepository) UpdateImage(convID uint, imageURL string) error {
	return r.updateColumn(convID, "image_url", imageURL, "failed to update group image")
}

// UpdateCreator hands group ownership to userID
func (r *ConversationRepository) UpdateCreator(convID, userID uint) error {
	return r.updateColumn(convID, "creator_id", userID, "failed to transfer group ownership")
}

// SetLastMessage points the conversation at its newest message
func (r *ConversationRepository) SetLastMessage(convID, messageID uint) error {
	return r.updateColumn(convID, "last_message_id", messageID, "failed to update last message")
}

func (r *ConversationRepository) updateColumn(convID uint, column string, value interface{}, failure string) error {
	result := r.db.Model(&models.Conversation{}).
		Where("id = ?", convID).
		UpdateColumn(column, value)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, failure)
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "conversation not found")
	}

	return nil
}

// DeleteConversation removes a conversation with all its memberships and
// messages. Callers run it inside a transaction.
func (r *ConversationRepository) DeleteConversation(convID uint) error {
	if err := r.db.Where("conversation_id = ?", convID).Delete(&models.ConversationMember{}).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete conversation members")
	}

	if err := r.db.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete conversation messages")
	}

	result := r.db.Delete(&models.Conversation{}, convID)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete conversation")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "conversation not found")
	}

	return nil
}

// AddMember adds userID to a conversation. It reports false when the user was
// already a member.
func (r *ConversationRepository) AddMember(convID, userID uint) (bool, error) {
	existing, err := r.GetMember(convID, userID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	member := &models.ConversationMember{
		ConversationID: convID,
		MemberID:       userID,
	}

	if err := r.db.Create(member).Error; err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to add member")
	}

	return true, nil
}

// GetMember returns userID's membership in a conversation, or nil
func (r *ConversationRepository) GetMember(convID, userID uint) (*models.ConversationMember, error) {
	var member models.ConversationMember
	result := r.db.Where("conversation_id = ? AND member_id = ?", convID, userID).First(&member)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check membership")
	}

	return &member, nil
}

// GetMembers retrieves a conversation's roster in join order
func (r *ConversationRepository) GetMembers(convID uint) ([]models.ConversationMember, error) {
	var members []models.ConversationMember
	result := r.db.Where("conversation_id = ?", convID).
		Order("id ASC").
		Find(&members)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get conversation members")
	}

	return members, nil
}

// GetMembershipsForUser retrieves every membership held by userID
func (r *ConversationRepository) GetMembershipsForUser(userID uint) ([]models.ConversationMember, error) {
	var members []models.ConversationMember
	result := r.db.Where("member_id = ?", userID).
		Order("id ASC").
		Find(&members)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user conversations")
	}

	return members, nil
}

// RemoveMember removes userID from a conversation
func (r *ConversationRepository) RemoveMember(convID, userID uint) error {
	result := r.db.Where("conversation_id = ? AND member_id = ?", convID, userID).
		Delete(&models.ConversationMember{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove member")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "member not found")
	}

	return nil
}

// GetMemberCount returns the number of members in a conversation
func (r *ConversationRepository) GetMemberCount(convID uint) (int, error) {
	var count int64
	result := r.db.Model(&models.ConversationMember{}).
		Where("conversation_id = ?", convID).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count members")
	}

	return int(count), nil
}

// UpdateLastSeen records the newest message userID has read
func (r *ConversationRepository) UpdateLastSeen(convID, userID, messageID uint) error {
	result := r.db.Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND member_id = ?", convID, userID).
		Update("last_seen_message_id", messageID)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update last seen message")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "member not found")
	}

	return nil
}
