package services

import (
	"fmt"
	"strings"

	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/notify"
	"github.com/mroshb/chat_app/internal/security"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
)

const defaultMessageLimit = 100

// MessageView is a message with its sender rendered for the caller.
type MessageView struct {
	Message       models.Message
	SenderName    string
	SenderImage   string
	IsCurrentUser bool
}

type MessageService struct {
	store     *Store
	notifier  notify.Notifier
	maxLength int
}

func NewMessageService(store *Store, notifier notify.Notifier, maxLength int) *MessageService {
	return &MessageService{
		store:     store,
		notifier:  notifier,
		maxLength: maxLength,
	}
}

// Create appends a message and moves the conversation's last-message pointer
// in the same transaction.
func (s *MessageService) Create(externalID string, convID uint, msgType, content string) (*models.Message, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}

	content, err = s.validateContent(msgType, content)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: convID,
		SenderID:       caller.ID,
		Type:           msgType,
		Content:        content,
	}

	var conv *models.Conversation
	err = s.store.Transaction(func(tx *Store) error {
		var err error
		conv, err = tx.Conversations.GetConversationByID(convID)
		if err != nil {
			return err
		}
		if _, err := tx.membership(convID, caller.ID); err != nil {
			return err
		}
		if err := tx.Messages.CreateMessage(msg); err != nil {
			return err
		}
		return tx.Conversations.SetLastMessage(convID, msg.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyMembers(conv, caller, msg)
	return msg, nil
}

// List returns the newest messages of a conversation the caller belongs to,
// newest first. A non-positive limit uses the default.
func (s *MessageService) List(externalID string, convID uint, limit int) ([]MessageView, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.membership(convID, caller.ID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessageLimit
	}
	msgs, err := s.store.Messages.GetConversationMessages(convID, limit)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		senderIDs = append(senderIDs, m.SenderID)
	}
	senders, err := s.store.Users.GetUsersByIDs(senderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		sender, ok := senders[m.SenderID]
		if !ok {
			logger.Warn("Skipping message from missing sender", "message_id", m.ID, "sender_id", m.SenderID)
			continue
		}
		if m.IsDeleted {
			m.Content = ""
		}
		views = append(views, MessageView{
			Message:       m,
			SenderName:    sender.DisplayName(),
			SenderImage:   sender.ImageURL,
			IsCurrentUser: m.SenderID == caller.ID,
		})
	}
	return views, nil
}

// Delete flags one of the caller's own messages as deleted.
func (s *MessageService) Delete(externalID string, messageID uint) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}

	msg, err := s.store.Messages.GetMessageByID(messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != caller.ID {
		return errors.New(errors.ErrCodeForbidden, "you can only delete your own messages")
	}
	if msg.IsDeleted {
		return nil
	}
	return s.store.Messages.SoftDelete(msg.ID)
}

func (s *MessageService) validateContent(msgType, content string) (string, error) {
	switch msgType {
	case models.MessageTypeText:
		content = security.SanitizeString(content, s.maxLength)
		if content == "" {
			return "", errors.New(errors.ErrCodeValidation, "message can't be empty")
		}
	case models.MessageTypeImage:
		content = security.SanitizeString(content, maxURLLength)
		if content == "" {
			return "", errors.New(errors.ErrCodeValidation, "image reference is required")
		}
	case models.MessageTypeDocument:
		if _, err := models.ParseDocumentContent(content); err != nil {
			return "", errors.Wrap(err, errors.ErrCodeValidation, "document needs storageId, fileName and fileType")
		}
		content = strings.TrimSpace(content)
	default:
		return "", errors.Newf(errors.ErrCodeValidation, "unsupported message type %q", msgType)
	}
	return content, nil
}

func (s *MessageService) notifyMembers(conv *models.Conversation, sender *models.User, msg *models.Message) {
	members, err := s.store.Conversations.GetMembers(conv.ID)
	if err != nil {
		logger.Warn("Failed to load members for notification", "error", err, "conversation_id", conv.ID)
		return
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		if m.MemberID != sender.ID {
			ids = append(ids, m.MemberID)
		}
	}
	users, err := s.store.Users.GetUsersByIDs(ids)
	if err != nil {
		logger.Warn("Failed to load recipients for notification", "error", err, "conversation_id", conv.ID)
		return
	}

	recipients := make([]models.User, 0, len(users))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			recipients = append(recipients, u)
		}
	}
	if len(recipients) == 0 {
		return
	}

	text := fmt.Sprintf("%s: %s", sender.DisplayName(), msg.Preview())
	if conv.IsGroup {
		text = fmt.Sprintf("%s in %s: %s", sender.DisplayName(), conv.Name, msg.Preview())
	}

	s.notifier.Notify(notify.Event{
		Kind:           notify.KindMessage,
		ConversationID: conv.ID,
		Recipients:     recipients,
		Text:           text,
	})
}
