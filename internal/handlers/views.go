package handlers

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/services"
)

type userView struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ImageURL       string `json:"imageUrl"`
	Email          string `json:"email,omitempty"`
	Verified       bool   `json:"verified"`
	Premium        bool   `json:"premium"`
	TelegramChatID int64  `json:"telegramChatId,omitempty"`
}

// publicUser leaves out contact details.
func publicUser(u *models.User) *userView {
	if u == nil {
		return nil
	}
	return &userView{
		ID:       u.ID,
		Username: u.DisplayName(),
		ImageURL: u.ImageURL,
		Verified: u.Verified,
		Premium:  u.Premium,
	}
}

func selfUser(u *models.User) *userView {
	v := publicUser(u)
	v.Email = u.Email
	v.TelegramChatID = u.TelegramChatID
	return v
}

type requestView struct {
	ID        uint      `json:"id"`
	Sender    *userView `json:"sender"`
	CreatedAt int64     `json:"createdAt"`
}

type conversationView struct {
	ID            uint      `json:"id"`
	IsGroup       bool      `json:"isGroup"`
	Name          string    `json:"name,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatorID     *uint     `json:"creatorId,omitempty"`
	LastMessageID *uint     `json:"lastMessageId,omitempty"`
	OtherMember   *userView `json:"otherMember,omitempty"`
}

func newConversationView(c models.Conversation, other *models.User) conversationView {
	return conversationView{
		ID:            c.ID,
		IsGroup:       c.IsGroup,
		Name:          c.Name,
		ImageURL:      c.ImageURL,
		CreatorID:     c.CreatorID,
		LastMessageID: c.LastMessageID,
		OtherMember:   publicUser(other),
	}
}

type previewView struct {
	Sender  string `json:"sender"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type summaryView struct {
	conversationView
	LastMessage   *previewView `json:"lastMessage"`
	LastMessageAt int64        `json:"lastMessageAt"`
	Unseen        bool         `json:"unseen"`
}

func newSummaryView(s services.ConversationSummary) summaryView {
	v := summaryView{
		conversationView: newConversationView(s.Conversation, s.OtherMember),
		LastMessageAt:    s.LastMessageAt,
		Unseen:           s.Unseen,
	}
	if s.LastMessage != nil {
		v.LastMessage = &previewView{
			Sender:  s.LastMessage.Sender,
			Type:    s.LastMessage.Type,
			Content: s.LastMessage.Content,
		}
	}
	return v
}

type memberView struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	ImageURL string `json:"imageUrl"`
}

type messageView struct {
	ID             uint   `json:"id"`
	ConversationID uint   `json:"conversationId"`
	SenderID       uint   `json:"senderId"`
	SenderName     string `json:"senderName,omitempty"`
	SenderImage    string `json:"senderImage,omitempty"`
	Type           string `json:"type"`
	Content        string `json:"content"`
	IsDeleted      bool   `json:"isDeleted"`
	IsCurrentUser  bool   `json:"isCurrentUser"`
	CreatedAt      int64  `json:"createdAt"`
}

func newMessageView(m models.Message) messageView {
	return messageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Type:           m.Type,
		Content:        m.Content,
		IsDeleted:      m.IsDeleted,
		CreatedAt:      m.Timestamp(),
	}
}
