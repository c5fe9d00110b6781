package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Message type constants
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeDocument = "document"
)

// Preview placeholders shown in conversation lists.
const (
	PreviewNonText = "[Non-text]"
	PreviewDeleted = "[Deleted]"
)

type Message struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uint      `gorm:"not null;index"`
	SenderID       uint      `gorm:"not null;index"`
	Type           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	IsDeleted      bool      `gorm:"default:false;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// DocumentContent is the JSON payload of a document message.
type DocumentContent struct {
	StorageID string `json:"storageId"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
}

// ParseDocumentContent decodes and checks a document message payload.
func ParseDocumentContent(raw string) (*DocumentContent, error) {
	var doc DocumentContent
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.StorageID) == "" || strings.TrimSpace(doc.FileName) == "" || strings.TrimSpace(doc.FileType) == "" {
		return nil, gorm.ErrInvalidData
	}
	return &doc, nil
}

func IsValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeDocument:
		return true
	}
	return false
}

// Preview is the list-view summary: text verbatim, a placeholder otherwise.
func (m *Message) Preview() string {
	if m.IsDeleted {
		return PreviewDeleted
	}
	if m.Type == MessageTypeText {
		return m.Content
	}
	return PreviewNonText
}

// Timestamp is the creation time in milliseconds, used to order conversations.
func (m *Message) Timestamp() int64 {
	return m.CreatedAt.UnixMilli()
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if !IsValidMessageType(m.Type) {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Message) TableName() string {
	return "messages"
}
