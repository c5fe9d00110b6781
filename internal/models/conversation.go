package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Conversation struct {
	ID            uint    `gorm:"primaryKey"`
	IsGroup       bool    `gorm:"not null;default:false"`
	Name          string  `gorm:"type:varchar(255)"`
	ImageURL      string  `gorm:"type:varchar(1000)"`
	CreatorID     *uint   `gorm:"index"`
	DirectKey     *string `gorm:"type:varchar(64);uniqueIndex"`
	LastMessageID *uint
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// DirectKeyFor names the single direct conversation allowed between two users.
func DirectKeyFor(a, b uint) string {
	low, high := OrderedPair(a, b)
	return fmt.Sprintf("%d:%d", low, high)
}

// IsCreatedBy is false for direct conversations.
func (c *Conversation) IsCreatedBy(userID uint) bool {
	return c.IsGroup && c.CreatorID != nil && *c.CreatorID == userID
}

// BeforeSave enforces the group/direct shape.
func (c *Conversation) BeforeSave(tx *gorm.DB) error {
	if c.IsGroup {
		if c.CreatorID == nil || c.Name == "" || c.DirectKey != nil {
			return gorm.ErrInvalidData
		}
		return nil
	}
	if c.CreatorID != nil || c.Name != "" {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationMember struct {
	ID                uint      `gorm:"primaryKey"`
	ConversationID    uint      `gorm:"not null;index:idx_conversation_member,unique"`
	MemberID          uint      `gorm:"not null;index:idx_conversation_member,unique;index"`
	LastSeenMessageID *uint
	JoinedAt          time.Time `gorm:"autoCreateTime"`
}

func (ConversationMember) TableName() string {
	return "conversation_members"
}
