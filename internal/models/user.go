package models

import (
	"strings"
	"time"

	"github.com/mroshb/chat_app/pkg/utils"
	"gorm.io/gorm"
)

type User struct {
	ID             uint      `gorm:"primaryKey"`
	ExternalID     string    `gorm:"type:varchar(191);uniqueIndex;not null"`
	Username       string    `gorm:"type:varchar(255);not null"`
	UsernameLower  string    `gorm:"type:varchar(255);index"`
	Email          string    `gorm:"type:varchar(320);index"`
	ImageURL       string    `gorm:"type:varchar(1000)"`
	Verified       bool      `gorm:"default:false;not null"`
	Premium        bool      `gorm:"default:false;not null"`
	TelegramChatID int64     `gorm:"default:0;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// DisplayName renders the stored badge-free username with its badges appended,
// verified before premium.
func (u *User) DisplayName() string {
	name := u.Username
	if u.Verified {
		name += utils.BadgeVerified
	}
	if u.Premium {
		name += utils.BadgePremium
	}
	return name
}

// BeforeSave keeps the lookup column in sync and rejects rows without an identity.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(u.ExternalID) == "" {
		return gorm.ErrInvalidData
	}
	if strings.TrimSpace(u.Username) == "" {
		return gorm.ErrInvalidData
	}
	u.UsernameLower = utils.CleanName(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
