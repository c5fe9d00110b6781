package models

import (
	"time"
)

// Friendship is stored once per unordered pair, with UserLowID < UserHighID.
type Friendship struct {
	ID         uint      `gorm:"primaryKey"`
	UserLowID  uint      `gorm:"not null;index:idx_friendship_pair,unique"`
	UserHighID uint      `gorm:"not null;index:idx_friendship_pair,unique;index"`
	Status     string    `gorm:"type:varchar(20);default:'accepted'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Friendship status constants
const (
	FriendshipStatusAccepted = "accepted"
)

// OrderedPair returns the two ids lowest first.
func OrderedPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func NewFriendship(a, b uint) *Friendship {
	low, high := OrderedPair(a, b)
	return &Friendship{
		UserLowID:  low,
		UserHighID: high,
		Status:     FriendshipStatusAccepted,
	}
}


func (Friendship) TableName() string {
	return "friendships"
}

type FriendRequest struct {
	ID         uint      `gorm:"primaryKey"`
	SenderID   uint      `gorm:"not null;index:idx_request_pair,unique"`
	Sender     User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	ReceiverID uint      `gorm:"not null;index:idx_request_pair,unique;index:idx_request_receiver_status"`
	Status     string    `gorm:"type:varchar(20);default:'pending';index:idx_request_receiver_status"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Request status constants. Accepted and denied requests are deleted, so only
// pending rows are ever stored.
const (
	RequestStatusPending = "pending"
)

func (FriendRequest) TableName() string {
	return "friend_requests"
}
