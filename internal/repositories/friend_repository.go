package repositories

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/errors"
	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) WithTx(tx *gorm.DB) *FriendRepository {
	return &FriendRepository{db: tx}
}

// CreateFriendship stores the canonical row for the pair. Creating an existing
// friendship is a no-op.
func (r *FriendRepository) CreateFriendship(user1ID, user2ID uint) error {
	friends, err := r.AreFriends(user1ID, user2ID)
	if err != nil {
		return err
	}
	if friends {
		return nil
	}

	if err := r.db.Create(models.NewFriendship(user1ID, user2ID)).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friendship")
	}
	return nil
}

// AreFriends checks if two users are friends, in either order
func (r *FriendRepository) AreFriends(user1ID, user2ID uint) (bool, error) {
	low, high := models.OrderedPair(user1ID, user2ID)

	var count int64
	result := r.db.Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ? AND status = ?", low, high, models.FriendshipStatusAccepted).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check friendship")
	}

	return count > 0, nil
}

// GetFriends retrieves the distinct users on the other side of userID's friendships
func (r *FriendRepository) GetFriends(userID uint) ([]models.User, error) {
	var friends []models.User

	err := r.db.Table("users").
		Select("DISTINCT users.*").
		Joins("JOIN friendships ON (friendships.user_low_id = users.id OR friendships.user_high_id = users.id)").
		Where("(friendships.user_low_id = ? OR friendships.user_high_id = ?) AND friendships.status = ? AND users.id != ?",
			userID, userID, models.FriendshipStatusAccepted, userID).
		Order("users.id ASC").
		Find(&friends).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	return friends, nil
}

// RemoveFriendship deletes the pair's row. Removing a missing friendship is not an error.
func (r *FriendRepository) RemoveFriendship(user1ID, user2ID uint) error {
	low, high := models.OrderedPair(user1ID, user2ID)

	result := r.db.Where("user_low_id = ? AND user_high_id = ?", low, high).
		Delete(&models.Friendship{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove friend")
	}

	return nil
}
