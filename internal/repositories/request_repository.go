package repositories

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/errors"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) WithTx(tx *gorm.DB) *RequestRepository {
	return &RequestRepository{db: tx}
}

// CreateRequest inserts a pending request
func (r *RequestRepository) CreateRequest(senderID, receiverID uint) (*models.FriendRequest, error) {
	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.RequestStatusPending,
	}

	if err := r.db.Create(request).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request")
	}

	return request, nil
}

// GetRequestByID retrieves a request by ID
func (r *RequestRepository) GetRequestByID(id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	result := r.db.First(&request, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "request not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get request")
	}

	return &request, nil
}

// FindPending returns the pending request from senderID to receiverID, or nil
func (r *RequestRepository) FindPending(senderID, receiverID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	result := r.db.Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, models.RequestStatusPending).
		First(&request)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check existing request")
	}

	return &request, nil
}

// GetPendingForReceiver retrieves pending requests addressed to userID, oldest first
func (r *RequestRepository) GetPendingForReceiver(userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest

	err := r.db.Where("receiver_id = ? AND status = ?", userID, models.RequestStatusPending).
		Preload("Sender").
		Order("id ASC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get pending requests")
	}

	return requests, nil
}

// CountPendingForReceiver counts pending requests addressed to userID
func (r *RequestRepository) CountPendingForReceiver(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.FriendRequest{}).
		Where("receiver_id = ? AND status = ?", userID, models.RequestStatusPending).
		Count(&count).Error

	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count pending requests")
	}

	return count, nil
}

// DeleteRequest removes a request row
func (r *RequestRepository) DeleteRequest(id uint) error {
	result := r.db.Delete(&models.FriendRequest{}, id)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete request")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "request not found")
	}

	return nil
}
