package services

import (
	"fmt"
	"strings"

	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/notify"
	"github.com/mroshb/chat_app/internal/security"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
	"github.com/mroshb/chat_app/pkg/utils"
)

const acceptFailure = "there was an error accepting this request"

// RequestInput names the receiver by email or by username.
type RequestInput struct {
	Email    string
	Username string
}

type RequestService struct {
	store    *Store
	notifier notify.Notifier
}

func NewRequestService(store *Store, notifier notify.Notifier) *RequestService {
	return &RequestService{
		store:    store,
		notifier: notifier,
	}
}

// Create sends a friend request from the caller. Checks run in a fixed order:
// empty input, receiver lookup, pending request either way, existing friendship.
func (s *RequestService) Create(externalID string, in RequestInput) (*models.FriendRequest, error) {
	sender, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" && username == "" {
		return nil, errors.New(errors.ErrCodeValidation, "email or username is required")
	}

	var receiver *models.User
	if email != "" {
		if strings.EqualFold(email, sender.Email) {
			return nil, errors.New(errors.ErrCodeValidation, "can't send a request to yourself")
		}
		receiver, err = s.store.Users.GetUserByEmail(email)
	} else {
		clean, _, _ := utils.StripBadges(username)
		if !security.ValidateUsername(clean) {
			return nil, errors.New(errors.ErrCodeValidation, "username can only contain letters, numbers, dots, dashes and underscores")
		}
		if utils.CleanName(clean) == sender.UsernameLower {
			return nil, errors.New(errors.ErrCodeValidation, "can't send a request to yourself")
		}
		receiver, err = s.store.Users.GetUserByUsername(clean)
	}
	if err != nil {
		return nil, err
	}
	if receiver.ID == sender.ID {
		return nil, errors.New(errors.ErrCodeValidation, "can't send a request to yourself")
	}

	var request *models.FriendRequest
	err = s.store.Transaction(func(tx *Store) error {
		sent, err := tx.Requests.FindPending(sender.ID, receiver.ID)
		if err != nil {
			return err
		}
		if sent != nil {
			return errors.New(errors.ErrCodeAlreadyExists, "request already sent")
		}

		received, err := tx.Requests.FindPending(receiver.ID, sender.ID)
		if err != nil {
			return err
		}
		if received != nil {
			return errors.New(errors.ErrCodeInvariantViolation, "this user has already sent you a request")
		}

		friends, err := tx.Friends.AreFriends(sender.ID, receiver.ID)
		if err != nil {
			return err
		}
		if friends {
			return errors.New(errors.ErrCodeInvariantViolation, "you are already friends with this user")
		}

		request, err = tx.Requests.CreateRequest(sender.ID, receiver.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Event{
		Kind:       notify.KindFriendRequest,
		Recipients: []models.User{*receiver},
		Text:       fmt.Sprintf("%s sent you a friend request", sender.DisplayName()),
	})

	return request, nil
}

// Accept turns a pending request into a friendship with a direct
// conversation, all in one transaction. It returns the conversation id.
func (s *RequestService) Accept(externalID string, requestID uint) (uint, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return 0, err
	}

	var convID uint
	err = s.store.Transaction(func(tx *Store) error {
		request, err := tx.Requests.GetRequestByID(requestID)
		if err != nil {
			return errors.Wrap(err, errors.CodeOf(err), acceptFailure)
		}
		if request.ReceiverID != caller.ID {
			return errors.New(errors.ErrCodeForbidden, acceptFailure)
		}

		if err := tx.Friends.CreateFriendship(request.SenderID, request.ReceiverID); err != nil {
			return err
		}

		conv, err := tx.Conversations.GetDirectConversation(request.SenderID, request.ReceiverID)
		if err != nil {
			return err
		}
		if conv == nil {
			key := models.DirectKeyFor(request.SenderID, request.ReceiverID)
			conv = &models.Conversation{IsGroup: false, DirectKey: &key}
			if err := tx.Conversations.CreateConversation(conv); err != nil {
				return err
			}
		}

		for _, userID := range []uint{request.SenderID, request.ReceiverID} {
			if _, err := tx.Conversations.AddMember(conv.ID, userID); err != nil {
				return err
			}
		}

		convID = conv.ID
		return tx.Requests.DeleteRequest(request.ID)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Friend request accepted", "request_id", requestID, "user_id", caller.ID, "conversation_id", convID)
	return convID, nil
}

// Deny discards a request addressed to the caller.
func (s *RequestService) Deny(externalID string, requestID uint) error {
	return s.discard(externalID, requestID, func(r *models.FriendRequest) uint { return r.ReceiverID })
}

// Cancel withdraws a request the caller sent.
func (s *RequestService) Cancel(externalID string, requestID uint) error {
	return s.discard(externalID, requestID, func(r *models.FriendRequest) uint { return r.SenderID })
}

func (s *RequestService) discard(externalID string, requestID uint, owner func(*models.FriendRequest) uint) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}

	return s.store.Transaction(func(tx *Store) error {
		request, err := tx.Requests.GetRequestByID(requestID)
		if err != nil {
			return err
		}
		if owner(request) != caller.ID {
			return errors.New(errors.ErrCodeForbidden, "you can't modify this request")
		}
		return tx.Requests.DeleteRequest(request.ID)
	})
}

// Incoming lists pending requests addressed to the caller with their senders.
func (s *RequestService) Incoming(externalID string) ([]models.FriendRequest, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}
	return s.store.Requests.GetPendingForReceiver(caller.ID)
}

// Count returns how many requests await the caller.
func (s *RequestService) Count(externalID string) (int64, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return 0, err
	}
	return s.store.Requests.CountPendingForReceiver(caller.ID)
}
