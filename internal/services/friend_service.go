package services

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
)

type FriendService struct {
	store *Store
}

func NewFriendService(store *Store) *FriendService {
	return &FriendService{store: store}
}

// GetFriends lists the caller's friends.
func (s *FriendService) GetFriends(externalID string) ([]models.User, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}
	return s.store.Friends.GetFriends(caller.ID)
}

// Remove ends the friendship behind a direct conversation and deletes the
// conversation with its members and messages.
func (s *FriendService) Remove(externalID string, convID uint) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}

	var otherID uint
	err = s.store.Transaction(func(tx *Store) error {
		conv, err := tx.Conversations.GetConversationByID(convID)
		if err != nil {
			return err
		}
		if conv.IsGroup {
			return errors.New(errors.ErrCodeInvariantViolation, "this isn't a direct conversation")
		}

		members, err := tx.Conversations.GetMembers(conv.ID)
		if err != nil {
			return err
		}

		isMember := false
		for _, m := range members {
			if m.MemberID == caller.ID {
				isMember = true
			} else {
				otherID = m.MemberID
			}
		}
		if !isMember {
			return errors.New(errors.ErrCodeForbidden, "you aren't a member of this conversation")
		}
		if otherID == 0 {
			return errors.New(errors.ErrCodeNotFound, "could not find the other member of this conversation")
		}

		if err := tx.Friends.RemoveFriendship(caller.ID, otherID); err != nil {
			return err
		}

		if err := tx.Conversations.DeleteConversation(conv.ID); err != nil {
			return err
		}

		// A legacy row without a direct key may differ from the keyed one
		keyed, err := tx.Conversations.GetDirectConversation(caller.ID, otherID)
		if err != nil {
			return err
		}
		if keyed != nil && keyed.ID != conv.ID {
			return tx.Conversations.DeleteConversation(keyed.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Friend removed", "user_id", caller.ID, "friend_id", otherID, "conversation_id", convID)
	return nil
}
