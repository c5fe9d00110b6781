package services

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/security"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
)

const maxGroupNameLength = 100

// CreateGroupInput describes a new group. The creator is always a member and
// need not be listed.
type CreateGroupInput struct {
	Name      string
	MemberIDs []uint
	ImageURL  string
}

// LeaveResult reports what leaving did to the group.
type LeaveResult struct {
	Deleted      bool
	NewCreatorID uint
}

type GroupService struct {
	store *Store
}

func NewGroupService(store *Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group owned by the caller with the listed members.
func (s *GroupService) CreateGroup(externalID string, in CreateGroupInput) (*models.Conversation, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}

	name := security.SanitizeText(in.Name, maxGroupNameLength)
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "group name can't be empty")
	}

	memberIDs := uniqueIDs(in.MemberIDs, caller.ID)
	if err := s.requireUsers(memberIDs); err != nil {
		return nil, err
	}

	creatorID := caller.ID
	conv := &models.Conversation{
		IsGroup:   true,
		Name:      name,
		ImageURL:  security.SanitizeString(in.ImageURL, maxURLLength),
		CreatorID: &creatorID,
	}

	err = s.store.Transaction(func(tx *Store) error {
		if err := tx.Conversations.CreateConversation(conv); err != nil {
			return err
		}
		for _, id := range append([]uint{caller.ID}, memberIDs...) {
			if _, err := tx.Conversations.AddMember(conv.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Group created", "conversation_id", conv.ID, "creator_id", caller.ID, "members", len(memberIDs)+1)
	return conv, nil
}

// IsCreator never fails: any lookup problem answers false.
func (s *GroupService) IsCreator(externalID string, convID uint) bool {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return false
	}
	conv, err := s.store.Conversations.GetConversationByID(convID)
	if err != nil {
		return false
	}
	return conv.IsCreatedBy(caller.ID)
}

func (s *GroupService) UpdateName(externalID string, convID uint, name string) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}

	name = security.SanitizeText(name, maxGroupNameLength)
	if name == "" {
		return errors.New(errors.ErrCodeValidation, "group name can't be empty")
	}

	if _, err := s.store.group(convID, caller.ID, "rename the group"); err != nil {
		return err
	}
	return s.store.Conversations.UpdateName(convID, name)
}

func (s *GroupService) UpdateImage(externalID string, convID uint, imageURL string) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}

	imageURL = security.SanitizeString(imageURL, maxURLLength)
	if imageURL == "" {
		return errors.New(errors.ErrCodeValidation, "group image can't be empty")
	}

	if _, err := s.store.group(convID, caller.ID, "change the group image"); err != nil {
		return err
	}
	return s.store.Conversations.UpdateImage(convID, imageURL)
}

// AddMembers adds the listed users and returns how many were not members yet.
func (s *GroupService) AddMembers(externalID string, convID uint, memberIDs []uint) (int, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return 0, err
	}

	memberIDs = uniqueIDs(memberIDs, 0)
	if len(memberIDs) == 0 {
		return 0, errors.New(errors.ErrCodeValidation, "no members to add")
	}
	if err := s.requireUsers(memberIDs); err != nil {
		return 0, err
	}

	added := 0
	err = s.store.Transaction(func(tx *Store) error {
		if _, err := tx.group(convID, caller.ID, "add members"); err != nil {
			return err
		}
		for _, id := range memberIDs {
			ok, err := tx.Conversations.AddMember(convID, id)
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return added, nil
}

// RemoveMember removes a member other than the creator.
func (s *GroupService) RemoveMember(externalID string, convID, memberID uint) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}

	err = s.store.Transaction(func(tx *Store) error {
		conv, err := tx.group(convID, caller.ID, "remove members")
		if err != nil {
			return err
		}
		if conv.IsCreatedBy(memberID) {
			return errors.New(errors.ErrCodeInvariantViolation, "the group creator can't be removed")
		}
		return tx.Conversations.RemoveMember(convID, memberID)
	})
	if err != nil {
		return err
	}

	logger.Info("Group member removed", "conversation_id", convID, "member_id", memberID, "by", caller.ID)
	return nil
}

// Leave removes the caller from a group. A leaving creator hands ownership to
// the earliest remaining member; the last member leaving deletes the group.
func (s *GroupService) Leave(externalID string, convID uint) (*LeaveResult, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}

	result := &LeaveResult{}
	err = s.store.Transaction(func(tx *Store) error {
		conv, err := tx.Conversations.GetConversationByID(convID)
		if err != nil {
			return err
		}
		if !conv.IsGroup {
			return errors.New(errors.ErrCodeInvariantViolation, "this isn't a group conversation")
		}
		if _, err := tx.membership(convID, caller.ID); err != nil {
			return err
		}

		members, err := tx.Conversations.GetMembers(convID)
		if err != nil {
			return err
		}
		remaining := otherMember(members, caller.ID)

		if remaining == 0 {
			result.Deleted = true
			return tx.Conversations.DeleteConversation(convID)
		}

		if conv.IsCreatedBy(caller.ID) {
			if err := tx.Conversations.UpdateCreator(convID, remaining); err != nil {
				return err
			}
			result.NewCreatorID = remaining
		}
		return tx.Conversations.RemoveMember(convID, caller.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Group left", "conversation_id", convID, "user_id", caller.ID,
		"deleted", result.Deleted, "new_creator_id", result.NewCreatorID)
	return result, nil
}

// Delete removes a group with its members and messages.
func (s *GroupService) Delete(externalID string, convID uint) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}

	err = s.store.Transaction(func(tx *Store) error {
		if _, err := tx.group(convID, caller.ID, "delete the group"); err != nil {
			return err
		}
		return tx.Conversations.DeleteConversation(convID)
	})
	if err != nil {
		return err
	}

	logger.Info("Group deleted", "conversation_id", convID, "by", caller.ID)
	return nil
}

func (s *GroupService) requireUsers(ids []uint) error {
	users, err := s.store.Users.GetUsersByIDs(ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return errors.Newf(errors.ErrCodeNotFound, "user %d not found", id)
		}
	}
	return nil
}

// uniqueIDs drops zero, duplicate and excluded ids, keeping the first-seen order.
func uniqueIDs(ids []uint, exclude uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

