package services

import (
	"sort"

	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
)

// ConversationDetails is a conversation as seen by one of its members.
type ConversationDetails struct {
	Conversation models.Conversation
	OtherMember  *models.User
	// OtherLastSeenMessageID is the other member's read marker in a direct conversation
	OtherLastSeenMessageID *uint
	MemberCount            int
}

// MessagePreview summarizes the newest message of a conversation.
type MessagePreview struct {
	Sender  string
	Type    string
	Content string
}

// ConversationSummary is one row of the caller's conversation list.
type ConversationSummary struct {
	Conversation  models.Conversation
	OtherMember   *models.User
	LastMessage   *MessagePreview
	LastMessageAt int64
	Unseen        bool
}

// MemberView is one roster entry.
type MemberView struct {
	UserID   uint
	Username string
	ImageURL string
}

type ConversationService struct {
	store *Store
}

func NewConversationService(store *Store) *ConversationService {
	return &ConversationService{store: store}
}

// Get returns a conversation the caller belongs to. Direct conversations carry
// the other member.
func (s *ConversationService) Get(externalID string, convID uint) (*ConversationDetails, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}

	conv, err := s.store.Conversations.GetConversationByID(convID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.membership(conv.ID, caller.ID); err != nil {
		return nil, err
	}

	count, err := s.store.Conversations.GetMemberCount(conv.ID)
	if err != nil {
		return nil, err
	}

	details := &ConversationDetails{
		Conversation: *conv,
		MemberCount:  count,
	}
	if conv.IsGroup {
		return details, nil
	}

	members, err := s.store.Conversations.GetMembers(conv.ID)
	if err != nil {
		return nil, err
	}
	var otherRow *models.ConversationMember
	for i := range members {
		if members[i].MemberID != caller.ID {
			otherRow = &members[i]
			break
		}
	}
	if otherRow == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "could not find the other member of this conversation")
	}
	other, err := s.store.Users.GetUserByID(otherRow.MemberID)
	if err != nil {
		return nil, err
	}
	details.OtherMember = other
	details.OtherLastSeenMessageID = otherRow.LastSeenMessageID
	return details, nil
}

// ListForUser returns the caller's conversations, most recent activity first.
// Rows whose related records are missing are skipped.
func (s *ConversationService) ListForUser(externalID string) ([]ConversationSummary, error) {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.store.Conversations.GetMembershipsForUser(caller.ID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []ConversationSummary{}, nil
	}

	convIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		convIDs = append(convIDs, m.ConversationID)
	}
	convs, err := s.store.Conversations.GetConversationsByIDs(convIDs)
	if err != nil {
		return nil, err
	}

	var msgIDs []uint
	for _, c := range convs {
		if c.LastMessageID != nil {
			msgIDs = append(msgIDs, *c.LastMessageID)
		}
	}
	msgs, err := s.store.Messages.GetMessagesByIDs(msgIDs)
	if err != nil {
		return nil, err
	}

	// Direct conversations need the other member; senders need names
	others := make(map[uint]uint)
	userIDs := make([]uint, 0, len(convs)+len(msgs))
	for _, c := range convs {
		if c.IsGroup {
			continue
		}
		members, err := s.store.Conversations.GetMembers(c.ID)
		if err != nil {
			return nil, err
		}
		if id := otherMember(members, caller.ID); id != 0 {
			others[c.ID] = id
			userIDs = append(userIDs, id)
		}
	}
	for _, m := range msgs {
		userIDs = append(userIDs, m.SenderID)
	}
	users, err := s.store.Users.GetUsersByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(memberships))
	for _, membership := range memberships {
		conv, ok := convs[membership.ConversationID]
		if !ok {
			logger.Warn("Skipping missing conversation", "conversation_id", membership.ConversationID, "user_id", caller.ID)
			continue
		}

		summary := ConversationSummary{Conversation: conv}

		if !conv.IsGroup {
			other, ok := users[others[conv.ID]]
			if !ok {
				logger.Warn("Skipping direct conversation without other member", "conversation_id", conv.ID, "user_id", caller.ID)
				continue
			}
			summary.OtherMember = &other
		}

		if conv.LastMessageID != nil {
			if msg, ok := msgs[*conv.LastMessageID]; ok {
				summary.LastMessageAt = msg.Timestamp()
				if sender, ok := users[msg.SenderID]; ok {
					summary.LastMessage = &MessagePreview{
						Sender:  sender.DisplayName(),
						Type:    msg.Type,
						Content: msg.Preview(),
					}
				}
				summary.Unseen = msg.SenderID != caller.ID &&
					(membership.LastSeenMessageID == nil || *membership.LastSeenMessageID < msg.ID)
			}
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.LastMessageAt != b.LastMessageAt {
			return a.LastMessageAt > b.LastMessageAt
		}
		return lastMessageID(a.Conversation) > lastMessageID(b.Conversation)
	})

	return summaries, nil
}

// GetMembers returns a conversation's roster in join order. Users whose row is
// missing are left out.
func (s *ConversationService) GetMembers(externalID string, convID uint) ([]MemberView, error) {
	if _, err := s.store.caller(externalID); err != nil {
		return nil, err
	}

	members, err := s.store.Conversations.GetMembers(convID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.MemberID)
	}
	users, err := s.store.Users.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		u, ok := users[m.MemberID]
		if !ok {
			continue
		}
		views = append(views, MemberView{
			UserID:   u.ID,
			Username: u.DisplayName(),
			ImageURL: u.ImageURL,
		})
	}
	return views, nil
}

// MarkRead moves the caller's read marker to the newest message.
func (s *ConversationService) MarkRead(externalID string, convID uint) error {
	caller, err := s.store.caller(externalID)
	if err != nil {
		return err
	}
	if _, err := s.store.membership(convID, caller.ID); err != nil {
		return err
	}

	latest, err := s.store.Messages.GetLatestMessage(convID)
	if err != nil {
		return err
	}
	if latest == nil {
		return nil
	}
	return s.store.Conversations.UpdateLastSeen(convID, caller.ID, latest.ID)
}

func otherMember(members []models.ConversationMember, userID uint) uint {
	for _, m := range members {
		if m.MemberID != userID {
			return m.MemberID
		}
	}
	return 0
}

func lastMessageID(c models.Conversation) uint {
	if c.LastMessageID == nil {
		return 0
	}
	return *c.LastMessageID
}
