package services

import (
	"strings"

	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/repositories"
	"github.com/mroshb/chat_app/pkg/errors"
	"gorm.io/gorm"
)

// Store groups the repositories over one database handle. Inside a
// transaction every repository of the Store is bound to the same tx.
type Store struct {
	db *gorm.DB

	Users         *repositories.UserRepository
	Friends       *repositories.FriendRepository
	Requests      *repositories.RequestRepository
	Conversations *repositories.ConversationRepository
	Messages      *repositories.MessageRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         repositories.NewUserRepository(db),
		Friends:       repositories.NewFriendRepository(db),
		Requests:      repositories.NewRequestRepository(db),
		Conversations: repositories.NewConversationRepository(db),
		Messages:      repositories.NewMessageRepository(db),
	}
}

func (s *Store) withTx(tx *gorm.DB) *Store {
	return &Store{
		db:            tx,
		Users:         s.Users.WithTx(tx),
		Friends:       s.Friends.WithTx(tx),
		Requests:      s.Requests.WithTx(tx),
		Conversations: s.Conversations.WithTx(tx),
		Messages:      s.Messages.WithTx(tx),
	}
}

// Transaction runs fn as one all-or-nothing unit. fn must only use the Store
// it is handed.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(s.withTx(tx))
	})
}

// caller resolves the authenticated identity to its user row.
func (s *Store) caller(externalID string) (*models.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, errors.New(errors.ErrCodeUnauthenticated, "Unauthorized")
	}

	user, err := s.Users.GetUserByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// membership returns the caller's membership or a forbidden error.
func (s *Store) membership(convID, userID uint) (*models.ConversationMember, error) {
	member, err := s.Conversations.GetMember(convID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, errors.New(errors.ErrCodeForbidden, "you aren't a member of this conversation")
	}
	return member, nil
}

// group loads a group conversation and checks that userID created it.
func (s *Store) group(convID, userID uint, action string) (*models.Conversation, error) {
	conv, err := s.Conversations.GetConversationByID(convID)
	if err != nil {
		return nil, err
	}
	if !conv.IsGroup {
		return nil, errors.New(errors.ErrCodeInvariantViolation, "this isn't a group conversation")
	}
	if !conv.IsCreatedBy(userID) {
		return nil, errors.Newf(errors.ErrCodeForbidden, "only the group creator can %s", action)
	}
	return conv, nil
}
