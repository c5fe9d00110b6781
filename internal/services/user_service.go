package services

import (
	"strings"

	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/security"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
	"github.com/mroshb/chat_app/pkg/utils"
)

const (
	maxUsernameLength = 64
	maxURLLength      = 1000
	defaultUsername   = "User"
)

// Profile is an identity as reported by the identity provider.
type Profile struct {
	ExternalID string
	Username   string
	ImageURL   string
	Email      string
}

// ProfileUpdate carries the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Username       *string
	ImageURL       *string
	Email          *string
	TelegramChatID *int64
}

type UserService struct {
	store *Store
}

func NewUserService(store *Store) *UserService {
	return &UserService{store: store}
}

// Resolve returns the user behind an external identity.
func (s *UserService) Resolve(externalID string) (*models.User, error) {
	return s.store.caller(externalID)
}

// CreateIfAbsent inserts a user for p.ExternalID unless one exists. An existing
// row is returned unchanged with created=false.
func (s *UserService) CreateIfAbsent(p Profile) (user *models.User, created bool, err error) {
	if strings.TrimSpace(p.ExternalID) == "" {
		return nil, false, errors.New(errors.ErrCodeUnauthenticated, "Unauthorized")
	}

	existing, err := s.store.Users.GetUserByExternalID(p.ExternalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, false, err
	}

	name, verified, premium := utils.StripBadges(p.Username)
	name = security.SanitizeText(name, maxUsernameLength)
	if name == "" {
		name = defaultUsername
	}

	user = &models.User{
		ExternalID: p.ExternalID,
		Username:   name,
		Email:      p.Email,
		ImageURL:   security.SanitizeString(p.ImageURL, maxURLLength),
		Verified:   verified,
		Premium:    premium,
	}
	if err := s.store.Users.CreateUser(user); err != nil {
		return nil, false, err
	}

	logger.Info("User created", "user_id", user.ID, "external_id", user.ExternalID)
	return user, true, nil
}

// UpdateProfile applies the provided fields. A new username loses any badge
// glyphs it carries and gets its first letter capitalized; the user's badges
// are kept as they are.
func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.store.Users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := applyProfileUpdate(user, upd); err != nil {
		return nil, err
	}

	if err := s.store.Users.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateSelf is UpdateProfile for the authenticated caller.
func (s *UserService) UpdateSelf(externalID string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.store.caller(externalID)
	if err != nil {
		return nil, err
	}
	return s.UpdateProfile(user.ID, upd)
}

// SyncProfile handles an identity provider event: existing users get their
// profile updated, unknown ones are created. Replaying an event is harmless.
func (s *UserService) SyncProfile(p Profile) (*models.User, error) {
	existing, err := s.store.Users.GetUserByExternalID(p.ExternalID)
	if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}
	if existing == nil {
		user, _, err := s.CreateIfAbsent(p)
		return user, err
	}

	upd := ProfileUpdate{ImageURL: &p.ImageURL}
	if strings.TrimSpace(p.Username) != "" {
		upd.Username = &p.Username
	}
	if strings.TrimSpace(p.Email) != "" {
		upd.Email = &p.Email
	}
	return s.UpdateProfile(existing.ID, upd)
}

func applyProfileUpdate(user *models.User, upd ProfileUpdate) error {
	if upd.Username != nil {
		name, _, _ := utils.StripBadges(*upd.Username)
		name = security.SanitizeText(name, maxUsernameLength)
		if name == "" {
			return errors.New(errors.ErrCodeValidation, "username can't be empty")
		}
		user.Username = utils.Capitalize(name)
	}
	if upd.ImageURL != nil {
		user.ImageURL = security.SanitizeString(*upd.ImageURL, maxURLLength)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email != "" && !utils.LooksLikeEmail(email) {
			return errors.New(errors.ErrCodeValidation, "invalid email address")
		}
		user.Email = email
	}
	if upd.TelegramChatID != nil {
		if *upd.TelegramChatID < 0 {
			return errors.New(errors.ErrCodeValidation, "invalid telegram chat id")
		}
		user.TelegramChatID = *upd.TelegramChatID
	}
	return nil
}
