package notify

import (
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/logger"
)

// Event kinds
const (
	KindFriendRequest = "friend_request"
	KindMessage       = "message"
)

// Event is one notification addressed to a set of users.
type Event struct {
	Kind           string
	ConversationID uint
	Recipients     []models.User
	Text           string
}

// Notifier delivers events on a best-effort basis. Notify must not block the
// caller on delivery.
type Notifier interface {
	Notify(ev Event)
}

// LogNotifier only records events.
type LogNotifier struct{}

func (LogNotifier) Notify(ev Event) {
	ids := make([]uint, 0, len(ev.Recipients))
	for _, u := range ev.Recipients {
		ids = append(ids, u.ID)
	}
	logger.Debug("Notification", "kind", ev.Kind, "conversation_id", ev.ConversationID, "recipients", ids)
}

// Multi fans an event out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ev Event) {
	for _, n := range m {
		n.Notify(ev)
	}
}
