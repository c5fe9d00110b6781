package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/chat_app/pkg/logger"
)

const queueSize = 256

// Sender is the part of the Telegram bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type delivery struct {
	chatID int64
	text   string
}

// TelegramNotifier forwards events to recipients that linked a Telegram chat.
// Deliveries are spread over a fixed set of workers; when the queue is full
// the delivery is dropped.
type TelegramNotifier struct {
	sender  Sender
	queue   chan delivery
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	retries int
}

func NewTelegramNotifier(token string, workers int, debug bool) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = debug

	logger.Info("Telegram notifier authorized", "username", api.Self.UserName)
	return NewTelegramNotifierWithSender(api, workers), nil
}

func NewTelegramNotifierWithSender(sender Sender, workers int) *TelegramNotifier {
	if workers <= 0 {
		workers = 1
	}

	n := &TelegramNotifier{
		sender:  sender,
		queue:   make(chan delivery, queueSize),
		retries: 3,
	}

	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go n.startWorker()
	}

	return n
}

func (n *TelegramNotifier) Notify(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.stopped {
		logger.Debug("Notifier stopped, dropping event", "kind", ev.Kind, "conversation_id", ev.ConversationID)
		return
	}

	for _, u := range ev.Recipients {
		if u.TelegramChatID == 0 {
			continue
		}
		select {
		case n.queue <- delivery{chatID: u.TelegramChatID, text: ev.Text}:
		default:
			logger.Warn("Notification queue full, dropping delivery", "kind", ev.Kind, "user_id", u.ID)
		}
	}
}

// Stop drains the queue and waits for the workers to exit.
func (n *TelegramNotifier) Stop() {
	n.mu.Lock()
	if !n.stopped {
		n.stopped = true
		close(n.queue)
	}
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *TelegramNotifier) startWorker() {
	defer n.wg.Done()
	for d := range n.queue {
		n.send(d)
	}
}

func (n *TelegramNotifier) send(d delivery) {
	msg := tgbotapi.NewMessage(d.chatID, d.text)

	for i := 0; i < n.retries; i++ {
		_, err := n.sender.Send(msg)
		if err == nil {
			return
		}
		logger.Error("Failed to send notification", "error", err, "chat_id", d.chatID, "attempt", i+1)

		// Only network errors are worth another attempt
		if !strings.Contains(err.Error(), "connection reset") &&
			!strings.Contains(err.Error(), "timeout") &&
			!strings.Contains(err.Error(), "network is unreachable") {
			return
		}
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
}
