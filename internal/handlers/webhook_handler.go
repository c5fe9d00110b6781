package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/mroshb/chat_app/internal/security"
	"github.com/mroshb/chat_app/internal/services"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
)

const maxWebhookBody = 1 << 20

type identityEvent struct {
	Type string       `json:"type"`
	Data identityUser `json:"data"`
}

type identityUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// profile maps the provider's user onto a Profile: the full name wins over
// the username, and the first email address is used.
func (u identityUser) profile() services.Profile {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	if name == "" {
		name = "User"
	}

	p := services.Profile{
		ExternalID: u.ID,
		Username:   name,
		ImageURL:   u.ImageURL,
	}
	if len(u.EmailAddresses) > 0 {
		p.Email = u.EmailAddresses[0].EmailAddress
	}
	return p
}

// HandleIdentityWebhook syncs user profiles pushed by the identity provider.
func (h *HandlerManager) HandleIdentityWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, errors.New(errors.ErrCodeValidation, "invalid webhook body"))
		return
	}

	headers := security.WebhookHeaders{
		ID:        c.GetHeader("svix-id"),
		Timestamp: c.GetHeader("svix-timestamp"),
		Signature: c.GetHeader("svix-signature"),
	}
	if err := security.VerifyWebhook(h.Config.WebhookSecret, headers, body, time.Now()); err != nil {
		logger.Warn("Webhook verification failed", "error", err, "webhook_id", headers.ID)
		respondError(c, errors.New(errors.ErrCodeValidation, "webhook verification failed"))
		return
	}

	var event identityEvent
	if err := binding.JSON.BindBody(body, &event); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeValidation, "invalid webhook payload"))
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		if event.Data.ID == "" {
			respondError(c, errors.New(errors.ErrCodeValidation, "webhook user has no id"))
			return
		}
		user, err := h.UserSvc.SyncProfile(event.Data.profile())
		if err != nil {
			respondError(c, err)
			return
		}
		logger.Info("Profile synced", "event", event.Type, "external_id", event.Data.ID, "user_id", user.ID)
	default:
		logger.Debug("Unhandled webhook event", "event", event.Type)
	}

	c.Status(http.StatusOK)
}
