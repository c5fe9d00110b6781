package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/internal/middleware"
	"github.com/mroshb/chat_app/internal/services"
)

type updateMeReq struct {
	Username       *string `json:"username"`
	ImageURL       *string `json:"imageUrl"`
	TelegramChatID *int64  `json:"telegramChatId"`
}

// GetMe returns the caller's profile.
func (h *HandlerManager) GetMe(c *gin.Context) {
	user, err := h.UserSvc.Resolve(middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": selfUser(user)})
}

// UpdateMe changes the caller's own profile. Email follows the identity
// provider and is not editable here.
func (h *HandlerManager) UpdateMe(c *gin.Context) {
	var req updateMeReq
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.UserSvc.UpdateSelf(middleware.ExternalID(c), services.ProfileUpdate{
		Username:       req.Username,
		ImageURL:       req.ImageURL,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": selfUser(user)})
}
