package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/internal/middleware"
)

type createMessageReq struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (h *HandlerManager) ListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	msgs, err := h.MessageSvc.List(middleware.ExternalID(c), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		v := newMessageView(m.Message)
		v.SenderName = m.SenderName
		v.SenderImage = m.SenderImage
		v.IsCurrentUser = m.IsCurrentUser
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *HandlerManager) CreateMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createMessageReq
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.MessageSvc.Create(middleware.ExternalID(c), id, req.Type, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	v := newMessageView(*msg)
	v.IsCurrentUser = true
	c.JSON(http.StatusCreated, gin.H{"data": v})
}

func (h *HandlerManager) DeleteMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.MessageSvc.Delete(middleware.ExternalID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
