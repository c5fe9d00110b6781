package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/internal/middleware"
	"github.com/mroshb/chat_app/internal/services"
)

type createRequestReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (h *HandlerManager) ListRequests(c *gin.Context) {
	requests, err := h.RequestSvc.Incoming(middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]requestView, 0, len(requests))
	for i := range requests {
		r := &requests[i]
		views = append(views, requestView{
			ID:        r.ID,
			Sender:    publicUser(&r.Sender),
			CreatedAt: r.CreatedAt.UnixMilli(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *HandlerManager) CountRequests(c *gin.Context) {
	count, err := h.RequestSvc.Count(middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *HandlerManager) CreateRequest(c *gin.Context) {
	var req createRequestReq
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.RequestSvc.Create(middleware.ExternalID(c), services.RequestInput{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": request.ID})
}

func (h *HandlerManager) AcceptRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	convID, err := h.RequestSvc.Accept(middleware.ExternalID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversationId": convID})
}

func (h *HandlerManager) DenyRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.RequestSvc.Deny(middleware.ExternalID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

func (h *HandlerManager) CancelRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.RequestSvc.Cancel(middleware.ExternalID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

func (h *HandlerManager) ListFriends(c *gin.Context) {
	friends, err := h.FriendSvc.GetFriends(middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]*userView, 0, len(friends))
	for i := range friends {
		views = append(views, publicUser(&friends[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// RemoveFriend takes the id of the direct conversation shared with the friend.
func (h *HandlerManager) RemoveFriend(c *gin.Context) {
	convID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.FriendSvc.Remove(middleware.ExternalID(c), convID); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
