package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/internal/middleware"
	"github.com/mroshb/chat_app/internal/services"
)

type createGroupReq struct {
	Name      string `json:"name"`
	MemberIDs []uint `json:"memberIds"`
	ImageURL  string `json:"imageUrl"`
}

type nameReq struct {
	Name string `json:"name"`
}

type imageReq struct {
	ImageURL string `json:"imageUrl"`
}

type membersReq struct {
	MemberIDs []uint `json:"memberIds"`
}

func (h *HandlerManager) ListConversations(c *gin.Context) {
	summaries, err := h.ConvSvc.ListForUser(middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, newSummaryView(s))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *HandlerManager) GetConversation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.ConvSvc.Get(middleware.ExternalID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":                   newConversationView(details.Conversation, details.OtherMember),
		"memberCount":            details.MemberCount,
		"otherLastSeenMessageId": details.OtherLastSeenMessageID,
	})
}

func (h *HandlerManager) GetMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.ConvSvc.GetMembers(middleware.ExternalID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, memberView{UserID: m.UserID, Username: m.Username, ImageURL: m.ImageURL})
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *HandlerManager) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ConvSvc.MarkRead(middleware.ExternalID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

func (h *HandlerManager) CreateGroup(c *gin.Context) {
	var req createGroupReq
	if !bindJSON(c, &req) {
		return
	}

	conv, err := h.GroupSvc.CreateGroup(middleware.ExternalID(c), services.CreateGroupInput{
		Name:      req.Name,
		MemberIDs: req.MemberIDs,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": conv.ID})
}

// IsCreator answers false rather than failing for anonymous callers.
func (h *HandlerManager) IsCreator(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"isCreator": h.GroupSvc.IsCreator(middleware.ExternalID(c), id)})
}

func (h *HandlerManager) UpdateGroupName(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req nameReq
	if !bindJSON(c, &req) {
		return
	}

	if err := h.GroupSvc.UpdateName(middleware.ExternalID(c), id, req.Name); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

func (h *HandlerManager) UpdateGroupImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req imageReq
	if !bindJSON(c, &req) {
		return
	}

	if err := h.GroupSvc.UpdateImage(middleware.ExternalID(c), id, req.ImageURL); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

func (h *HandlerManager) AddMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req membersReq
	if !bindJSON(c, &req) {
		return
	}

	added, err := h.GroupSvc.AddMembers(middleware.ExternalID(c), id, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "addedCount": added})
}

func (h *HandlerManager) RemoveMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.GroupSvc.RemoveMember(middleware.ExternalID(c), id, memberID); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

func (h *HandlerManager) LeaveGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.GroupSvc.Leave(middleware.ExternalID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"success": true, "deleted": res.Deleted}
	if res.NewCreatorID != 0 {
		body["newCreatorId"] = res.NewCreatorID
	}
	c.JSON(http.StatusOK, body)
}

func (h *HandlerManager) DeleteGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.GroupSvc.Delete(middleware.ExternalID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
