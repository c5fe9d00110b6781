package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/internal/config"
	"github.com/mroshb/chat_app/internal/middleware"
	"github.com/mroshb/chat_app/internal/services"
)

type HandlerManager struct {
	Config      *config.Config
	UserSvc     *services.UserService
	RequestSvc  *services.RequestService
	FriendSvc   *services.FriendService
	ConvSvc     *services.ConversationService
	GroupSvc    *services.GroupService
	MessageSvc  *services.MessageService
	RateLimiter *middleware.RateLimiter
}

func NewHandlerManager(
	cfg *config.Config,
	userSvc *services.UserService,
	requestSvc *services.RequestService,
	friendSvc *services.FriendService,
	convSvc *services.ConversationService,
	groupSvc *services.GroupService,
	messageSvc *services.MessageService,
	rateLimiter *middleware.RateLimiter,
) *HandlerManager {
	return &HandlerManager{
		Config:      cfg,
		UserSvc:     userSvc,
		RequestSvc:  requestSvc,
		FriendSvc:   friendSvc,
		ConvSvc:     convSvc,
		GroupSvc:    groupSvc,
		MessageSvc:  messageSvc,
		RateLimiter: rateLimiter,
	}
}

// Router wires every route onto a new gin engine.
func (h *HandlerManager) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/webhooks/identity", h.HandleIdentityWebhook)

	secret, issuer := h.Config.AuthJWTSecret, h.Config.AuthJWTIssuer

	// isCreator answers false instead of rejecting anonymous callers
	optional := r.Group("/api/v1")
	optional.Use(middleware.OptionalIdentity(secret, issuer))
	if h.RateLimiter != nil {
		optional.Use(h.RateLimiter.Middleware())
	}
	optional.GET("/conversations/:id/creator", h.IsCreator)

	api := r.Group("/api/v1")
	api.Use(middleware.Identity(secret, issuer))
	if h.RateLimiter != nil {
		api.Use(h.RateLimiter.Middleware())
	}

	api.GET("/users/me", h.GetMe)
	api.PATCH("/users/me", h.UpdateMe)

	api.GET("/requests", h.ListRequests)
	api.GET("/requests/count", h.CountRequests)
	api.POST("/requests", h.CreateRequest)
	api.POST("/requests/:id/accept", h.AcceptRequest)
	api.POST("/requests/:id/deny", h.DenyRequest)
	api.DELETE("/requests/:id", h.CancelRequest)

	api.GET("/friends", h.ListFriends)
	api.DELETE("/friends/:id", h.RemoveFriend)

	api.GET("/conversations", h.ListConversations)
	api.POST("/conversations/groups", h.CreateGroup)
	api.GET("/conversations/:id", h.GetConversation)
	api.DELETE("/conversations/:id", h.DeleteGroup)
	api.GET("/conversations/:id/members", h.GetMembers)
	api.POST("/conversations/:id/members", h.AddMembers)
	api.DELETE("/conversations/:id/members/:userId", h.RemoveMember)
	api.POST("/conversations/:id/leave", h.LeaveGroup)
	api.PATCH("/conversations/:id/name", h.UpdateGroupName)
	api.PATCH("/conversations/:id/image", h.UpdateGroupImage)
	api.POST("/conversations/:id/read", h.MarkRead)
	api.GET("/conversations/:id/messages", h.ListMessages)
	api.POST("/conversations/:id/messages", h.CreateMessage)

	api.DELETE("/messages/:id", h.DeleteMessage)

	return r
}
