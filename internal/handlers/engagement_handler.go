package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/middleware"
	"github.com/ballotline/ballotline-api/internal/response"
	"github.com/ballotline/ballotline-api/internal/services"
)

// EngagementHandler serves favorites, comments and notifications
type EngagementHandler struct {
	engagement *services.EngagementService
	log        *log.Logger
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagement *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagement: engagement,
		log:        logger.Handler("engagement"),
	}
}

// AddFavorite handles POST /api/events/:id/favorite
func (h *EngagementHandler) AddFavorite(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.engagement.SetFavorite(middleware.UserID(c), eventID, true); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "event favorited", nil)
}

// RemoveFavorite handles DELETE /api/events/:id/favorite
func (h *EngagementHandler) RemoveFavorite(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.engagement.SetFavorite(middleware.UserID(c), eventID, false); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "favorite removed", nil)
}

// ListComments handles GET /api/events/:id/comments
func (h *EngagementHandler) ListComments(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	comments, err := h.engagement.ListComments(eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// CreateComment handles POST /api/events/:id/comments
func (h *EngagementHandler) CreateComment(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	comment, err := h.engagement.CreateComment(middleware.UserID(c), eventID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "comment posted", comment)
}

// ListNotifications handles GET /api/notifications
func (h *EngagementHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.engagement.ListNotifications(middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read
func (h *EngagementHandler) MarkNotificationRead(c *gin.Context) {
	notificationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.engagement.MarkNotificationRead(middleware.UserID(c), notificationID); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "notification marked read", nil)
}
