// Package handlers contains the gin HTTP handlers. Handlers bind and parse
// the request, delegate to a service, and translate errors through the
// response package.
package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/middleware"
	"github.com/ballotline/ballotline-api/internal/response"
	"github.com/ballotline/ballotline-api/internal/services"
)

// EventHandler serves the event CRUD surface
type EventHandler struct {
	events     *services.EventService
	engagement *services.EngagementService
	users      *services.UserService
	log        *log.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *services.EventService, engagement *services.EngagementService, users *services.UserService) *EventHandler {
	return &EventHandler{
		events:     events,
		engagement: engagement,
		users:      users,
		log:        logger.Handler("event"),
	}
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	ev, err := h.events.CreateEvent(middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "event created", ev)
}

// GetEvent handles GET /api/events/:id. Private events require the creator
// or an ?access_token= query parameter.
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	viewerID := middleware.UserID(c)
	ev, err := h.events.GetEvent(viewerID, eventID, c.Query("access_token"), h.users.ViewerTimezone(viewerID))
	if err != nil {
		response.FromError(c, err)
		return
	}

	favorited, err := h.engagement.IsFavorited(viewerID, eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"event":     ev,
		"favorited": favorited,
	})
}

// ListEvents handles GET /api/events with ?status=&category=&search=&is_private=
func (h *EventHandler) ListEvents(c *gin.Context) {
	viewerID := middleware.UserID(c)

	req := services.ListEventsRequest{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		ViewerID: viewerID,
		Timezone: h.users.ViewerTimezone(viewerID),
	}
	if raw := c.Query("is_private"); raw != "" {
		private := raw == "true" || raw == "1"
		req.IsPrivate = &private
	}

	events, err := h.events.ListEvents(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"events": events,
		"count":  len(events),
	})
}

// UpdateEvent handles PUT /api/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	ev, err := h.events.UpdateEvent(middleware.UserID(c), eventID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "event updated", ev)
}

// DeleteEvent handles DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.events.DeleteEvent(middleware.UserID(c), eventID); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "event deleted", nil)
}

// ListCategories handles GET /api/categories
func (h *EventHandler) ListCategories(c *gin.Context) {
	categories, err := h.events.ListCategories()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{"categories": categories})
}

// UploadCandidateImage handles POST /api/events/:id/candidates/:candidate_id/image
func (h *EventHandler) UploadCandidateImage(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	candidateID, ok := pathUUID(c, "candidate_id")
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequestError(c, "image file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequestError(c, "failed to read uploaded file")
		return
	}
	defer src.Close()

	key, err := h.events.AttachCandidateImage(
		c.Request.Context(),
		middleware.UserID(c),
		eventID,
		candidateID,
		file.Filename,
		src,
		file.Size,
		file.Header.Get("Content-Type"),
	)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "image uploaded", gin.H{"image_key": key})
}

// pathUUID parses a UUID path parameter, writing a 400 on failure
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequestError(c, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
