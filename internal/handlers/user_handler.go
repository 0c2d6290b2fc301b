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

// UserHandler serves registration, login and the viewer's own account
type UserHandler struct {
	users      *services.UserService
	engagement *services.EngagementService
	log        *log.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, engagement *services.EngagementService) *UserHandler {
	return &UserHandler{
		users:      users,
		engagement: engagement,
		log:        logger.Handler("user"),
	}
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	u, err := h.users.Register(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "account created", u)
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	token, u, err := h.users.Login(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "logged in", gin.H{
		"token": token,
		"user":  u,
	})
}

// Me handles GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.Me(middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", u)
}

// UpdateProfile handles PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	profile, err := h.users.UpdateProfile(middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "profile updated", profile)
}

// ListFavorites handles GET /api/me/favorites
func (h *UserHandler) ListFavorites(c *gin.Context) {
	userID := middleware.UserID(c)

	events, err := h.engagement.ListFavoriteEvents(userID, h.users.ViewerTimezone(userID))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"events": events,
		"count":  len(events),
	})
}
