// Package server wires repositories, services and handlers into the HTTP
// router and owns the server lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ballotline/ballotline-api/internal/config"
	"github.com/ballotline/ballotline-api/internal/domain/vote"
	"github.com/ballotline/ballotline-api/internal/handlers"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/middleware"
	"github.com/ballotline/ballotline-api/internal/ratelimit"
	"github.com/ballotline/ballotline-api/internal/services"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	store      postgres.RepositoryContainer
	images     services.ImageStore
}

// New creates a new server instance. images may be nil when no object store
// is configured.
func New(cfg *config.Config, store postgres.RepositoryContainer, images services.ImageStore) *Server {
	return &Server{
		config: cfg,
		store:  store,
		images: images,
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Every route sees the optional bearer identity; protected groups add
	// RequireAuth on top.
	router.Use(middleware.Identity(s.config.JWT.Secret))

	throttle := ratelimit.New(map[string]int{
		vote.ScopeVote:     s.config.Throttle.VotePerMinute,
		vote.ScopeAnonVote: s.config.Throttle.AnonVotePerMinute,
	})
	ledger := vote.NewLedger(s.store.Votes(), s.store.Events(), throttle, s.store.ActivityLogs())

	eventService := services.NewEventService(s.store.Events(), s.store.Users(), s.images)
	userService := services.NewUserService(s.store.Users(), s.config.JWT.Secret, s.config.JWT.TTL)
	engagementService := services.NewEngagementService(s.store.Favorites(), s.store.Comments(), s.store.Notifications(), s.store.Events())
	reportService := services.NewReportService(s.store.Reports(), s.store.Events(), s.store.Comments(), s.store.Users())

	eventHandler := handlers.NewEventHandler(eventService, engagementService, userService)
	voteHandler := handlers.NewVoteHandler(ledger)
	userHandler := handlers.NewUserHandler(userService, engagementService)
	engagementHandler := handlers.NewEngagementHandler(engagementService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := s.store.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"message": "Ballotline API is running",
			"status":  status,
		})
	})

	s.setupAPIRoutes(router, eventHandler, voteHandler, userHandler, engagementHandler, reportHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	eventHandler *handlers.EventHandler,
	voteHandler *handlers.VoteHandler,
	userHandler *handlers.UserHandler,
	engagementHandler *handlers.EngagementHandler,
	reportHandler *handlers.ReportHandler,
) {
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
		}

		events := api.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.GET("/:id/comments", engagementHandler.ListComments)

			// Voting is open to anonymous callers; the ledger throttles
			// them by client address
			events.POST("/:id/vote", voteHandler.CastVote)

			protected := events.Group("")
			protected.Use(middleware.RequireAuth())
			{
				protected.POST("", eventHandler.CreateEvent)
				protected.PUT("/:id", eventHandler.UpdateEvent)
				protected.DELETE("/:id", eventHandler.DeleteEvent)
				protected.POST("/:id/favorite", engagementHandler.AddFavorite)
				protected.DELETE("/:id/favorite", engagementHandler.RemoveFavorite)
				protected.POST("/:id/comments", engagementHandler.CreateComment)
				protected.POST("/:id/candidates/:candidate_id/image", eventHandler.UploadCandidateImage)
			}
		}

		api.GET("/categories", eventHandler.ListCategories)

		me := api.Group("", middleware.RequireAuth())
		{
			me.GET("/me", userHandler.Me)
			me.GET("/me/favorites", userHandler.ListFavorites)
			me.PUT("/profile", userHandler.UpdateProfile)

			me.GET("/notifications", engagementHandler.ListNotifications)
			me.PATCH("/notifications/:id/read", engagementHandler.MarkNotificationRead)

			me.POST("/reports", reportHandler.CreateReport)
			me.GET("/reports", reportHandler.ListReports)
			me.PATCH("/reports/:id/resolve", reportHandler.ResolveReport)
		}
	}
}
