package http

import (
	"github.com/gdugdh24/compatible-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/compatible-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	authHandler     *handler.AuthHandler
	matchHandler    *handler.MatchHandler
	messageHandler  *handler.MessageHandler
	realtimeHandler *handler.RealtimeHandler
	authMiddleware  *middleware.AuthMiddleware
	logger          *zap.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	matchHandler *handler.MatchHandler,
	messageHandler *handler.MessageHandler,
	realtimeHandler *handler.RealtimeHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:     authHandler,
		matchHandler:    matchHandler,
		messageHandler:  messageHandler,
		realtimeHandler: realtimeHandler,
		authMiddleware:  authMiddleware,
		logger:          logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.logger))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// WebSocket accepts the token as a query parameter too
		v1.GET("/ws", r.authMiddleware.RequireAuthOrQuery(), r.realtimeHandler.Connect)

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			protected.GET("/auth/me", r.authHandler.Me)

			// Match routes
			matches := protected.Group("/matches")
			{
				matches.GET("", r.matchHandler.GetMatches)
				matches.GET("/potential", r.matchHandler.GetPotentialMatches)
				matches.GET("/accepted", r.matchHandler.GetAcceptedMatches)
				matches.GET("/id/:match_id", r.matchHandler.GetMatchByID)
				matches.POST("/:profile_id/like", r.matchHandler.Like)
				matches.POST("/:profile_id/dislike", r.matchHandler.Dislike)
			}

			// Message routes
			messages := protected.Group("/messages")
			{
				messages.POST("", r.messageHandler.SendMessage)
				messages.POST("/typing", r.messageHandler.SendTyping)
				messages.GET("/unread", r.messageHandler.GetUnreadMessages)
				messages.GET("/unread/count", r.messageHandler.GetUnreadCount)
				messages.GET("/match/:match_id", r.messageHandler.GetMessages)
				messages.POST("/:message_id/read", r.messageHandler.MarkRead)
			}
		}
	}

	return router
}
