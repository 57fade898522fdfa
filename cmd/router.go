package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-recruit-sse/internal/application/recruiting"
	"go-recruit-sse/internal/infrastructure/config"
	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
	v1 "go-recruit-sse/internal/interfaces/rest/v1"
	"go-recruit-sse/internal/interfaces/sse"
	"go-recruit-sse/internal/interfaces/websocket"
)

func InitRouter(
	cfg *config.Config,
	hubInstance *hub.Hub,
	service *recruiting.Service,
	log logger.Logger,
) http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.HTTP.AllowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	rootGroup := router.Group("")

	// Health check endpoint
	rootGroup.GET("/hub/status", func(c *gin.Context) {
		isRunning := hubInstance.IsRunning()
		connections := hubInstance.Count()
		log.Debugf("Hub status check - Running: %v, Connections: %d", isRunning, connections)
		c.JSON(http.StatusOK, gin.H{
			"status":               "healthy",
			"hub_running":          isRunning,
			"connections":          connections,
			"active_conversations": service.ActiveConversations(),
		})
	})

	sse.InitSSERouter(log, hubInstance, cfg.Hub.SinkBuffer, rootGroup)
	websocket.InitWebSocketRouter(log, hubInstance, cfg.Hub.SinkBuffer, rootGroup)
	v1.InitRouter(log, service, rootGroup)

	return router
}
