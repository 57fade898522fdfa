package v1

import (
	"github.com/gin-gonic/gin"

	"go-recruit-sse/internal/infrastructure/logger"
	"go-recruit-sse/internal/interfaces/rest/v1/handler"
)

func InitRouter(logger logger.Logger, service handler.RecruitingService, rg *gin.RouterGroup) {
	h := handler.NewRecruitingHandler(service, logger)

	api := rg.Group("/api/v1")
	api.GET("/jobs", h.ListJobs)
	api.POST("/match", h.MatchResume)

	conversations := api.Group("/conversations")
	conversations.GET("", h.ListConversations)
	conversations.POST("", h.StartConversation)
	conversations.GET("/:id", h.GetConversation)
	conversations.DELETE("/:id", h.CancelConversation)
}
