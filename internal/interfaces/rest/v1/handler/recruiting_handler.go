package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-recruit-sse/internal/domain/recruiting"
	"go-recruit-sse/internal/infrastructure/logger"
)

type RecruitingService interface {
	ListJobs() []recruiting.Job
	MatchResume(ctx context.Context, userID string, resume recruiting.Resume) ([]recruiting.MatchResult, error)
	StartConversation(ctx context.Context, userID, jobID string) (*recruiting.Conversation, error)
	GetConversation(ctx context.Context, id string) (*recruiting.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*recruiting.Conversation, error)
	CancelConversation(id string) bool
}

type RecruitingHandler struct {
	service RecruitingService
	logger  logger.Logger
}

type MatchRequest struct {
	UserID string            `json:"userId" binding:"required"`
	Resume recruiting.Resume `json:"resume"`
}

type StartConversationRequest struct {
	UserID string `json:"userId" binding:"required"`
	JobID  string `json:"jobId" binding:"required"`
}

func NewRecruitingHandler(service RecruitingService, logger logger.Logger) *RecruitingHandler {
	return &RecruitingHandler{
		service: service,
		logger:  logger.WithField("handler", "recruiting"),
	}
}

func (h *RecruitingHandler) ListJobs(c *gin.Context) {
	jobs := h.service.ListJobs()
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (h *RecruitingHandler) MatchResume(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnf("Invalid match request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match request"})
		return
	}

	results, err := h.service.MatchResume(c.Request.Context(), req.UserID, req.Resume)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": results})
}

func (h *RecruitingHandler) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnf("Invalid conversation request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and jobId are required"})
		return
	}

	conv, err := h.service.StartConversation(c.Request.Context(), req.UserID, req.JobID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conv)
}

func (h *RecruitingHandler) GetConversation(c *gin.Context) {
	conv, err := h.service.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *RecruitingHandler) ListConversations(c *gin.Context) {
	convs, err := h.service.ListConversations(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if convs == nil {
		convs = []*recruiting.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (h *RecruitingHandler) CancelConversation(c *gin.Context) {
	id := c.Param("id")
	if !h.service.CancelConversation(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No running conversation " + id})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling", "id": id})
}

func (h *RecruitingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, recruiting.ErrInvalidUserID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, recruiting.ErrJobNotFound), errors.Is(err, recruiting.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
