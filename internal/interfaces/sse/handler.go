package sse

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
)

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionStatus      = "status"
)

const (
	TargetUser         = "user"
	TargetConversation = "conversation"
	TargetBroadcast    = "broadcast"
	TargetClient       = "client"
)

type ServerSentEventHandler struct {
	hub        *hub.Hub
	logger     logger.Logger
	sinkBuffer int
}

func NewServerSentEventHandler(hubInstance *hub.Hub, logger logger.Logger, sinkBuffer int) *ServerSentEventHandler {
	return &ServerSentEventHandler{
		hub:        hubInstance,
		logger:     logger.WithField("handler", "sse"),
		sinkBuffer: sinkBuffer,
	}
}

type ControlRequest struct {
	ClientID       string `json:"clientId"`
	ConversationID string `json:"conversationId"`
	Action         string `json:"action"`
}

type InjectTarget struct {
	Type           string `json:"type"`
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	ClientID       string `json:"clientId"`
}

type InjectEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type InjectRequest struct {
	Target InjectTarget `json:"target"`
	Event  InjectEvent  `json:"event"`
}

// Connect opens an event stream for userId, optionally subscribed to
// conversationId, and holds the request until the client goes away.
func (h *ServerSentEventHandler) Connect(c *gin.Context) {
	if !h.hub.IsRunning() {
		h.logger.Error("Hub is not running")
		rejectStream(c, http.StatusServiceUnavailable, hub.ErrHubNotRunning.Error())
		return
	}

	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		rejectStream(c, http.StatusBadRequest, "userId is required")
		return
	}
	conversationID := strings.TrimSpace(c.Query("conversationId"))

	sink := hub.NewStreamSink(h.sinkBuffer)
	id := h.hub.Register(userID, sink, conversationID)
	defer h.hub.Unregister(id)

	log := h.logger.WithFields(logger.Fields{"client_id": id, "user_id": userID})
	log.Info("Stream opened")

	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	err := sink.Pump(c.Request.Context(), c.Writer)
	switch {
	case err == nil:
		log.Info("Stream closed by hub")
	case c.Request.Context().Err() != nil:
		log.Info("Client disconnected")
	default:
		log.Warnf("Stream write failed: %v", err)
	}
}

// Control handles subscribe, unsubscribe and status requests.
func (h *ServerSentEventHandler) Control(c *gin.Context) {
	var req ControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case ActionSubscribe:
		if req.ClientID == "" || req.ConversationID == "" {
			respondError(c, http.StatusBadRequest, "clientId and conversationId are required")
			return
		}
		if !h.hub.Resubscribe(req.ClientID, req.ConversationID) {
			respondResult(c, false, "Client not found")
			return
		}
		respondResult(c, true, "Subscribed to conversation "+req.ConversationID)

	case ActionUnsubscribe:
		if req.ClientID == "" {
			respondError(c, http.StatusBadRequest, "clientId is required")
			return
		}
		if !h.hub.Resubscribe(req.ClientID, "") {
			respondResult(c, false, "Client not found")
			return
		}
		respondResult(c, true, "Unsubscribed")

	case ActionStatus:
		clients := h.hub.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"clientCount": len(clients),
			"clients":     clients,
		})

	case "":
		respondError(c, http.StatusBadRequest, "action is required")

	default:
		respondError(c, http.StatusBadRequest, "Unknown action: "+req.Action)
	}
}

// Inject delivers an arbitrary event to the selected target.
func (h *ServerSentEventHandler) Inject(c *gin.Context) {
	var req InjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !hub.IsValidEventType(req.Event.Type) {
		respondError(c, http.StatusBadRequest, "Unknown event type: "+req.Event.Type)
		return
	}

	ev := hub.NewEvent(hub.EventType(req.Event.Type), req.Event.Data)

	var sent int
	switch req.Target.Type {
	case TargetUser:
		if req.Target.UserID == "" {
			respondError(c, http.StatusBadRequest, "target.userId is required")
			return
		}
		sent = h.hub.SendToOwner(req.Target.UserID, ev)

	case TargetConversation:
		if req.Target.ConversationID == "" {
			respondError(c, http.StatusBadRequest, "target.conversationId is required")
			return
		}
		sent = h.hub.SendToSubscription(req.Target.ConversationID, ev)

	case TargetBroadcast:
		sent = h.hub.Broadcast(ev)

	case TargetClient:
		if req.Target.ClientID == "" {
			respondError(c, http.StatusBadRequest, "target.clientId is required")
			return
		}
		if h.hub.SendToConnection(req.Target.ClientID, ev) {
			sent = 1
		}

	default:
		respondError(c, http.StatusBadRequest, "Unknown target type: "+req.Target.Type)
		return
	}

	h.logger.Infof("Injected %s event to %s target, delivered %d", ev.Type, req.Target.Type, sent)
	c.JSON(http.StatusOK, gin.H{
		"success":   sent > 0,
		"sentCount": sent,
	})
}

func respondResult(c *gin.Context, success bool, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"message": message,
	})
}

// rejectStream answers a stream request with JSON instead of an event stream.
func rejectStream(c *gin.Context, status int, message string) {
	c.Writer.Header().Del("Content-Type")
	respondError(c, status, message)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
