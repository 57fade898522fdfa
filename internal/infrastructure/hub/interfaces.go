package hub

import (
	"errors"
	"time"
)

var (
	ErrSinkClosed = errors.New("sink is closed")
	ErrSinkFull   = errors.New("sink buffer is full")

	// ErrHubNotRunning is returned by the transport layer when a stream is
	// requested before Start or after Stop.
	ErrHubNotRunning = errors.New("hub is not running")
)

// Sink is the output handle of one streaming connection. Send must not block:
// a sink that cannot accept the payload right now reports an error, and the
// hub treats that as a disconnect.
type Sink interface {
	Send(payload []byte) error
	Close() error
	Done() <-chan struct{}
}

// ConnectionInfo is a read-only view of a registered connection.
type ConnectionInfo struct {
	ID             string    `json:"clientId"`
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId,omitempty"`
	ConnectedAt    time.Time `json:"connectedAt"`
	LastActivity   time.Time `json:"lastActivity"`
}
