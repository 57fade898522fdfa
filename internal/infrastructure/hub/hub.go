package hub

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-recruit-sse/internal/infrastructure/logger"
)

const (
	DefaultSweepInterval = 30 * time.Second
	DefaultTimeout       = 60 * time.Second
)

type connection struct {
	id           string
	owner        string
	subscription string
	sink         Sink
	createdAt    time.Time
	lastSend     time.Time
}

func (c *connection) info() ConnectionInfo {
	return ConnectionInfo{
		ID:             c.id,
		UserID:         c.owner,
		ConversationID: c.subscription,
		ConnectedAt:    c.createdAt,
		LastActivity:   c.lastSend,
	}
}

// Hub is the process-wide registry of streaming connections. A single mutex
// guards the connection table; registration, delivery and sweep passes all
// hold it for their full duration.
type Hub struct {
	mu          sync.Mutex
	connections map[string]*connection
	seq         uint64
	open        bool

	running   bool
	runningMu sync.RWMutex

	logger logger.Logger

	sweepInterval time.Duration
	timeout       time.Duration
	now           func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Hub)

func WithSweepInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.sweepInterval = d
		}
	}
}

// WithTimeout sets how long a connection may go without a successful send
// before the sweeper evicts it.
func WithTimeout(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates a new Hub instance
func New(log logger.Logger, opts ...Option) *Hub {
	h := &Hub{
		connections:   make(map[string]*connection),
		logger:        log.WithField("component", "hub"),
		sweepInterval: DefaultSweepInterval,
		timeout:       DefaultTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start launches the liveness sweeper.
func (h *Hub) Start(ctx context.Context) error {
	h.runningMu.Lock()
	defer h.runningMu.Unlock()

	if h.running {
		return fmt.Errorf("hub is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})
	h.running = true

	h.mu.Lock()
	h.open = true
	h.mu.Unlock()

	go h.run(runCtx, h.done)

	h.logger.Infof("Hub started (sweep every %s, timeout %s)", h.sweepInterval, h.timeout)
	return nil
}

// Stop halts the sweeper and closes every connection.
func (h *Hub) Stop(ctx context.Context) error {
	h.runningMu.Lock()
	defer h.runningMu.Unlock()

	if !h.running {
		return nil
	}

	h.cancel()
	select {
	case <-h.done:
	case <-ctx.Done():
		h.logger.Warn("Timed out waiting for sweeper to exit")
	}

	h.mu.Lock()
	h.open = false
	closed := len(h.connections)
	for id := range h.connections {
		h.removeLocked(id, "shutdown")
	}
	h.mu.Unlock()

	h.running = false
	h.logger.Infof("Hub stopped, closed %d connections", closed)
	return nil
}

func (h *Hub) IsRunning() bool {
	h.runningMu.RLock()
	defer h.runningMu.RUnlock()
	return h.running
}

func (h *Hub) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			evicted, pinged := h.Sweep()
			if evicted > 0 {
				h.logger.Infof("Sweep evicted %d connections, pinged %d", evicted, pinged)
			}

		case <-ctx.Done():
			h.logger.Info("Hub sweeper stopped")
			return
		}
	}
}

// Register stores a new connection and greets it with a "connected" status
// event. The returned id is never reused. A hub that is not running closes
// the sink instead of storing it, so the id is already evicted.
func (h *Hub) Register(owner string, sink Sink, subscription string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.seq++
	id := fmt.Sprintf("%s-%d-%d", owner, h.seq, now.UnixNano())

	if !h.open {
		h.logger.Warnf("Rejected connection %s: hub is not running", id)
		_ = sink.Close()
		return id
	}

	conn := &connection{
		id:           id,
		owner:        owner,
		subscription: subscription,
		sink:         sink,
		createdAt:    now,
		lastSend:     now,
	}
	h.connections[id] = conn

	h.logger.WithFields(logger.Fields{
		"connection_id":   id,
		"user_id":         owner,
		"conversation_id": subscription,
	}).Info("Connection registered")

	greeting := Event{
		Type: EventTypeStatusChange,
		Data: map[string]any{
			"status":         "connected",
			"clientId":       id,
			"userId":         owner,
			"conversationId": subscription,
		},
		Timestamp: now.UnixMilli(),
	}
	if payload, err := marshalEvent(greeting); err == nil {
		h.deliverLocked(conn, payload)
	}

	// Sinks may close on their own (client gone, write failure).
	go func() {
		<-sink.Done()
		h.Unregister(id)
	}()

	return id
}

// Unregister closes and removes a connection. It reports false for ids that
// are not (or no longer) registered.
func (h *Hub) Unregister(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.removeLocked(id, "unregister")
}

// Resubscribe moves a connection to another conversation. An empty
// conversation id unsubscribes it.
func (h *Hub) Resubscribe(id, subscription string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.connections[id]
	if !ok {
		return false
	}
	conn.subscription = subscription
	h.logger.Debugf("Connection %s subscribed to %q", id, subscription)
	return true
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

func (h *Hub) CountForOwner(owner string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, conn := range h.connections {
		if conn.owner == owner {
			n++
		}
	}
	return n
}

// Snapshot lists every live connection, oldest first.
func (h *Hub) Snapshot() []ConnectionInfo {
	h.mu.Lock()
	infos := make([]ConnectionInfo, 0, len(h.connections))
	for _, conn := range h.connections {
		infos = append(infos, conn.info())
	}
	h.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].ConnectedAt.Equal(infos[j].ConnectedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].ConnectedAt.Before(infos[j].ConnectedAt)
	})
	return infos
}

func (h *Hub) removeLocked(id, reason string) bool {
	conn, ok := h.connections[id]
	if !ok {
		return false
	}
	delete(h.connections, id)
	_ = conn.sink.Close()

	h.logger.WithFields(logger.Fields{
		"connection_id": id,
		"user_id":       conn.owner,
		"reason":        reason,
	}).Info("Connection unregistered")
	return true
}

// deliverLocked hands payload to one connection. A failed send evicts it.
func (h *Hub) deliverLocked(conn *connection, payload []byte) bool {
	if err := conn.sink.Send(payload); err != nil {
		h.logger.Warnf("Send to connection %s failed: %v", conn.id, err)
		h.removeLocked(conn.id, "send failed")
		return false
	}
	conn.lastSend = h.now()
	return true
}
