package hub

import "fmt"

// fanOut serializes ev once and delivers the same bytes to every connection
// accepted by match. It returns the number of successful deliveries.
func (h *Hub) fanOut(ev Event, target string, match func(*connection) bool) int {
	payload, err := marshalEvent(ev)
	if err != nil {
		h.logger.Errorf("Dropping event for %s: %v", target, err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for _, conn := range h.connections {
		if !match(conn) {
			continue
		}
		if h.deliverLocked(conn, payload) {
			sent++
		}
	}

	h.logger.Debugf("Delivered %s event to %d connections (%s)", ev.Type, sent, target)
	return sent
}

func (h *Hub) SendToConnection(id string, ev Event) bool {
	return h.fanOut(ev, "connection "+id, func(c *connection) bool {
		return c.id == id
	}) == 1
}

func (h *Hub) SendToOwner(owner string, ev Event) int {
	return h.fanOut(ev, "user "+owner, func(c *connection) bool {
		return c.owner == owner
	})
}

// SendToSubscription delivers to every connection watching conversationID.
// An empty id matches nothing.
func (h *Hub) SendToSubscription(conversationID string, ev Event) int {
	if conversationID == "" {
		return 0
	}
	return h.fanOut(ev, "conversation "+conversationID, func(c *connection) bool {
		return c.subscription == conversationID
	})
}

func (h *Hub) Broadcast(ev Event) int {
	return h.fanOut(ev, "broadcast", func(*connection) bool {
		return true
	})
}

func (h *Hub) NotifyNewMessage(conversationID string, message any) int {
	return h.SendToSubscription(conversationID, NewEvent(EventTypeMessage, map[string]any{
		"conversationId": conversationID,
		"message":        message,
	}))
}

// NotifyHRSatisfied tells the conversation's watchers and, separately, the
// candidate who owns it. The owner may be looking at another conversation, so
// the second event goes to every stream the owner has open.
func (h *Hub) NotifyHRSatisfied(conversationID string, score int, owner string) int {
	sent := h.SendToSubscription(conversationID, NewEvent(EventTypeHRSatisfied, map[string]any{
		"conversationId": conversationID,
		"score":          score,
		"message":        fmt.Sprintf("HR is satisfied with this candidate (score %d).", score),
	}))

	if owner != "" {
		sent += h.SendToOwner(owner, NewEvent(EventTypeHRSatisfied, map[string]any{
			"conversationId": conversationID,
			"score":          score,
			"direct":         true,
			"message":        fmt.Sprintf("Good news! HR wants to move forward with you (score %d).", score),
		}))
	}

	return sent
}

func (h *Hub) NotifyKeyPoint(conversationID string, keyPoint any) int {
	return h.SendToSubscription(conversationID, NewEvent(EventTypeKeyPoint, map[string]any{
		"conversationId": conversationID,
		"keyPoint":       keyPoint,
	}))
}

func (h *Hub) NotifyStatusChange(conversationID, status string) int {
	return h.SendToSubscription(conversationID, NewEvent(EventTypeStatusChange, map[string]any{
		"conversationId": conversationID,
		"status":         status,
	}))
}

func (h *Hub) NotifyConversationSnapshot(conversationID string, snapshot any) int {
	return h.SendToSubscription(conversationID, NewEvent(EventTypeConversationSnapshot, snapshot))
}
