package hub

// Sweep runs one liveness pass. Connections that have gone longer than the
// timeout without a successful send are evicted without a ping; every other
// connection gets exactly one ping, and a failed ping evicts it.
func (h *Hub) Sweep() (evicted, pinged int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	ping, err := marshalEvent(Event{
		Type:      EventTypePing,
		Data:      map[string]any{},
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		h.logger.Errorf("Failed to build ping: %v", err)
		return 0, 0
	}

	for id, conn := range h.connections {
		if now.Sub(conn.lastSend) > h.timeout {
			h.removeLocked(id, "timeout")
			evicted++
			continue
		}

		if h.deliverLocked(conn, ping) {
			pinged++
		} else {
			evicted++
		}
	}

	return evicted, pinged
}
