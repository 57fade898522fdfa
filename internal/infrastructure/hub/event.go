package hub

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType enumerates everything that may travel over a stream.
type EventType string

const (
	EventTypeMessage              EventType = "message"
	EventTypeHRSatisfied          EventType = "hr_satisfied"
	EventTypeKeyPoint             EventType = "key_point"
	EventTypeStatusChange         EventType = "status_change"
	EventTypePing                 EventType = "ping"
	EventTypeConversationSnapshot EventType = "conversation_snapshot"
)

var validEventTypes = []EventType{
	EventTypeMessage,
	EventTypeHRSatisfied,
	EventTypeKeyPoint,
	EventTypeStatusChange,
	EventTypePing,
	EventTypeConversationSnapshot,
}

// Event is one unit of push data. Timestamp is Unix milliseconds and is
// stamped by whoever builds the event, never by the hub while delivering it.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp int64     `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// IsValidEventType reports whether t names a known event type.
func IsValidEventType(t string) bool {
	for _, valid := range validEventTypes {
		if string(valid) == t {
			return true
		}
	}
	return false
}

func marshalEvent(ev Event) ([]byte, error) {
	if ev.Type == "" {
		return nil, fmt.Errorf("event type cannot be empty")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}
	return payload, nil
}
