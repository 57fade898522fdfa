package recruiting

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSatisfied Status = "satisfied"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Done reports whether no further turns will be generated.
func (s Status) Done() bool {
	return s == StatusSatisfied || s == StatusCompleted || s == StatusCancelled
}

type Role string

const (
	RoleHR        Role = "hr"
	RoleCandidate Role = "candidate"
)

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// KeyPoint is a fact HR picked up from the candidate during the chat.
type KeyPoint struct {
	Category  string    `json:"category"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Conversation struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	JobID        string     `json:"jobId"`
	Status       Status     `json:"status"`
	Satisfaction int        `json:"satisfaction"`
	Messages     []Message  `json:"messages"`
	KeyPoints    []KeyPoint `json:"keyPoints"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewConversation(userID, jobID string, now time.Time) *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		JobID:     jobID,
		Status:    StatusActive,
		Messages:  []Message{},
		KeyPoints: []KeyPoint{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Conversation) AddMessage(role Role, content string, now time.Time) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = now
	return msg
}

func (c *Conversation) HasKeyPoint(category string) bool {
	for _, kp := range c.KeyPoints {
		if kp.Category == category {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to another goroutine.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	cp.KeyPoints = make([]KeyPoint, len(c.KeyPoints))
	copy(cp.KeyPoints, c.KeyPoints)
	return &cp
}
