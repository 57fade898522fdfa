package chat

import (
	"context"
	"fmt"
	"time"

	"go-recruit-sse/internal/domain/recruiting"
	"go-recruit-sse/internal/infrastructure/logger"
)

// Notifier is the slice of the event hub the simulator pushes through.
type Notifier interface {
	NotifyNewMessage(conversationID string, message any) int
	NotifyKeyPoint(conversationID string, keyPoint any) int
	NotifyStatusChange(conversationID, status string) int
	NotifyHRSatisfied(conversationID string, score int, owner string) int
	NotifyConversationSnapshot(conversationID string, snapshot any) int
}

type Repository interface {
	Save(ctx context.Context, conv *recruiting.Conversation) error
}

type Config struct {
	TurnDelay             time.Duration
	SatisfactionThreshold int
	MaxTurns              int
	InitialSatisfaction   int
}

func DefaultConfig() Config {
	return Config{
		TurnDelay:             1500 * time.Millisecond,
		SatisfactionThreshold: 85,
		MaxTurns:              12,
		InitialSatisfaction:   40,
	}
}

// Simulator plays out a conversation between HR and a candidate, one line at
// a time, persisting and publishing every step.
type Simulator struct {
	cfg       Config
	responder Responder
	fallback  Responder
	repo      Repository
	notifier  Notifier
	logger    logger.Logger
	now       func() time.Time
}

func NewSimulator(
	cfg Config,
	responder Responder,
	repo Repository,
	notifier Notifier,
	log logger.Logger,
) *Simulator {
	if responder == nil {
		responder = ScriptedResponder{}
	}
	return &Simulator{
		cfg:       cfg,
		responder: responder,
		fallback:  ScriptedResponder{},
		repo:      repo,
		notifier:  notifier,
		logger:    log.WithField("component", "chat"),
		now:       time.Now,
	}
}

// Run generates turns until HR is satisfied, the turn budget runs out, or ctx
// is cancelled. conv is owned by Run for its whole duration.
func (s *Simulator) Run(ctx context.Context, conv *recruiting.Conversation, job recruiting.Job) error {
	log := s.logger.WithFields(logger.Fields{
		"conversation_id": conv.ID,
		"user_id":         conv.UserID,
	})

	if conv.Satisfaction == 0 {
		conv.Satisfaction = s.cfg.InitialSatisfaction
	}
	s.notifier.NotifyStatusChange(conv.ID, string(conv.Status))

	for turn := len(conv.Messages); turn < s.cfg.MaxTurns; turn++ {
		if err := s.wait(ctx); err != nil {
			return s.finish(conv, recruiting.StatusCancelled, log)
		}

		role := recruiting.RoleHR
		if turn%2 == 1 {
			role = recruiting.RoleCandidate
		}

		text := s.reply(ctx, ReplyRequest{Role: role, Job: job, History: conv.Messages, Turn: turn}, log)
		now := s.now()
		msg := conv.AddMessage(role, text, now)

		var points []recruiting.KeyPoint
		if role == recruiting.RoleCandidate {
			points = extractKeyPoints(conv, text, now)
			conv.KeyPoints = append(conv.KeyPoints, points...)
			conv.Satisfaction = min(100, conv.Satisfaction+5+5*len(points))
		}

		if err := s.repo.Save(ctx, conv); err != nil {
			log.Errorf("Failed to save turn %d: %v", turn, err)
		}
		s.notifier.NotifyNewMessage(conv.ID, msg)
		for _, kp := range points {
			s.notifier.NotifyKeyPoint(conv.ID, kp)
		}

		if conv.Satisfaction >= s.cfg.SatisfactionThreshold {
			s.notifier.NotifyHRSatisfied(conv.ID, conv.Satisfaction, conv.UserID)
			return s.finish(conv, recruiting.StatusSatisfied, log)
		}
	}

	return s.finish(conv, recruiting.StatusCompleted, log)
}

func (s *Simulator) reply(ctx context.Context, req ReplyRequest, log logger.Logger) string {
	text, err := s.responder.Reply(ctx, req)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		log.Warnf("Responder failed, using scripted reply: %v", err)
	}

	text, err = s.fallback.Reply(ctx, req)
	if err != nil {
		return fmt.Sprintf("(%s is typing...)", req.Role)
	}
	return text
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.cfg.TurnDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.cfg.TurnDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulator) finish(conv *recruiting.Conversation, status recruiting.Status, log logger.Logger) error {
	conv.Status = status
	conv.UpdatedAt = s.now()

	// The run context may already be cancelled; the final state still has
	// to reach the store.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Save(saveCtx, conv); err != nil {
		log.Errorf("Failed to save final state: %v", err)
	}

	s.notifier.NotifyStatusChange(conv.ID, string(status))
	s.notifier.NotifyConversationSnapshot(conv.ID, conv.Clone())

	log.Infof("Conversation finished with status %s (satisfaction %d)", status, conv.Satisfaction)
	if status == recruiting.StatusCancelled {
		return context.Canceled
	}
	return nil
}
