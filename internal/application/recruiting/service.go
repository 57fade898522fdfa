package recruiting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-recruit-sse/internal/application/chat"
	domain "go-recruit-sse/internal/domain/recruiting"
	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
)

var ErrShuttingDown = errors.New("service is shutting down")

// Notifier is what the service needs from the event hub.
type Notifier interface {
	chat.Notifier
	SendToOwner(owner string, ev hub.Event) int
}

type Repository interface {
	Save(ctx context.Context, conv *domain.Conversation) error
	Get(ctx context.Context, id string) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Conversation, error)
}

// Service is the entry point for the REST layer: it runs matching and
// conversations and pushes their progress to the hub.
type Service struct {
	repo      Repository
	notifier  Notifier
	simulator *chat.Simulator
	logger    logger.Logger

	mu      sync.Mutex
	closed  bool
	running map[string]context.CancelFunc
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func NewService(
	repo Repository,
	notifier Notifier,
	simulator *chat.Simulator,
	log logger.Logger,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		repo:      repo,
		notifier:  notifier,
		simulator: simulator,
		logger:    log.WithField("component", "recruiting"),
		running:   make(map[string]context.CancelFunc),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Service) ListJobs() []domain.Job {
	return domain.Catalog()
}

// MatchResume ranks the catalog against resume and tells the user's open
// streams that results are ready.
func (s *Service) MatchResume(ctx context.Context, userID string, resume domain.Resume) ([]domain.MatchResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	results := domain.RankJobs(resume, domain.Catalog())

	data := map[string]any{
		"status":  "match_complete",
		"userId":  userID,
		"matches": len(results),
	}
	if len(results) > 0 {
		data["topJobId"] = results[0].JobID
		data["topScore"] = results[0].Score
	}
	sent := s.notifier.SendToOwner(userID, hub.NewEvent(hub.EventTypeStatusChange, data))

	s.logger.WithField("user_id", userID).
		Infof("Matched resume against %d jobs, notified %d connections", len(results), sent)
	return results, nil
}

// StartConversation persists a new conversation and plays it out in the
// background. The returned value is a copy taken before the first turn.
func (s *Service) StartConversation(ctx context.Context, userID, jobID string) (*domain.Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	job, err := domain.FindJob(jobID)
	if err != nil {
		return nil, err
	}

	// Shutdown waits on wg, so a conversation saved from here on is always
	// run to a final state.
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrShuttingDown
	}
	s.wg.Add(1)
	s.mu.Unlock()

	conv := domain.NewConversation(userID, job.ID, time.Now())
	if err := s.repo.Save(ctx, conv); err != nil {
		s.wg.Done()
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	snapshot := conv.Clone()

	runCtx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.running[conv.ID] = cancel
	s.mu.Unlock()

	go s.run(runCtx, cancel, conv, job)

	s.logger.WithFields(logger.Fields{
		"conversation_id": conv.ID,
		"user_id":         userID,
		"job_id":          job.ID,
	}).Info("Conversation started")
	return snapshot, nil
}

func (s *Service) run(ctx context.Context, cancel context.CancelFunc, conv *domain.Conversation, job domain.Job) {
	defer s.wg.Done()
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.running, conv.ID)
		s.mu.Unlock()
	}()

	if err := s.simulator.Run(ctx, conv, job); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Errorf("Conversation %s stopped: %v", conv.ID, err)
	}
}

// GetConversation loads a conversation and re-sends it as a snapshot to the
// conversation's subscribers, so a page that just subscribed can catch up.
func (s *Service) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	conv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyConversationSnapshot(conv.ID, conv)
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUserID
	}
	return s.repo.ListByUser(ctx, userID)
}

// CancelConversation stops a running conversation. It reports false when
// nothing with that id is in progress.
func (s *Service) CancelConversation(id string) bool {
	s.mu.Lock()
	cancel, ok := s.running[id]
	s.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}

func (s *Service) ActiveConversations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// Shutdown cancels every running conversation and waits for them to record
// their final state, or for ctx to expire.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	active := len(s.running)
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infof("Stopped %d running conversations", active)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for conversations: %w", ctx.Err())
	}
}
