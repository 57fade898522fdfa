package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"go-recruit-sse/internal/domain/recruiting"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	job_id       TEXT NOT NULL,
	status       TEXT NOT NULL,
	satisfaction INTEGER NOT NULL DEFAULT 0,
	document     TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations (user_id, updated_at);
`

// ConversationStore persists conversations in a single sqlite table. The full
// conversation is kept as a JSON document; the other columns exist for
// lookups.
type ConversationStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" is
// accepted for tests.
func Open(ctx context.Context, path string) (*ConversationStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// sqlite serializes writers anyway, and an in-memory database only
	// exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &ConversationStore{db: db}, nil
}

func (s *ConversationStore) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a conversation.
func (s *ConversationStore) Save(ctx context.Context, conv *recruiting.Conversation) error {
	doc, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation %s: %w", conv.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, job_id, status, satisfaction, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			satisfaction = excluded.satisfaction,
			document = excluded.document,
			updated_at = excluded.updated_at
	`,
		conv.ID,
		conv.UserID,
		conv.JobID,
		string(conv.Status),
		conv.Satisfaction,
		string(doc),
		conv.CreatedAt.UnixNano(),
		conv.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", conv.ID, err)
	}
	return nil
}

func (s *ConversationStore) Get(ctx context.Context, id string) (*recruiting.Conversation, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM conversations WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recruiting.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}
	return decode(doc)
}

// ListByUser returns a user's conversations, most recently updated first.
func (s *ConversationStore) ListByUser(ctx context.Context, userID string) ([]*recruiting.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document FROM conversations
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	convs := []*recruiting.Conversation{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		conv, err := decode(doc)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// MarkInterrupted flags conversations left active by a previous process as
// cancelled. It returns how many rows changed.
func (s *ConversationStore) MarkInterrupted(ctx context.Context) (int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM conversations WHERE status = ?`, string(recruiting.StatusActive))
	if err != nil {
		return 0, fmt.Errorf("failed to find active conversations: %w", err)
	}

	var stale []*recruiting.Conversation
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			rows.Close()
			return 0, err
		}
		conv, err := decode(doc)
		if err != nil {
			rows.Close()
			return 0, err
		}
		stale = append(stale, conv)
	}
	rows.Close()

	now := time.Now()
	for _, conv := range stale {
		conv.Status = recruiting.StatusCancelled
		conv.UpdatedAt = now
		if err := s.Save(ctx, conv); err != nil {
			return 0, err
		}
	}
	return int64(len(stale)), nil
}

func decode(doc string) (*recruiting.Conversation, error) {
	var conv recruiting.Conversation
	if err := json.Unmarshal([]byte(doc), &conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	return &conv, nil
}
