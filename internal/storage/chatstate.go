// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// schemaVersion guards the cache schema. On mismatch the cache is
// dropped and rebuilt; it only ever holds data refetchable from the
// backend.
const schemaVersion = 1

// schema creates the chat-state tables.
const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	user_id    TEXT NOT NULL,
	id         TEXT NOT NULL,
	title      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages(conversation_id, created_at);

CREATE TABLE IF NOT EXISTS app_state (
	user_id                TEXT PRIMARY KEY,
	active_conversation_id TEXT NOT NULL DEFAULT ''
);
`

// =============================================================================
// CHAT STATE STORE
// =============================================================================

// ChatStateStore caches conversation lists and message histories in a
// local SQLite database. The backend remains the source of truth; this
// cache only makes restarts render instantly and survives offline
// browsing of already-fetched history.
type ChatStateStore struct {
	db *sql.DB
}

// DefaultChatStatePath returns the standard cache location,
// ~/.dreamhub/chatstate.db.
func DefaultChatStatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".dreamhub", "chatstate.db"), nil
}

// NewChatStateStore opens or creates the cache database at path.
func NewChatStateStore(path string) (*ChatStateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &ChatStateStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return s, nil
}

// initSchema creates the tables, dropping stale data on a version bump.
func (s *ChatStateStore) initSchema() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	if version != 0 && version != schemaVersion {
		drops := []string{
			"DROP TABLE IF EXISTS conversations",
			"DROP TABLE IF EXISTS messages",
			"DROP TABLE IF EXISTS app_state",
		}
		for _, stmt := range drops {
			if _, err := s.db.Exec(stmt); err != nil {
				return err
			}
		}
	}

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// Close closes the underlying database.
func (s *ChatStateStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// SaveSummaries replaces the cached conversation list for a user.
func (s *ChatStateStore) SaveSummaries(userID string, summaries []model.Summary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM conversations WHERE user_id = ?", userID); err != nil {
		return err
	}

	for _, sum := range summaries {
		_, err := tx.Exec(
			"INSERT INTO conversations (user_id, id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			userID, sum.ID, sum.Title, formatTime(sum.CreatedAt), formatTime(sum.UpdatedAt),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSummaries returns the cached conversation list for a user,
// most recently updated first. An empty cache yields an empty slice.
func (s *ChatStateStore) LoadSummaries(userID string) ([]model.Summary, error) {
	rows, err := s.db.Query(
		"SELECT id, title, created_at, updated_at FROM conversations WHERE user_id = ? ORDER BY updated_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.Summary
	for rows.Next() {
		var sum model.Summary
		var created, updated string
		if err := rows.Scan(&sum.ID, &sum.Title, &created, &updated); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if sum.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// =============================================================================
// MESSAGE HISTORY
// =============================================================================

// SaveMessages replaces the cached history of one conversation.
func (s *ChatStateStore) SaveMessages(conversationID string, msgs []model.Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", conversationID); err != nil {
		return err
	}

	for _, msg := range msgs {
		_, err := tx.Exec(
			"INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
			msg.ID, conversationID, string(msg.Role), msg.Content, formatTime(msg.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadMessages returns the cached history of one conversation in
// ascending timestamp order.
func (s *ChatStateStore) LoadMessages(conversationID string) ([]model.Message, error) {
	rows, err := s.db.Query(
		"SELECT id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, rowid ASC",
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var msg model.Message
		var role, created string
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &created); err != nil {
			return nil, err
		}
		msg.ConversationID = conversationID
		msg.Role = model.ParseRole(role)
		if msg.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// =============================================================================
// ACTIVE CONVERSATION
// =============================================================================

// SetActiveConversation remembers which conversation a user last had open.
func (s *ChatStateStore) SetActiveConversation(userID, conversationID string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (user_id, active_conversation_id) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET active_conversation_id = excluded.active_conversation_id`,
		userID, conversationID,
	)
	return err
}

// ActiveConversation returns the user's last open conversation, or ""
// when none was recorded.
func (s *ChatStateStore) ActiveConversation(userID string) (string, error) {
	var id string
	err := s.db.QueryRow(
		"SELECT active_conversation_id FROM app_state WHERE user_id = ?", userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// =============================================================================
// PURGE
// =============================================================================

// Purge removes everything cached for a user. Logout calls this so no
// conversation content outlives the session on disk.
func (s *ChatStateStore) Purge(userID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		"DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE user_id = ?)",
		"DELETE FROM conversations WHERE user_id = ?",
		"DELETE FROM app_state WHERE user_id = ?",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, userID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// =============================================================================
// TIME ENCODING
// =============================================================================

// timeLayout is fixed-width UTC so lexical ordering in SQL matches
// chronological ordering. RFC3339Nano would trim trailing zeros and
// break that property.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
