// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"strings"
	"time"

	"github.com/soaringjerry/dreamhub-tui/internal/util"
)

// TitleMaxRunes is the length titles derived from the first user
// message are truncated to.
const TitleMaxRunes = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a chat conversation with its ordered history.
// The ID is server-assigned and opaque to the client.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages"`
}

// NewConversation creates a conversation shell for a server-assigned ID.
func NewConversation(id string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage inserts a message keeping the history sorted ascending by
// creation time. Inserting a message whose ID is already present is a
// no-op, so replaying a fetch result cannot duplicate history.
// Returns true if the message was inserted.
func (c *Conversation) AddMessage(msg Message) bool {
	for _, existing := range c.Messages {
		if existing.ID == msg.ID {
			return false
		}
	}

	// Find the insertion point. Equal timestamps keep arrival order so
	// a user turn stays ahead of the assistant reply it triggered.
	idx := sort.Search(len(c.Messages), func(i int) bool {
		return c.Messages[i].CreatedAt.After(msg.CreatedAt)
	})

	c.Messages = append(c.Messages, Message{})
	copy(c.Messages[idx+1:], c.Messages[idx:])
	c.Messages[idx] = msg

	if msg.CreatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = msg.CreatedAt
	}
	c.deriveTitle()
	return true
}

// ReplaceMessages swaps the full history for a server fetch result,
// re-establishing the ordering and uniqueness invariants.
func (c *Conversation) ReplaceMessages(msgs []Message) {
	c.Messages = make([]Message, 0, len(msgs))
	for _, m := range msgs {
		c.AddMessage(m)
	}
}

// LastMessage returns the most recent message, or a zero Message and
// false when the history is empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// deriveTitle sets the title from the first user message if unset.
func (c *Conversation) deriveTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			c.Title = util.TruncateRunes(util.CollapseWhitespace(msg.Content), TitleMaxRunes)
			return
		}
	}
}

// SetTitle renames the conversation. Empty or whitespace-only titles
// are ignored so a rename can never blank the list entry.
func (c *Conversation) SetTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	c.Title = title
	c.UpdatedAt = time.Now()
	return true
}

// DisplayTitle returns the title or a default for untitled conversations.
func (c *Conversation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// Clone returns a deep copy safe to hand to the view layer.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  make([]Message, len(c.Messages)),
	}
	copy(clone.Messages, c.Messages)
	return clone
}

// =============================================================================
// SUMMARY TYPE
// =============================================================================

// Summary is the lightweight listing shape returned by the backend's
// conversation index and used by the sidebar.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayTitle returns the title or a default for untitled
// conversations.
func (s Summary) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return "New Conversation"
}

// SortSummaries orders summaries most recently updated first.
func SortSummaries(s []Summary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].UpdatedAt.After(s[j].UpdatedAt)
	})
}
