// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// =============================================================================
// READ-ONLY PROJECTIONS
// =============================================================================

// Snapshot is a consistent copy of the list-level view state, taken
// under one lock acquisition so the view never renders a half-applied
// update.
type Snapshot struct {
	Conversations []model.Summary
	Active        model.ConversationRef
	ListStatus    model.Status
	IsUploading   bool
	UploadError   string
	Uploads       []model.UploadedFile
}

// Snapshot returns the current list-level view state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Conversations: s.sortedSummariesLocked(),
		Active:        s.active,
		ListStatus:    s.listStatus,
		IsUploading:   s.isUploading,
		UploadError:   s.uploadError,
		Uploads:       append([]model.UploadedFile(nil), s.uploads...),
	}
}

// Active returns the active conversation ref.
func (s *Store) Active() model.ConversationRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveMessages returns a copy of the active conversation's ordered
// transcript. Pending and absent conversations have no messages.
func (s *Store) ActiveMessages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.active.ID()
	if !ok {
		return nil
	}
	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	return append([]model.Message(nil), conv.Messages...)
}

// ActiveStatus returns the status flags the transcript view renders
// for the active conversation. A pending draft reports its own status;
// no active conversation reports the zero value.
func (s *Store) ActiveStatus() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.active.ID(); ok {
		if st, recorded := s.status[id]; recorded {
			return *st
		}
		return model.Status{}
	}
	if s.active.IsPending() {
		return s.pendingStatus
	}
	return model.Status{}
}

// ActiveTitle returns the display title of the active conversation,
// or "" when none is active.
func (s *Store) ActiveTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.active.ID()
	if !ok {
		if s.active.IsPending() {
			return "New conversation"
		}
		return ""
	}
	if conv, exists := s.conversations[id]; exists {
		return conv.DisplayTitle()
	}
	return ""
}

// SortedConversations returns summaries ordered most recently updated
// first.
func (s *Store) SortedConversations() []model.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSummariesLocked()
}

// Uploads returns a copy of the recorded upload history.
func (s *Store) Uploads() []model.UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.UploadedFile(nil), s.uploads...)
}

// HasUpload reports whether a file with the same name and size was
// already uploaded this session. Advisory; the UI warns but may
// proceed.
func (s *Store) HasUpload(name string, size int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.IsDuplicate(s.uploads, name, size)
}

// sortedSummariesLocked builds the summary list; caller holds s.mu.
func (s *Store) sortedSummariesLocked() []model.Summary {
	summaries := make([]model.Summary, 0, len(s.conversations))
	for _, conv := range s.conversations {
		summaries = append(summaries, model.Summary{
			ID:        conv.ID,
			Title:     conv.DisplayTitle(),
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		})
	}
	model.SortSummaries(summaries)
	return summaries
}
