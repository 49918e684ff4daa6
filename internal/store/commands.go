// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"io"
	"strings"

	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// FetchConversations refreshes the registry from the backend. On
// failure the previous registry stays intact and only the list-level
// error is set. A response superseded by a newer fetch is discarded.
func (s *Store) FetchConversations(ctx context.Context) error {
	s.mu.Lock()
	s.listGen++
	gen := s.listGen
	s.listStatus.IsLoading = true
	s.listStatus.Error = ""
	userID := s.userID
	s.mu.Unlock()

	summaries, err := s.backend.ListConversations(ctx)

	s.mu.Lock()
	if gen != s.listGen {
		s.mu.Unlock()
		return nil
	}
	s.listStatus.IsLoading = false
	if err != nil {
		s.listStatus.Error = err.Error()
		s.mu.Unlock()
		return err
	}
	s.applySummaries(summaries)
	s.mu.Unlock()

	s.saveListToCache(userID, summaries)
	return nil
}

// =============================================================================
// ACTIVE CONVERSATION
// =============================================================================

// SwitchConversation makes a conversation active. Switching to the
// already-active conversation is a no-op; switching to an unknown ID
// deactivates instead of failing, since the list may simply be stale.
// The returned flag tells the caller to fetch history: true exactly
// when this conversation's messages have not been loaded yet.
func (s *Store) SwitchConversation(id string) (needsFetch bool) {
	s.mu.Lock()

	if current, ok := s.active.ID(); ok && current == id {
		s.mu.Unlock()
		return false
	}

	if _, known := s.conversations[id]; !known {
		s.active = model.NoConversation
		s.mu.Unlock()
		return false
	}

	s.active = model.PersistedConversation(id)
	needsFetch = !s.statusFor(id).HasLoadedMessages
	userID := s.userID
	s.mu.Unlock()

	s.rememberActive(userID, id)
	return needsFetch
}

// StartNewConversation makes the draft conversation active. Nothing is
// registered until the first message is sent and the backend assigns
// an identity.
func (s *Store) StartNewConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = model.PendingConversation()
	s.pendingStatus = model.Status{}
}

// DeleteConversation removes a conversation from local state only; the
// backend keeps it and a later list refresh will bring it back. When
// the active conversation is deleted, the most recently updated
// remaining conversation becomes active, or none when the list is empty.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()

	if _, ok := s.conversations[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.conversations, id)
	delete(s.status, id)
	delete(s.msgGen, id)

	wasActive := false
	if activeID, ok := s.active.ID(); ok && activeID == id {
		wasActive = true
	}

	nextID := ""
	if wasActive {
		s.active = model.NoConversation
		var latest *model.Conversation
		for _, conv := range s.conversations {
			if latest == nil || conv.UpdatedAt.After(latest.UpdatedAt) {
				latest = conv
			}
		}
		if latest != nil {
			s.active = model.PersistedConversation(latest.ID)
			nextID = latest.ID
		}
	}
	userID := s.userID
	s.mu.Unlock()

	if wasActive {
		s.rememberActive(userID, nextID)
	}
}

// RenameConversation sets a local title override. Blank titles are
// ignored; the backend never learns about renames.
func (s *Store) RenameConversation(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[id]; ok {
		conv.SetTitle(title)
	}
}

// =============================================================================
// MESSAGE HISTORY
// =============================================================================

// FetchMessages loads one conversation's full history and replaces the
// local copy. Stale responses, and responses for conversations removed
// meanwhile, are discarded.
func (s *Store) FetchMessages(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.conversations[id]; !ok {
		s.mu.Unlock()
		return nil
	}
	s.msgGen[id]++
	gen := s.msgGen[id]
	st := s.statusFor(id)
	st.IsLoading = true
	st.Error = ""
	s.mu.Unlock()

	msgs, err := s.backend.GetMessages(ctx, id)

	s.mu.Lock()
	conv, ok := s.conversations[id]
	if !ok || gen != s.msgGen[id] {
		s.mu.Unlock()
		return nil
	}
	st = s.statusFor(id)
	st.IsLoading = false
	if err != nil {
		st.Error = err.Error()
		s.mu.Unlock()
		return err
	}
	conv.ReplaceMessages(msgs)
	st.HasLoadedMessages = true
	s.mu.Unlock()

	s.saveMessagesToCache(id, msgs)
	return nil
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

// SendMessage submits user input to the active conversation. A pending
// (or absent) active conversation sends without an ID and adopts the
// identity the backend assigns, then refreshes the list and fetches
// the authoritative history. A persisted conversation refetches its
// history after the send rather than appending a local echo, so the
// transcript always matches the server.
func (s *Store) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	targetID, _ := s.active.ID()
	st := s.activeStatusLocked()
	st.IsLoading = true
	st.Error = ""
	s.mu.Unlock()

	resp, err := s.backend.SendMessage(ctx, text, targetID)

	if err != nil {
		s.mu.Lock()
		st := s.activeStatusLocked()
		st.IsLoading = false
		st.Error = err.Error()
		// With nothing active there is no conversation slot the view
		// reads, so the failure surfaces on the list instead.
		if s.active.IsNone() {
			s.listStatus.Error = err.Error()
		}
		s.mu.Unlock()
		return err
	}

	if targetID == "" {
		// First message of a new conversation: adopt the server ID.
		s.mu.Lock()
		id := resp.ConversationID
		if _, ok := s.conversations[id]; !ok {
			s.conversations[id] = model.NewConversation(id)
		}
		s.active = model.PersistedConversation(id)
		s.pendingStatus = model.Status{}
		userID := s.userID
		s.mu.Unlock()

		s.rememberActive(userID, id)
		if err := s.FetchConversations(ctx); err != nil {
			// The send itself succeeded; the list will catch up on the
			// next refresh.
			err = nil
		}
		// The refresh may have raced a deletion; only fetch history if
		// the conversation is still registered.
		s.mu.Lock()
		_, stillThere := s.conversations[id]
		if !stillThere {
			s.conversations[id] = model.NewConversation(id)
			s.active = model.PersistedConversation(id)
			stillThere = true
		}
		s.mu.Unlock()
		targetID = id
	}

	fetchErr := s.FetchMessages(ctx, targetID)

	s.mu.Lock()
	if st, ok := s.status[targetID]; ok {
		st.IsLoading = false
	}
	s.mu.Unlock()

	return fetchErr
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// UploadFile submits one file for ingestion. Upload state is global:
// one flag and one error slot, matching the single-file upload flow.
// On success the file is recorded under its processing task ID and the
// active conversation's history is refetched so any server-side system
// note shows up. On failure the error is also mirrored onto the active
// conversation so the transcript view surfaces it.
func (s *Store) UploadFile(ctx context.Context, filename string, size int64, r io.Reader) error {
	s.mu.Lock()
	if s.isUploading {
		s.mu.Unlock()
		return ErrUploadInProgress
	}
	s.isUploading = true
	s.uploadError = ""
	s.mu.Unlock()

	resp, err := s.backend.UploadFile(ctx, filename, size, r)

	s.mu.Lock()
	s.isUploading = false
	if err != nil {
		s.uploadError = err.Error()
		s.activeStatusLocked().Error = err.Error()
		s.mu.Unlock()
		return err
	}
	// Append unconditionally: re-uploading the same file starts a new
	// processing task whose ID must be kept. Name+size duplicate
	// detection stays advisory (HasUpload), never a filter.
	s.uploads = append(s.uploads, model.UploadedFile{
		Name:   filename,
		Size:   size,
		TaskID: resp.TaskID,
	})
	activeID, hasActive := s.active.ID()
	s.mu.Unlock()

	if hasActive {
		return s.FetchMessages(ctx, activeID)
	}
	return nil
}
