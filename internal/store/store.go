// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

var (
	// ErrEmptyMessage rejects blank input before any network call.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrUploadInProgress rejects a second upload while one is running;
	// the upload flow is deliberately single-file.
	ErrUploadInProgress = errors.New("an upload is already in progress")
)

// Backend is the slice of the API client the store drives. Declared
// here so tests can script responses without a server.
type Backend interface {
	ListConversations(ctx context.Context) ([]model.Summary, error)
	GetMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	SendMessage(ctx context.Context, message, conversationID string) (*api.ChatResponse, error)
	UploadFile(ctx context.Context, filename string, size int64, r io.Reader) (*api.UploadResponse, error)
}

// Cache persists fetched state locally so the next startup renders
// before the first network round trip. All writes are best-effort.
type Cache interface {
	SaveSummaries(userID string, summaries []model.Summary) error
	LoadSummaries(userID string) ([]model.Summary, error)
	SaveMessages(conversationID string, msgs []model.Message) error
	LoadMessages(conversationID string) ([]model.Message, error)
	SetActiveConversation(userID, conversationID string) error
	ActiveConversation(userID string) (string, error)
	Purge(userID string) error
}

// =============================================================================
// STORE
// =============================================================================

// Store is the conversation session state. The zero value is not
// usable; construct with New.
type Store struct {
	mu sync.Mutex

	backend Backend
	cache   Cache // may be nil
	userID  string

	conversations map[string]*model.Conversation
	active        model.ConversationRef

	// status tracks persisted conversations by ID; pendingStatus covers
	// the draft conversation that has no server identity yet.
	status        map[string]*model.Status
	pendingStatus model.Status
	listStatus    model.Status

	uploads     []model.UploadedFile
	isUploading bool
	uploadError string

	// Generation counters discard responses that were superseded by a
	// newer fetch while in flight.
	listGen int64
	msgGen  map[string]int64
}

// New creates an empty store. cache may be nil to disable local
// persistence.
func New(backend Backend, cache Cache) *Store {
	return &Store{
		backend:       backend,
		cache:         cache,
		conversations: make(map[string]*model.Conversation),
		status:        make(map[string]*model.Status),
		msgGen:        make(map[string]int64),
	}
}

// SetUser binds the store to an authenticated user so cached state is
// kept per account.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// Reset drops all session state. Called on logout so nothing leaks
// into the next session; the per-user cache rows are purged too.
func (s *Store) Reset() {
	s.mu.Lock()
	userID := s.userID
	s.userID = ""
	s.conversations = make(map[string]*model.Conversation)
	s.active = model.NoConversation
	s.status = make(map[string]*model.Status)
	s.pendingStatus = model.Status{}
	s.listStatus = model.Status{}
	s.uploads = nil
	s.isUploading = false
	s.uploadError = ""
	s.listGen++
	s.msgGen = make(map[string]int64)
	s.mu.Unlock()

	if s.cache != nil && userID != "" {
		if err := s.cache.Purge(userID); err != nil {
			log.Printf("store: failed to purge cache: %v", err)
		}
	}
}

// Hydrate loads cached conversation state for the bound user. The
// cache is never authoritative: HasLoadedMessages stays false so the
// first switch to any conversation still refetches from the backend.
func (s *Store) Hydrate() {
	s.mu.Lock()
	cache, userID := s.cache, s.userID
	s.mu.Unlock()
	if cache == nil || userID == "" {
		return
	}

	summaries, err := cache.LoadSummaries(userID)
	if err != nil {
		log.Printf("store: failed to load cached conversations: %v", err)
		return
	}
	activeID, err := cache.ActiveConversation(userID)
	if err != nil {
		log.Printf("store: failed to load cached active conversation: %v", err)
		activeID = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sum := range summaries {
		if _, ok := s.conversations[sum.ID]; ok {
			continue
		}
		conv := model.NewConversation(sum.ID)
		conv.Title = sum.Title
		conv.CreatedAt = sum.CreatedAt
		conv.UpdatedAt = sum.UpdatedAt
		s.conversations[sum.ID] = conv
	}
	if _, ok := s.conversations[activeID]; ok {
		s.active = model.PersistedConversation(activeID)
	}
}

// =============================================================================
// INTERNAL HELPERS (callers hold s.mu)
// =============================================================================

// statusFor returns the mutable status record for a conversation,
// creating it on first use.
func (s *Store) statusFor(id string) *model.Status {
	st, ok := s.status[id]
	if !ok {
		st = &model.Status{}
		s.status[id] = st
	}
	return st
}

// activeStatusLocked returns the status record the active ref resolves
// to: the pending draft's record when no server identity exists yet.
func (s *Store) activeStatusLocked() *model.Status {
	if id, ok := s.active.ID(); ok {
		return s.statusFor(id)
	}
	return &s.pendingStatus
}

// applySummaries refreshes the registry from a fetched list. Known
// conversations keep their loaded messages; conversations absent from
// the backend list are dropped, and the active ref resets to none when
// its conversation disappears.
func (s *Store) applySummaries(summaries []model.Summary) {
	seen := make(map[string]bool, len(summaries))
	for _, sum := range summaries {
		seen[sum.ID] = true
		conv, ok := s.conversations[sum.ID]
		if !ok {
			conv = model.NewConversation(sum.ID)
			conv.UpdatedAt = sum.UpdatedAt
			s.conversations[sum.ID] = conv
		}
		if sum.Title != "" {
			conv.Title = sum.Title
		}
		conv.CreatedAt = sum.CreatedAt
		if sum.UpdatedAt.After(conv.UpdatedAt) {
			conv.UpdatedAt = sum.UpdatedAt
		}
	}

	for id := range s.conversations {
		if !seen[id] {
			delete(s.conversations, id)
			delete(s.status, id)
			delete(s.msgGen, id)
		}
	}

	if id, ok := s.active.ID(); ok {
		if _, exists := s.conversations[id]; !exists {
			s.active = model.NoConversation
		}
	}
}

// saveListToCache mirrors the registry to the local cache.
// Best-effort; call without holding s.mu.
func (s *Store) saveListToCache(userID string, summaries []model.Summary) {
	if s.cache == nil || userID == "" {
		return
	}
	if err := s.cache.SaveSummaries(userID, summaries); err != nil {
		log.Printf("store: failed to cache conversation list: %v", err)
	}
}

// saveMessagesToCache mirrors one history to the local cache.
// Best-effort; call without holding s.mu.
func (s *Store) saveMessagesToCache(conversationID string, msgs []model.Message) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveMessages(conversationID, msgs); err != nil {
		log.Printf("store: failed to cache messages: %v", err)
	}
}

// rememberActive records the active conversation in the cache.
// Best-effort; call without holding s.mu.
func (s *Store) rememberActive(userID, conversationID string) {
	if s.cache == nil || userID == "" {
		return
	}
	if err := s.cache.SetActiveConversation(userID, conversationID); err != nil {
		log.Printf("store: failed to cache active conversation: %v", err)
	}
}
