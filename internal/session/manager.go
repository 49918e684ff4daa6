// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"
	"sync"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
)

// =============================================================================
// REPOSITORY
// =============================================================================

// State is the persisted session snapshot.
type State struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Repository stores one session snapshot durably. Load returns
// (nil, nil) when no session is stored.
type Repository interface {
	Load() (*State, error)
	Save(State) error
	Clear() error
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager holds the current authentication state. All methods are safe
// for concurrent use; callbacks run outside the lock.
type Manager struct {
	mu sync.Mutex

	client *api.Client
	repo   Repository

	token string
	user  *api.User

	// onLogout receives true when the logout was forced by the backend
	// rejecting the token, false when the user asked for it.
	onLogout func(forced bool)
}

// NewManager wires a session manager to the API client: the client
// reads the bearer token from the manager at send time, and a 401 on
// any authenticated endpoint forces a logout here.
func NewManager(client *api.Client, repo Repository) *Manager {
	m := &Manager{
		client: client,
		repo:   repo,
	}
	client.SetTokenProvider(m.Token)
	client.SetUnauthorizedHook(m.HandleUnauthorized)
	return m
}

// SetLogoutCallback registers the function called after every logout,
// voluntary or forced. The UI uses it to fall back to the login view.
func (m *Manager) SetLogoutCallback(fn func(forced bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = fn
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// Token returns the current bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the authenticated user, or nil when logged out.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Restore loads a previously persisted session, if any. A missing or
// unreadable snapshot leaves the manager logged out without error;
// token validity is only discovered on the first authenticated call.
func (m *Manager) Restore() bool {
	state, err := m.repo.Load()
	if err != nil {
		log.Printf("session: failed to restore: %v", err)
		return false
	}
	if state == nil || state.Token == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = state.Token
	user := state.User
	m.user = &user
	return true
}

// Login authenticates against the backend and persists the session.
func (m *Manager) Login(ctx context.Context, username, password string) (*api.User, error) {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.token = resp.Token
	user := resp.User
	m.user = &user
	m.mu.Unlock()

	if err := m.repo.Save(State{Token: resp.Token, User: resp.User}); err != nil {
		// The in-memory session still works; only persistence failed.
		log.Printf("session: failed to persist: %v", err)
	}

	return &resp.User, nil
}

// Register creates an account. It does not start a session; callers
// log in afterwards.
func (m *Manager) Register(ctx context.Context, username, password string) (*api.User, error) {
	return m.client.Register(ctx, username, password)
}

// Logout ends the session at the user's request.
func (m *Manager) Logout() {
	m.clear(false)
}

// HandleUnauthorized is the API client's 401 hook: the backend
// rejected the token, so the session is gone regardless of which
// action noticed first. Repeated calls after the first are no-ops.
func (m *Manager) HandleUnauthorized() {
	m.clear(true)
}

// clear drops the session state and notifies outside the lock.
func (m *Manager) clear(forced bool) {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return
	}
	m.token = ""
	m.user = nil
	onLogout := m.onLogout
	m.mu.Unlock()

	if err := m.repo.Clear(); err != nil {
		log.Printf("session: failed to clear persisted session: %v", err)
	}

	if onLogout != nil {
		onLogout(forced)
	}
}
