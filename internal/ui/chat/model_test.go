// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/config"
	"github.com/soaringjerry/dreamhub-tui/internal/model"
	"github.com/soaringjerry/dreamhub-tui/internal/session"
	"github.com/soaringjerry/dreamhub-tui/internal/store"
)

// stubBackend satisfies store.Backend with canned empty responses.
type stubBackend struct{}

func (stubBackend) ListConversations(context.Context) ([]model.Summary, error) {
	return nil, nil
}

func (stubBackend) GetMessages(context.Context, string) ([]model.Message, error) {
	return nil, nil
}

func (stubBackend) SendMessage(context.Context, string, string) (*api.ChatResponse, error) {
	return &api.ChatResponse{}, nil
}

func (stubBackend) UploadFile(context.Context, string, int64, io.Reader) (*api.UploadResponse, error) {
	return &api.UploadResponse{}, nil
}

// nilRepo is a session repository with no persisted state.
type nilRepo struct{}

func (nilRepo) Load() (*session.State, error) { return nil, nil }
func (nilRepo) Save(session.State) error      { return nil }
func (nilRepo) Clear() error                  { return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	client := api.NewClient("http://localhost:1")
	sess := session.NewManager(client, nilRepo{})
	st := store.New(stubBackend{}, nil)
	return New(st, sess, config.Default())
}

func TestStartsOnLoginWithoutSession(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, viewLogin, m.view)
}

func TestLoginSuccessEntersChat(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(loggedInMsg{err: nil})
	got, ok := next.(Model)
	require.True(t, ok)
	assert.Equal(t, viewChat, got.view)
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(loggedInMsg{err: api.ErrAuthFailed})
	got := next.(Model)
	assert.Equal(t, viewLogin, got.view)
}

func TestForcedLogoutReturnsToLogin(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(loggedInMsg{err: nil})
	m = next.(Model)
	require.Equal(t, viewChat, m.view)

	next, _ = m.Update(LoggedOutMsg{Forced: true})
	m = next.(Model)
	assert.Equal(t, viewLogin, m.view)
}

func TestWindowSizeMakesChatReady(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(loggedInMsg{err: nil})
	m = next.(Model)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	assert.True(t, m.ready)
	assert.NotEmpty(t, m.View())
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLoginErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"bad credentials", api.ErrAuthFailed, "invalid username or password"},
		{"taken username", api.ErrConflict, "that username is already taken"},
		{"unreachable", api.ErrNetwork, "cannot reach the server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loginErrorText(tt.err))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 20, clamp(10, 20, 36))
	assert.Equal(t, 36, clamp(50, 20, 36))
	assert.Equal(t, 25, clamp(25, 20, 36))
}
