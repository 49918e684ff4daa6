// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/config"
	"github.com/soaringjerry/dreamhub-tui/internal/session"
)

// memRepo is an in-memory session repository.
type memRepo struct {
	state *session.State
}

func (r *memRepo) Load() (*session.State, error) { return r.state, nil }
func (r *memRepo) Save(s session.State) error    { r.state = &s; return nil }
func (r *memRepo) Clear() error                  { r.state = nil; return nil }

type testApp struct {
	app *App
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestApp(t *testing.T, handler http.Handler, authed bool) *testApp {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL)
	repo := &memRepo{}
	if authed {
		repo.state = &session.State{
			Token: "test-token",
			User:  api.User{ID: "user-1", Username: "alice"},
		}
	}
	sess := session.NewManager(client, repo)
	if authed {
		require.True(t, sess.Restore())
	}

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &testApp{
		app: &App{
			Client:  client,
			Session: sess,
			Config:  config.Default(),
			In:      strings.NewReader(""),
			Out:     out,
			ErrOut:  errOut,
		},
		out: out,
		err: errOut,
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser(t *testing.T) {
	parser := NewArgParser([]string{"set", "lang", "go", "--wait", "--lines", "50", "--since=2024-01-01", "--json=false"})

	assert.Equal(t, "set", parser.Subcommand())
	assert.Equal(t, "lang", parser.Positional(1))
	assert.Equal(t, "go", parser.Positional(2))
	assert.Equal(t, 3, parser.PositionalCount())
	assert.True(t, parser.BoolFlag("wait"))
	assert.Equal(t, "50", parser.Flag("lines"))
	assert.Equal(t, "2024-01-01", parser.Flag("since"))
	assert.False(t, parser.BoolFlag("json"))
	assert.Equal(t, "", parser.Positional(9))
}

func TestArgParserEmpty(t *testing.T) {
	parser := NewArgParser(nil)
	assert.Equal(t, "", parser.Subcommand())
	assert.Equal(t, 0, parser.PositionalCount())
	assert.False(t, parser.BoolFlag("anything"))
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"auth failed", api.ErrAuthFailed, ExitAuthError},
		{"unauthorized", api.ErrUnauthorized, ExitAuthError},
		{"network", api.ErrNetwork, ExitNetworkError},
		{"not found", api.ErrNotFound, ExitNotFoundError},
		{"other", assert.AnError, ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

// =============================================================================
// DISPATCH
// =============================================================================

func TestUnknownCommand(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), false)
	code := ta.app.Run([]string{"frobnicate"})
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, ta.err.String(), "unknown command")
}

func TestHelpPrintsUsage(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), false)
	code := ta.app.Run([]string{"help"})
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, ta.out.String(), "Usage:")
}

func TestVersionCommand(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), false)
	code := ta.app.Run([]string{"version"})
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, ta.out.String(), Version)
}

func TestListRequiresSession(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), false)
	code := ta.app.Run([]string{"list"})
	assert.Equal(t, ExitAuthError, code)
	assert.Contains(t, ta.err.String(), "not signed in")
}

// =============================================================================
// COMMANDS AGAINST A FAKE SERVER
// =============================================================================

func TestLoginReadsCredentialsFromStdin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user":  map[string]string{"id": "user-1", "username": "alice"},
		})
	})

	ta := newTestApp(t, mux, false)
	ta.app.In = strings.NewReader("alice\nsecret-password\n")

	code := ta.app.Run([]string{"login"})
	assert.Equal(t, ExitSuccess, code, ta.err.String())
	assert.Contains(t, ta.out.String(), "signed in as alice")
	assert.True(t, ta.app.Session.IsAuthenticated())
}

func TestWhoami(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), true)
	code := ta.app.Run([]string{"whoami"})
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, ta.out.String(), "alice")
	assert.Contains(t, ta.out.String(), "user-1")
}

func TestMemorySetFallsBackToUpdate(t *testing.T) {
	var updated bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/memory/structured", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "duplicate key"})
	})
	mux.HandleFunc("/api/v1/memory/structured/lang", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		updated = true
		json.NewEncoder(w).Encode(map[string]string{"key": "lang", "value": "go"})
	})

	ta := newTestApp(t, mux, true)
	code := ta.app.Run([]string{"memory", "set", "lang", "go"})
	assert.Equal(t, ExitSuccess, code, ta.err.String())
	assert.True(t, updated)
	assert.Contains(t, ta.out.String(), "lang saved")
}

func TestMemorySetUsage(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), true)
	code := ta.app.Run([]string{"memory", "set", "lang"})
	assert.Equal(t, ExitUsageError, code)
}

func TestDocsList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "doc-1", "original_filename": "notes.pdf", "processing_status": "completed"},
		})
	})

	ta := newTestApp(t, mux, true)
	code := ta.app.Run([]string{"docs", "list"})
	assert.Equal(t, ExitSuccess, code, ta.err.String())
	assert.Contains(t, ta.out.String(), "notes.pdf")
}

func TestUploadMissingFile(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), true)
	code := ta.app.Run([]string{"upload", "/does/not/exist.txt"})
	assert.Equal(t, ExitGeneralError, code)
}

func TestUploadRequiresPath(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), true)
	code := ta.app.Run([]string{"upload"})
	assert.Equal(t, ExitUsageError, code)
}
