// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// newTestClient points a client at a test server with retries disabled
// unless the test needs them.
func newTestClient(ts *httptest.Server) *Client {
	return NewClient(ts.URL).WithMaxRetries(1)
}

func TestLogin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))

		var creds credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice", creds.Username)

		json.NewEncoder(w).Encode(LoginResponse{
			Token: "tok-123",
			User:  User{ID: "u1", Username: "alice"},
		})
	}))
	defer ts.Close()

	resp, err := newTestClient(ts).Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestLoginBadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer ts.Close()

	client := newTestClient(ts)
	hookFired := false
	client.SetUnauthorizedHook(func() { hookFired = true })

	_, err := client.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.Contains(t, err.Error(), "invalid credentials")
	// A rejected login is not an expired session.
	assert.False(t, hookFired)
}

func TestRegisterConflict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"username already exists"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Register(context.Background(), "alice", "secret")
	require.ErrorIs(t, err, ErrConflict)
}

func TestBearerTokenInjection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := newTestClient(ts)
	client.SetTokenProvider(func() string { return "tok-abc" })

	_, err := client.ListConversations(context.Background())
	require.NoError(t, err)
}

func TestUnauthorizedHookFires(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer ts.Close()

	client := newTestClient(ts)
	client.SetTokenProvider(func() string { return "stale" })
	var fired int
	client.SetUnauthorizedHook(func() { fired++ })

	_, err := client.ListConversations(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, fired)
}

func TestGetMessagesNormalizesRoles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/chat/conv-1/messages", r.URL.Path)
		w.Write([]byte(`[
			{"id":"m1","conversation_id":"conv-1","sender_role":"user","content":"hi","timestamp":"2025-01-01T10:00:00Z"},
			{"id":"m2","conversation_id":"conv-1","sender_role":"ai","content":"hello","timestamp":"2025-01-01T10:00:05Z"}
		]`))
	}))
	defer ts.Close()

	msgs, err := newTestClient(ts).GetMessages(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestSendMessageNewConversation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// A new conversation must not send a conversation_id at all.
		_, present := req["conversation_id"]
		assert.False(t, present)

		json.NewEncoder(w).Encode(ChatResponse{ConversationID: "conv-new", Reply: "sure"})
	}))
	defer ts.Close()

	resp, err := newTestClient(ts).SendMessage(context.Background(), "help me", "")
	require.NoError(t, err)
	assert.Equal(t, "conv-new", resp.ConversationID)
	assert.Equal(t, "sure", resp.Reply)
}

func TestUploadFileMultipart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "notes.txt", header.Filename)

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(UploadResponse{
			Message:  "accepted",
			Filename: "notes.txt",
			DocID:    "doc-1",
			TaskID:   "task-1",
		})
	}))
	defer ts.Close()

	content := "some notes"
	resp, err := newTestClient(ts).UploadFile(context.Background(), "notes.txt", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "task-1", resp.TaskID)
	assert.Equal(t, "doc-1", resp.DocID)
}

func TestUploadFileTooLarge(t *testing.T) {
	client := NewClient("http://unused")
	_, err := client.UploadFile(context.Background(), "big.bin", MaxUploadSize+1, strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestUpdateUserConfigPartial(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// Only the model name changes; unset fields stay off the wire.
		assert.Equal(t, "gpt-4o", req["model_name"])
		_, hasEndpoint := req["api_endpoint"]
		assert.False(t, hasEndpoint)
		_, hasKey := req["api_key"]
		assert.False(t, hasKey)

		name := "gpt-4o"
		json.NewEncoder(w).Encode(UserConfig{ModelName: &name, APIKeyIsSet: true})
	}))
	defer ts.Close()

	name := "gpt-4o"
	cfg, err := newTestClient(ts).UpdateUserConfig(context.Background(), UserConfigUpdate{ModelName: &name})
	require.NoError(t, err)
	require.NotNil(t, cfg.ModelName)
	assert.Equal(t, "gpt-4o", *cfg.ModelName)
	assert.True(t, cfg.APIKeyIsSet)
}

func TestMemoryDuplicateKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"code":"DUPLICATE_KEY","message":"key already exists"}}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).CreateMemory(context.Background(), "city", "Paris")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "key already exists")
}

func TestNotFoundMapping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such document"}`))
	}))
	defer ts.Close()

	err := newTestClient(ts).DeleteDocument(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL).WithMaxRetries(2)
	_, err := client.ListConversations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"message is required"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL).WithMaxRetries(3)
	_, err := client.SendMessage(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestErrorEnvelopeShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"flat string error", `{"error":"plain failure"}`, "plain failure"},
		{"nested object error", `{"error":{"code":"X","message":"nested failure"}}`, "nested failure"},
		{"top-level message", `{"message":"top failure"}`, "top failure"},
		{"non-json body", `gateway exploded`, "gateway exploded"},
		{"empty body", ``, http.StatusText(http.StatusBadRequest)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			err := newTestClient(ts).deleteJSON(context.Background(), "/documents/x", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://unused").ListConversations(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
