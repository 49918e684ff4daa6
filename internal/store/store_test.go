// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

// fakeBackend scripts API responses for store tests.
type fakeBackend struct {
	mu sync.Mutex

	summaries []model.Summary
	listErr   error
	onList    func(call int) ([]model.Summary, error)

	messages map[string][]model.Message
	msgErr   error

	sendResp *api.ChatResponse
	sendErr  error

	uploadResp *api.UploadResponse
	uploadErr  error

	listCalls   int
	msgCalls    int
	sendCalls   int
	uploadCalls int
}

func (f *fakeBackend) ListConversations(ctx context.Context) ([]model.Summary, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	onList := f.onList
	summaries := append([]model.Summary(nil), f.summaries...)
	err := f.listErr
	f.mu.Unlock()

	if onList != nil {
		return onList(call)
	}
	return summaries, err
}

func (f *fakeBackend) GetMessages(ctx context.Context, id string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgCalls++
	if f.msgErr != nil {
		return nil, f.msgErr
	}
	return append([]model.Message(nil), f.messages[id]...), nil
}

func (f *fakeBackend) SendMessage(ctx context.Context, message, conversationID string) (*api.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	resp := *f.sendResp
	if conversationID != "" {
		resp.ConversationID = conversationID
	}
	return &resp, nil
}

func (f *fakeBackend) UploadFile(ctx context.Context, filename string, size int64, r io.Reader) (*api.UploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadResp, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func summary(id, title string, updated time.Time) model.Summary {
	return model.Summary{ID: id, Title: title, CreatedAt: updated.Add(-time.Hour), UpdatedAt: updated}
}

func message(id, convID string, role model.Role, content string, at time.Time) model.Message {
	return model.Message{ID: id, ConversationID: convID, Role: role, Content: content, CreatedAt: at}
}

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// =============================================================================
// CONVERSATION LIST
// =============================================================================

func TestFetchConversationsPopulatesRegistry(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{
		summary("c1", "Older", base),
		summary("c2", "Newer", base.Add(time.Hour)),
	}}
	st := New(fb, nil)

	require.NoError(t, st.FetchConversations(context.Background()))

	got := st.SortedConversations()
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
	assert.Equal(t, "c1", got[1].ID)
	assert.False(t, st.Snapshot().ListStatus.IsLoading)
}

func TestFetchConversationsErrorKeepsPriorState(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{summary("c1", "Kept", base)}}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))

	fb.mu.Lock()
	fb.listErr = errors.New("backend down")
	fb.mu.Unlock()

	err := st.FetchConversations(context.Background())
	require.Error(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Conversations, 1)
	assert.Equal(t, "Kept", snap.Conversations[0].Title)
	assert.Contains(t, snap.ListStatus.Error, "backend down")
	assert.False(t, snap.ListStatus.IsLoading)
}

func TestFetchConversationsDiscardsSupersededResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fb := &fakeBackend{}
	fb.onList = func(call int) ([]model.Summary, error) {
		if call == 1 {
			close(started)
			<-release
			return []model.Summary{summary("stale", "Stale", base)}, nil
		}
		return []model.Summary{summary("fresh", "Fresh", base)}, nil
	}
	st := New(fb, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		st.FetchConversations(context.Background())
	}()
	<-started

	// The second fetch supersedes the first while it is in flight.
	require.NoError(t, st.FetchConversations(context.Background()))
	close(release)
	<-done

	got := st.SortedConversations()
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].ID)
}

func TestFetchConversationsDropsVanishedActive(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{
		summary("c1", "One", base),
		summary("c2", "Two", base.Add(time.Hour)),
	}}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	fb.mu.Lock()
	fb.summaries = []model.Summary{summary("c2", "Two", base.Add(time.Hour))}
	fb.mu.Unlock()

	require.NoError(t, st.FetchConversations(context.Background()))
	assert.True(t, st.Active().IsNone())
}

// =============================================================================
// SWITCHING
// =============================================================================

func TestSwitchConversation(t *testing.T) {
	fb := &fakeBackend{
		summaries: []model.Summary{summary("c1", "One", base)},
		messages: map[string][]model.Message{
			"c1": {message("m1", "c1", model.RoleUser, "hi", base)},
		},
	}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))

	// First switch needs a history fetch.
	assert.True(t, st.SwitchConversation("c1"))
	require.NoError(t, st.FetchMessages(context.Background(), "c1"))

	// Switching to the active conversation is a no-op.
	assert.False(t, st.SwitchConversation("c1"))

	// After loading once, switching back needs no fetch.
	st.StartNewConversation()
	assert.False(t, st.SwitchConversation("c1"))
}

func TestSwitchToUnknownConversationDeactivates(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{summary("c1", "One", base)}}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	assert.False(t, st.SwitchConversation("ghost"))
	assert.True(t, st.Active().IsNone())
	assert.Empty(t, st.ActiveMessages())
}

func TestStartNewConversation(t *testing.T) {
	st := New(&fakeBackend{}, nil)
	st.StartNewConversation()

	assert.True(t, st.Active().IsPending())
	assert.Empty(t, st.ActiveMessages())
	assert.Equal(t, model.Status{}, st.ActiveStatus())
	assert.Equal(t, "New conversation", st.ActiveTitle())
}

// =============================================================================
// MESSAGE HISTORY
// =============================================================================

func TestFetchMessagesReplacesHistory(t *testing.T) {
	fb := &fakeBackend{
		summaries: []model.Summary{summary("c1", "One", base)},
		messages: map[string][]model.Message{
			"c1": {
				message("m2", "c1", model.RoleAssistant, "hello", base.Add(time.Second)),
				message("m1", "c1", model.RoleUser, "hi", base),
			},
		},
	}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")
	require.NoError(t, st.FetchMessages(context.Background(), "c1"))

	msgs := st.ActiveMessages()
	require.Len(t, msgs, 2)
	// Ascending timestamp order regardless of wire order.
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.True(t, st.ActiveStatus().HasLoadedMessages)
}

func TestFetchMessagesErrorSetsStatus(t *testing.T) {
	fb := &fakeBackend{
		summaries: []model.Summary{summary("c1", "One", base)},
		msgErr:    errors.New("timeout"),
	}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	err := st.FetchMessages(context.Background(), "c1")
	require.Error(t, err)

	status := st.ActiveStatus()
	assert.False(t, status.IsLoading)
	assert.Contains(t, status.Error, "timeout")
	assert.False(t, status.HasLoadedMessages)
}

func TestFetchMessagesUnknownConversationIsNoop(t *testing.T) {
	fb := &fakeBackend{}
	st := New(fb, nil)
	require.NoError(t, st.FetchMessages(context.Background(), "ghost"))
	assert.Zero(t, fb.msgCalls)
}

// =============================================================================
// SENDING
// =============================================================================

func TestSendMessageRejectsBlankInput(t *testing.T) {
	fb := &fakeBackend{}
	st := New(fb, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		err := st.SendMessage(context.Background(), text)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Zero(t, fb.sendCalls)
}

func TestSendMessagePendingAdoptsServerIdentity(t *testing.T) {
	fb := &fakeBackend{
		sendResp:  &api.ChatResponse{ConversationID: "c-new", Reply: "hello there"},
		summaries: []model.Summary{summary("c-new", "hi", base)},
		messages: map[string][]model.Message{
			"c-new": {
				message("m1", "c-new", model.RoleUser, "hi", base),
				message("m2", "c-new", model.RoleAssistant, "hello there", base.Add(time.Second)),
			},
		},
	}
	st := New(fb, nil)
	st.StartNewConversation()

	require.NoError(t, st.SendMessage(context.Background(), "hi"))

	id, ok := st.Active().ID()
	require.True(t, ok)
	assert.Equal(t, "c-new", id)

	msgs := st.ActiveMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)

	// List refresh and history fetch both happened.
	assert.Equal(t, 1, fb.listCalls)
	assert.Equal(t, 1, fb.msgCalls)
	assert.False(t, st.ActiveStatus().IsLoading)
}

func TestSendMessageWithNoActiveStartsNewConversation(t *testing.T) {
	fb := &fakeBackend{
		sendResp:  &api.ChatResponse{ConversationID: "c-new", Reply: "ok"},
		summaries: []model.Summary{summary("c-new", "hi", base)},
		messages:  map[string][]model.Message{"c-new": {}},
	}
	st := New(fb, nil)

	require.NoError(t, st.SendMessage(context.Background(), "hi"))
	id, ok := st.Active().ID()
	require.True(t, ok)
	assert.Equal(t, "c-new", id)
}

func TestSendMessagePersistedRefetchesHistory(t *testing.T) {
	fb := &fakeBackend{
		summaries: []model.Summary{summary("c1", "One", base)},
		sendResp:  &api.ChatResponse{Reply: "sure"},
		messages: map[string][]model.Message{
			"c1": {message("m1", "c1", model.RoleUser, "old", base)},
		},
	}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")
	require.NoError(t, st.FetchMessages(context.Background(), "c1"))

	// The server appends both sides of the exchange.
	fb.mu.Lock()
	fb.messages["c1"] = append(fb.messages["c1"],
		message("m2", "c1", model.RoleUser, "question", base.Add(time.Minute)),
		message("m3", "c1", model.RoleAssistant, "sure", base.Add(time.Minute+time.Second)),
	)
	fb.mu.Unlock()

	require.NoError(t, st.SendMessage(context.Background(), "question"))

	msgs := st.ActiveMessages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "sure", msgs[2].Content)
	// No extra list refresh for an existing conversation.
	assert.Equal(t, 1, fb.listCalls)
}

func TestSendMessageFailureSetsConversationError(t *testing.T) {
	fb := &fakeBackend{
		summaries: []model.Summary{summary("c1", "One", base)},
		sendErr:   errors.New("model unavailable"),
	}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	err := st.SendMessage(context.Background(), "hello")
	require.Error(t, err)

	status := st.ActiveStatus()
	assert.False(t, status.IsLoading)
	assert.Contains(t, status.Error, "model unavailable")
}

func TestSendMessageFailurePendingSetsDraftError(t *testing.T) {
	fb := &fakeBackend{sendErr: errors.New("backend down")}
	st := New(fb, nil)
	st.StartNewConversation()

	err := st.SendMessage(context.Background(), "hello")
	require.Error(t, err)

	assert.True(t, st.Active().IsPending())
	status := st.ActiveStatus()
	assert.False(t, status.IsLoading)
	assert.Contains(t, status.Error, "backend down")
}

func TestSendMessageFailureWithNoActiveSetsListError(t *testing.T) {
	fb := &fakeBackend{sendErr: errors.New("backend down")}
	st := New(fb, nil)

	// Sending right after login, before any conversation is selected or
	// started, must still surface the failure somewhere the view reads.
	err := st.SendMessage(context.Background(), "hello")
	require.Error(t, err)

	require.True(t, st.Active().IsNone())
	snap := st.Snapshot()
	assert.Contains(t, snap.ListStatus.Error, "backend down")
	assert.False(t, snap.ListStatus.IsLoading)
}

// =============================================================================
// LOCAL-ONLY MUTATIONS
// =============================================================================

func TestDeleteConversationFallsBackToMostRecent(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{
		summary("c1", "Oldest", base),
		summary("c2", "Middle", base.Add(time.Hour)),
		summary("c3", "Newest", base.Add(2*time.Hour)),
	}}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c2")

	st.DeleteConversation("c2")

	id, ok := st.Active().ID()
	require.True(t, ok)
	assert.Equal(t, "c3", id)
	assert.Len(t, st.SortedConversations(), 2)
}

func TestDeleteLastConversationDeactivates(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{summary("c1", "Only", base)}}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	st.DeleteConversation("c1")
	assert.True(t, st.Active().IsNone())
	assert.Empty(t, st.SortedConversations())
}

func TestDeleteInactiveConversationKeepsActive(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{
		summary("c1", "One", base),
		summary("c2", "Two", base.Add(time.Hour)),
	}}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	st.DeleteConversation("c2")
	id, ok := st.Active().ID()
	require.True(t, ok)
	assert.Equal(t, "c1", id)
}

func TestRenameConversation(t *testing.T) {
	fb := &fakeBackend{summaries: []model.Summary{summary("c1", "Original", base)}}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))

	st.RenameConversation("c1", "Renamed")
	assert.Equal(t, "Renamed", st.SortedConversations()[0].Title)

	// Blank titles are ignored.
	st.RenameConversation("c1", "   ")
	assert.Equal(t, "Renamed", st.SortedConversations()[0].Title)

	// Unknown IDs are ignored.
	st.RenameConversation("ghost", "Anything")
}

// =============================================================================
// UPLOADS
// =============================================================================

func TestUploadFileSuccess(t *testing.T) {
	fb := &fakeBackend{
		summaries:  []model.Summary{summary("c1", "One", base)},
		uploadResp: &api.UploadResponse{TaskID: "task-1", DocID: "doc-1", Filename: "notes.txt"},
		messages:   map[string][]model.Message{"c1": {}},
	}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	err := st.UploadFile(context.Background(), "notes.txt", 10, strings.NewReader("some notes"))
	require.NoError(t, err)

	uploads := st.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "task-1", uploads[0].TaskID)
	assert.True(t, st.HasUpload("notes.txt", 10))

	snap := st.Snapshot()
	assert.False(t, snap.IsUploading)
	assert.Empty(t, snap.UploadError)

	// The active conversation's history was refetched.
	assert.Equal(t, 1, fb.msgCalls)
}

func TestUploadFileFailureMirrorsErrorToActive(t *testing.T) {
	fb := &fakeBackend{
		summaries: []model.Summary{summary("c1", "One", base)},
		uploadErr: errors.New("file type not allowed"),
	}
	st := New(fb, nil)
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")

	err := st.UploadFile(context.Background(), "evil.exe", 10, strings.NewReader("xx"))
	require.Error(t, err)

	snap := st.Snapshot()
	assert.False(t, snap.IsUploading)
	assert.Contains(t, snap.UploadError, "file type not allowed")
	assert.Contains(t, st.ActiveStatus().Error, "file type not allowed")
	assert.Empty(t, st.Uploads())
}

func TestUploadFileRepeatRecordsEachTask(t *testing.T) {
	fb := &fakeBackend{
		uploadResp: &api.UploadResponse{TaskID: "task-1"},
	}
	st := New(fb, nil)

	require.NoError(t, st.UploadFile(context.Background(), "a.txt", 5, strings.NewReader("aaaaa")))
	fb.uploadResp = &api.UploadResponse{TaskID: "task-2"}
	require.NoError(t, st.UploadFile(context.Background(), "a.txt", 5, strings.NewReader("aaaaa")))

	// Re-uploading the same file gets its own entry; each send starts a
	// distinct processing task.
	uploads := st.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "task-1", uploads[0].TaskID)
	assert.Equal(t, "task-2", uploads[1].TaskID)
	assert.Equal(t, 2, fb.uploadCalls)

	// The duplicate check stays available as a warning signal.
	assert.True(t, st.HasUpload("a.txt", 5))
}

// =============================================================================
// RESET AND HYDRATION
// =============================================================================

func TestResetClearsEverything(t *testing.T) {
	fb := &fakeBackend{
		summaries:  []model.Summary{summary("c1", "One", base)},
		uploadResp: &api.UploadResponse{TaskID: "task-1"},
	}
	st := New(fb, nil)
	st.SetUser("u1")
	require.NoError(t, st.FetchConversations(context.Background()))
	st.SwitchConversation("c1")
	require.NoError(t, st.UploadFile(context.Background(), "a.txt", 5, strings.NewReader("aaaaa")))

	st.Reset()

	snap := st.Snapshot()
	assert.Empty(t, snap.Conversations)
	assert.True(t, snap.Active.IsNone())
	assert.Empty(t, snap.Uploads)
	assert.Empty(t, snap.UploadError)
	assert.Equal(t, model.Status{}, snap.ListStatus)
	assert.Empty(t, st.ActiveMessages())
}

// fakeCache is an in-memory Cache for hydration tests.
type fakeCache struct {
	mu        sync.Mutex
	summaries map[string][]model.Summary
	messages  map[string][]model.Message
	active    map[string]string
	purged    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		summaries: make(map[string][]model.Summary),
		messages:  make(map[string][]model.Message),
		active:    make(map[string]string),
	}
}

func (c *fakeCache) SaveSummaries(userID string, s []model.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[userID] = append([]model.Summary(nil), s...)
	return nil
}

func (c *fakeCache) LoadSummaries(userID string) ([]model.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Summary(nil), c.summaries[userID]...), nil
}

func (c *fakeCache) SaveMessages(id string, m []model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages[id] = append([]model.Message(nil), m...)
	return nil
}

func (c *fakeCache) LoadMessages(id string) ([]model.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Message(nil), c.messages[id]...), nil
}

func (c *fakeCache) SetActiveConversation(userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[userID] = id
	return nil
}

func (c *fakeCache) ActiveConversation(userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[userID], nil
}

func (c *fakeCache) Purge(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, userID)
	delete(c.active, userID)
	c.purged = append(c.purged, userID)
	return nil
}

func TestHydrateFromCache(t *testing.T) {
	cache := newFakeCache()
	cache.SaveSummaries("u1", []model.Summary{summary("c1", "Cached", base)})
	cache.SetActiveConversation("u1", "c1")

	st := New(&fakeBackend{}, cache)
	st.SetUser("u1")
	st.Hydrate()

	got := st.SortedConversations()
	require.Len(t, got, 1)
	assert.Equal(t, "Cached", got[0].Title)

	id, ok := st.Active().ID()
	require.True(t, ok)
	assert.Equal(t, "c1", id)

	// Cached state is never authoritative: history still needs a fetch.
	st.StartNewConversation()
	assert.True(t, st.SwitchConversation("c1"))
}

func TestFetchWritesThroughToCache(t *testing.T) {
	cache := newFakeCache()
	fb := &fakeBackend{
		summaries: []model.Summary{summary("c1", "One", base)},
		messages: map[string][]model.Message{
			"c1": {message("m1", "c1", model.RoleUser, "hi", base)},
		},
	}
	st := New(fb, cache)
	st.SetUser("u1")

	require.NoError(t, st.FetchConversations(context.Background()))
	require.NoError(t, st.FetchMessages(context.Background(), "c1"))

	cached, err := cache.LoadSummaries("u1")
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	msgs, err := cache.LoadMessages("c1")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestResetPurgesCache(t *testing.T) {
	cache := newFakeCache()
	st := New(&fakeBackend{}, cache)
	st.SetUser("u1")
	st.Reset()

	assert.Equal(t, []string{"u1"}, cache.purged)
}
