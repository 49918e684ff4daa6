// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soaringjerry/dreamhub-tui/internal/config"
	"github.com/soaringjerry/dreamhub-tui/internal/session"
	"github.com/soaringjerry/dreamhub-tui/internal/store"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/components"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// ROOT MODEL
// =============================================================================

// view selects the top-level screen.
type view int

const (
	viewLogin view = iota
	viewChat
)

// focusArea tracks which pane receives key input in the chat view.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// promptKind is a one-line prompt temporarily replacing the input area.
type promptKind int

const (
	promptNone promptKind = iota
	promptUpload
	promptRename
)

// Model is the Bubble Tea model for the whole application.
type Model struct {
	view   view
	focus  focusArea
	prompt promptKind

	// Conversation being renamed while prompt == promptRename.
	renameID string

	theme  *styles.Theme
	keyMap KeyMap
	width  int
	height int
	ready  bool

	store   *store.Store
	session *session.Manager

	serverURL  string
	markdownOn bool

	// Components
	loginForm   components.LoginForm
	sidebar     components.Sidebar
	viewport    viewport.Model
	input       textarea.Model
	promptInput textinput.Model
	spinner     components.Spinner
	statusBar   components.StatusBar
	markdown    *components.MarkdownRenderer

	// Transient info line shown above the input (e.g. upload result).
	notice string
}

// New builds the root model. The session may already be authenticated
// from a restored token, in which case the model starts on the chat
// view.
func New(st *store.Store, sess *session.Manager, cfg *config.Config) Model {
	theme := styles.NewTheme(cfg.UI.Theme)

	input := textarea.New()
	input.Placeholder = "Type a message (enter to send, ctrl+j for newline)"
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.CharLimit = 0
	input.Focus()

	promptInput := textinput.New()
	promptInput.CharLimit = 512
	promptInput.Width = 60

	m := Model{
		theme:       theme,
		keyMap:      DefaultKeyMap(),
		store:       st,
		session:     sess,
		serverURL:   cfg.Server.URL,
		markdownOn:  cfg.UI.Markdown,
		loginForm:   components.NewLoginForm(theme),
		sidebar:     components.NewSidebar(theme),
		input:       input,
		promptInput: promptInput,
		spinner:     components.NewSpinner(theme),
		statusBar:   components.NewStatusBar(theme),
		markdown:    components.NewMarkdownRenderer(80, cfg.UI.Markdown),
	}

	if sess.IsAuthenticated() {
		m.view = viewChat
		m.enterChat()
	}
	return m
}

// enterChat primes the store for the authenticated user. Cached state
// appears immediately; the caller schedules the network refresh.
func (m *Model) enterChat() {
	if user := m.session.User(); user != nil {
		m.store.SetUser(user.ID)
	}
	m.store.Hydrate()
	m.syncFromStore()
}

// Init starts cursor blinking and, when a session was restored,
// refreshes the conversation list.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.view == viewChat {
		cmds = append(cmds, m.spinner.Start(), m.fetchConversationsCmd())
	}
	return tea.Batch(cmds...)
}

// syncFromStore refreshes the sidebar, status bar, and viewport from a
// store snapshot. Called after every store-mutating message.
func (m *Model) syncFromStore() {
	snap := m.store.Snapshot()

	m.sidebar.SetItems(snap.Conversations)
	if id, ok := snap.Active.ID(); ok {
		m.sidebar.SetActive(id)
	} else {
		m.sidebar.SetActive("")
	}

	if user := m.session.User(); user != nil {
		m.statusBar.Username = user.Username
	} else {
		m.statusBar.Username = ""
	}
	m.statusBar.Server = m.serverURL
	m.statusBar.Uploading = snap.IsUploading
	if snap.IsUploading && len(snap.Uploads) > 0 {
		m.statusBar.UploadName = snap.Uploads[len(snap.Uploads)-1].Name
	} else {
		m.statusBar.UploadName = ""
	}

	status := m.store.ActiveStatus()
	switch {
	case status.Error != "":
		m.statusBar.Error = status.Error
	case snap.ListStatus.Error != "":
		m.statusBar.Error = snap.ListStatus.Error
	case snap.UploadError != "":
		m.statusBar.Error = snap.UploadError
	default:
		m.statusBar.Error = ""
	}

	if m.ready {
		m.refreshViewport(true)
	}
}

// refreshViewport re-renders the transcript. When follow is true the
// viewport jumps to the newest message.
func (m *Model) refreshViewport(follow bool) {
	content := components.RenderMessages(
		m.store.ActiveMessages(), m.viewport.Width, m.theme, m.markdown)
	m.viewport.SetContent(content)
	if follow {
		m.viewport.GotoBottom()
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

func recreateMarkdown(width int, enabled bool) *components.MarkdownRenderer {
	return components.NewMarkdownRenderer(width, enabled)
}
