// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update routes messages to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case LoggedOutMsg:
		return m.onLoggedOut(msg)

	case ConfigReloadedMsg:
		m.markdownOn = msg.Markdown
		m.markdown = recreateMarkdown(m.viewport.Width, msg.Markdown)
		if m.ready {
			m.refreshViewport(false)
		}
		return m, nil

	case loggedInMsg:
		return m.onLoggedIn(msg)

	case conversationsLoadedMsg:
		return m.onConversationsLoaded(msg)

	case messagesLoadedMsg:
		return m.onMessagesLoaded(msg)

	case sentMsg:
		m.spinner.Stop()
		m.syncFromStore()
		if msg.err == nil {
			m.input.Reset()
		}
		return m, nil

	case uploadedMsg:
		m.syncFromStore()
		if msg.err == nil {
			m.notice = "Uploaded " + msg.filename + " for processing"
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
		if m.view == viewLogin {
			return m.updateLogin(msg)
		}
		return m.updateChat(msg)
	}

	// Everything else (spinner ticks, blink) flows to the components.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	if m.view == viewChat {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

func (m Model) onLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loginForm.SetError(loginErrorText(msg.err))
		return m, nil
	}

	m.view = viewChat
	m.focus = focusInput
	m.loginForm.Reset()
	m.enterChat()
	return m, tea.Batch(m.spinner.Start(), m.fetchConversationsCmd())
}

func (m Model) onLoggedOut(msg LoggedOutMsg) (tea.Model, tea.Cmd) {
	m.store.Reset()
	m.view = viewLogin
	m.prompt = promptNone
	m.notice = ""
	m.input.Reset()
	m.loginForm.Reset()
	if msg.Forced {
		m.loginForm.SetError("session expired, please sign in again")
	}
	return m, nil
}

// =============================================================================
// STORE RESULT HANDLERS
// =============================================================================

func (m Model) onConversationsLoaded(msg conversationsLoadedMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()
	m.syncFromStore()
	if msg.err != nil {
		return m, nil
	}

	// A restored active conversation may only have cached history.
	if id, ok := m.store.Active().ID(); ok && !m.store.ActiveStatus().HasLoadedMessages {
		return m, tea.Batch(m.spinner.Start(), m.fetchMessagesCmd(id))
	}
	return m, nil
}

func (m Model) onMessagesLoaded(msg messagesLoadedMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()
	m.syncFromStore()
	return m, nil
}

// =============================================================================
// LOGIN VIEW INPUT
// =============================================================================

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loginForm.IsSubmitting() {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+r":
		m.loginForm.ToggleMode()
		return m, nil
	case "tab", "down":
		m.loginForm.Next()
		return m, nil
	case "shift+tab", "up":
		m.loginForm.Prev()
		return m, nil
	case "enter":
		if !m.loginForm.OnLastField() {
			m.loginForm.Next()
			return m, nil
		}
		if errMsg := m.loginForm.Validate(); errMsg != "" {
			m.loginForm.SetError(errMsg)
			return m, nil
		}
		username, password := m.loginForm.Values()
		m.loginForm.SetSubmitting(true)
		if m.loginForm.Mode() == components.ModeRegister {
			return m, m.registerCmd(username, password)
		}
		return m, m.loginCmd(username, password)
	}

	var cmd tea.Cmd
	m.loginForm, cmd = m.loginForm.Update(msg)
	return m, cmd
}

// =============================================================================
// CHAT VIEW INPUT
// =============================================================================

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.updatePrompt(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.NewChat):
		m.store.StartNewConversation()
		m.focus = focusInput
		m.notice = ""
		m.syncFromStore()
		return m, nil

	case key.Matches(msg, m.keyMap.Upload):
		m.prompt = promptUpload
		m.promptInput.SetValue("")
		m.promptInput.Placeholder = "path to file"
		m.promptInput.Focus()
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		cmds := []tea.Cmd{m.spinner.Start(), m.fetchConversationsCmd()}
		if id, ok := m.store.Active().ID(); ok {
			cmds = append(cmds, m.fetchMessagesCmd(id))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keyMap.Logout):
		return m, m.logoutCmd()

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.updateSidebar(msg)
	}
	return m.updateInput(msg)
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.sidebar.MoveUp()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.sidebar.MoveDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Select):
		sel, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		needsFetch := m.store.SwitchConversation(sel.ID)
		m.focus = focusInput
		m.input.Focus()
		m.syncFromStore()
		if needsFetch {
			return m, tea.Batch(m.spinner.Start(), m.fetchMessagesCmd(sel.ID))
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if sel, ok := m.sidebar.Selected(); ok {
			m.store.DeleteConversation(sel.ID)
			m.syncFromStore()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Rename):
		sel, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		m.prompt = promptRename
		m.renameID = sel.ID
		m.promptInput.SetValue(sel.DisplayTitle())
		m.promptInput.Placeholder = "new title"
		m.promptInput.Focus()
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.focus = focusInput
		m.input.Focus()
		return m, nil
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		if m.store.ActiveStatus().IsLoading {
			return m, nil
		}
		m.notice = ""
		m.spinner.SetMessage("Thinking")
		return m, tea.Batch(m.spinner.Start(), m.sendMessageCmd(text))

	case "ctrl+j":
		m.input.InsertString("\n")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updatePrompt handles the one-line upload and rename prompts.
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.promptInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.promptInput.Value())
		kind := m.prompt
		m.prompt = promptNone
		m.promptInput.Blur()
		if value == "" {
			return m, nil
		}

		switch kind {
		case promptUpload:
			m.spinner.SetMessage("Uploading")
			m.syncFromStore()
			return m, m.uploadFileCmd(value)
		case promptRename:
			m.store.RenameConversation(m.renameID, value)
			m.syncFromStore()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

// =============================================================================
// HELPERS
// =============================================================================

// resize distributes the terminal area across the panes.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebarWidth := clamp(width/4, 20, 36)
	bodyHeight := maxOf(height-8, 3)

	m.sidebar.SetSize(sidebarWidth, bodyHeight)
	m.statusBar.SetWidth(width)

	chatWidth := maxOf(width-sidebarWidth-1, 20)
	if !m.ready {
		m.viewport = newViewport(chatWidth, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = bodyHeight
	}
	m.markdown.SetWidth(chatWidth)
	m.input.SetWidth(maxOf(width-4, 20))

	m.refreshViewport(true)
}

// loginErrorText maps transport errors to something a person can act
// on.
func loginErrorText(err error) string {
	switch {
	case errors.Is(err, api.ErrAuthFailed):
		return "invalid username or password"
	case errors.Is(err, api.ErrConflict):
		return "that username is already taken"
	case errors.Is(err, api.ErrNetwork):
		return "cannot reach the server"
	default:
		return err.Error()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
