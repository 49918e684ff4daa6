// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the active screen.
func (m Model) View() string {
	if m.view == viewLogin {
		return m.loginForm.View(m.width, m.height)
	}
	return m.chatView()
}

func (m Model) chatView() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.viewport.View())
	b.WriteString(body)
	b.WriteString("\n")

	b.WriteString(m.activityView())
	b.WriteString("\n")

	b.WriteString(m.inputView())
	b.WriteString("\n")

	b.WriteString(m.statusBar.View())
	return b.String()
}

func (m Model) headerView() string {
	title := m.store.ActiveTitle()
	if title == "" {
		title = "DreamHub"
	}
	return m.theme.Header.Width(m.width).Render("DreamHub - " + title)
}

// activityView is the single line between the transcript and the
// input: the spinner while a request runs, otherwise the last notice.
func (m Model) activityView() string {
	if m.spinner.IsActive() {
		return " " + m.spinner.View()
	}
	if m.notice != "" {
		return " " + m.theme.ThinkingText.Render(m.notice)
	}
	return ""
}

func (m Model) inputView() string {
	if m.prompt != promptNone {
		label := "Upload file"
		if m.prompt == promptRename {
			label = "Rename conversation"
		}
		prompt := m.theme.FormLabel.Render(label+": ") + m.promptInput.View()
		return m.theme.InputContainer.Width(m.width - 2).Render(prompt)
	}

	style := m.theme.InputContainer
	if m.focus == focusInput {
		style = style.BorderForeground(styles.Cyan)
	}
	return style.Width(m.width - 2).Render(m.input.View())
}
