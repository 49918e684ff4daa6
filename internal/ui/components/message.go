// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soaringjerry/dreamhub-tui/internal/model"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message. User messages sit on the
// right edge, assistant and system messages on the left.
type MessageBubble struct {
	Message  model.Message
	Width    int
	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewMessageBubble creates a bubble for one message. markdown may be
// nil, in which case assistant content uses the plain fallback path.
func NewMessageBubble(msg model.Message, theme *styles.Theme, markdown *MarkdownRenderer) MessageBubble {
	return MessageBubble{
		Message:  msg,
		Width:    80,
		theme:    theme,
		markdown: markdown,
	}
}

// SetWidth sets the terminal width available to the bubble.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble with its role label and timestamp.
func (b MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUser()
	case model.RoleSystem:
		return b.renderSystem()
	default:
		return b.renderAssistant()
	}
}

// bubbleWidth caps bubbles at roughly two thirds of the terminal so
// both columns stay visually distinct.
func (b MessageBubble) bubbleWidth() int {
	w := b.Width * 2 / 3
	return maxInt(w, 20)
}

func (b MessageBubble) renderUser() string {
	content := wordWrap(b.Message.Content, b.bubbleWidth()-4)
	bubble := b.theme.UserBubble.Render(content)

	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName()) +
		" " + b.theme.Timestamp.Render(b.Message.CreatedAt.Local().Format("15:04"))

	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return alignRight(block, b.Width)
}

func (b MessageBubble) renderAssistant() string {
	width := b.bubbleWidth()

	var content string
	if b.markdown != nil {
		b.markdown.SetWidth(width - 4)
		content = b.markdown.Render(b.Message.Content)
	} else {
		content = renderFallback(b.Message.Content, width-4)
	}

	bubble := b.theme.AssistantBubble.Render(content)
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName()) +
		" " + b.theme.Timestamp.Render(b.Message.CreatedAt.Local().Format("15:04"))

	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

func (b MessageBubble) renderSystem() string {
	content := wordWrap(b.Message.Content, b.bubbleWidth()-4)
	bubble := b.theme.SystemBubble.Render(content)
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// alignRight pads every line of block so the widest line touches the
// right edge at width.
func alignRight(block string, width int) string {
	blockWidth := maxLineWidth(block)
	if blockWidth >= width {
		return block
	}
	return lipgloss.NewStyle().MarginLeft(width - blockWidth).Render(block)
}

// RenderMessages renders a message list as a scrollable column.
func RenderMessages(messages []model.Message, width int, theme *styles.Theme, markdown *MarkdownRenderer) string {
	if len(messages) == 0 {
		return theme.ThinkingText.Render("No messages yet. Say hello!")
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		bubble := NewMessageBubble(msg, theme, markdown)
		bubble.SetWidth(width)
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}
