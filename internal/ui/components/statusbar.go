// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the single-line footer: who is logged in, what is
// happening, and the key hints.
type StatusBar struct {
	Username   string
	Server     string
	Uploading  bool
	UploadName string
	Error      string
	Width      int

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{Width: 80, theme: theme}
}

// SetWidth sets the available width.
func (b *StatusBar) SetWidth(width int) {
	b.Width = width
}

// shortcuts shown on the right edge, most useful first so truncation
// on narrow terminals drops the least important ones.
var shortcuts = [][2]string{
	{"ctrl+n", "new"},
	{"ctrl+u", "upload"},
	{"tab", "sidebar"},
	{"ctrl+c", "quit"},
}

// View renders the bar.
func (b StatusBar) View() string {
	var left []string

	if b.Username != "" {
		left = append(left, b.theme.StatusUser.Render(b.Username))
	}
	if b.Server != "" {
		left = append(left, b.theme.ShortcutDesc.Render(b.Server))
	}
	if b.Uploading {
		label := "uploading"
		if b.UploadName != "" {
			label += " " + truncate(b.UploadName, 20)
		}
		left = append(left, b.theme.StatusUpload.Render(label+"..."))
	}
	if b.Error != "" {
		left = append(left, b.theme.StatusError.Render(
			styles.StatusIndicators.Error+" "+truncate(b.Error, b.Width/2)))
	}

	leftView := strings.Join(left, b.theme.ShortcutDesc.Render(" | "))

	var keys []string
	for _, sc := range shortcuts {
		keys = append(keys, b.theme.ShortcutKey.Render(sc[0])+" "+b.theme.ShortcutDesc.Render(sc[1]))
	}
	rightView := strings.Join(keys, "  ")

	// Drop hints from the right when space runs out.
	gap := b.Width - visibleWidth(leftView) - visibleWidth(rightView) - 2
	for gap < 1 && len(keys) > 0 {
		keys = keys[:len(keys)-1]
		rightView = strings.Join(keys, "  ")
		gap = b.Width - visibleWidth(leftView) - visibleWidth(rightView) - 2
	}
	if gap < 1 {
		gap = 1
	}

	return b.theme.StatusBar.Width(b.Width).Render(
		leftView + strings.Repeat(" ", gap) + rightView)
}

// visibleWidth measures display columns, skipping ANSI escapes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			width += runewidth.RuneWidth(r)
		}
	}
	return width
}
