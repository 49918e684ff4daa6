// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/soaringjerry/dreamhub-tui/internal/model"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar lists the user's conversations. It tracks a cursor (the row
// the user is on) separately from the active conversation (the one the
// chat pane shows), so browsing does not switch conversations until
// the user confirms.
type Sidebar struct {
	Width  int
	Height int

	items    []model.Summary
	cursor   int
	activeID string
	offset   int

	theme *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{Width: 28, Height: 20, theme: theme}
}

// SetItems replaces the listing. The cursor stays on the same
// conversation when it still exists, otherwise snaps to the top.
func (s *Sidebar) SetItems(items []model.Summary) {
	var keep string
	if s.cursor >= 0 && s.cursor < len(s.items) {
		keep = s.items[s.cursor].ID
	}

	s.items = items
	s.cursor = 0
	for i, item := range items {
		if item.ID == keep {
			s.cursor = i
			break
		}
	}
	s.clampScroll()
}

// SetActive marks the conversation the chat pane currently shows.
// Empty means none (or a pending draft).
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
	s.clampScroll()
}

// MoveUp moves the cursor one row up.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
	s.clampScroll()
}

// MoveDown moves the cursor one row down.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.items)-1 {
		s.cursor++
	}
	s.clampScroll()
}

// Selected returns the conversation under the cursor.
func (s *Sidebar) Selected() (model.Summary, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return model.Summary{}, false
	}
	return s.items[s.cursor], true
}

// Len returns the number of listed conversations.
func (s *Sidebar) Len() int {
	return len(s.items)
}

// clampScroll keeps the cursor inside the visible window.
func (s *Sidebar) clampScroll() {
	visible := s.visibleRows()
	if visible <= 0 {
		return
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+visible {
		s.offset = s.cursor - visible + 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// visibleRows is the item capacity after the title row. Each item takes
// two rows (title and timestamp).
func (s *Sidebar) visibleRows() int {
	return maxInt((s.Height-2)/2, 1)
}

// View renders the sidebar.
func (s Sidebar) View() string {
	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n\n")

	if len(s.items) == 0 {
		b.WriteString(s.theme.SidebarItem.Render("(none yet)"))
		return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
	}

	innerWidth := maxInt(s.Width-4, 8)
	visible := s.visibleRows()
	end := minInt(s.offset+visible, len(s.items))

	for i := s.offset; i < end; i++ {
		item := s.items[i]

		marker := "  "
		if item.ID == s.activeID {
			marker = s.theme.SidebarActive.Render("> ")
		}

		title := truncate(item.DisplayTitle(), innerWidth-2)
		if i == s.cursor {
			title = s.theme.SidebarSelected.Render(title)
		} else {
			title = s.theme.SidebarItem.Render(title)
		}

		b.WriteString(marker + title + "\n")
		b.WriteString("  " + s.theme.SidebarTimestamp.Render(relativeTime(item.UpdatedAt)) + "\n")
	}

	return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
}

// relativeTime formats an age for the sidebar ("now", "5m", "3h", "2d",
// or the date for anything older than a week).
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return itoa(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return itoa(int(d.Hours())) + "h ago"
	case d < 7*24*time.Hour:
		return itoa(int(d.Hours()/24)) + "d ago"
	default:
		return t.Local().Format("2006-01-02")
	}
}
