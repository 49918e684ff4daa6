// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer renders assistant messages as terminal markdown.
// A renderer is bound to a wrap width; SetWidth rebuilds it lazily.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	enabled  bool
}

// NewMarkdownRenderer creates a renderer. When enabled is false every
// Render call falls through to the plain-text path.
func NewMarkdownRenderer(width int, enabled bool) *MarkdownRenderer {
	return &MarkdownRenderer{width: width, enabled: enabled}
}

// SetWidth changes the wrap width. The glamour renderer is rebuilt on
// the next Render.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width != m.width {
		m.width = width
		m.renderer = nil
	}
}

// Render converts markdown to styled terminal output. On any failure,
// including glamour being unable to build a renderer, the content is
// rendered through the code-block fallback so fenced code keeps its
// highlighting.
func (m *MarkdownRenderer) Render(content string) string {
	if !m.enabled {
		return renderFallback(content, m.width)
	}

	if m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.wrapWidth()),
		)
		if err != nil {
			return renderFallback(content, m.width)
		}
		m.renderer = r
	}

	out, err := m.renderer.Render(content)
	if err != nil {
		return renderFallback(content, m.width)
	}
	return strings.TrimRight(out, "\n")
}

func (m *MarkdownRenderer) wrapWidth() int {
	if m.width <= 0 {
		return 80
	}
	return minInt(m.width, 120)
}

// renderFallback draws prose word-wrapped and fenced blocks through the
// chroma highlighter.
func renderFallback(content string, width int) string {
	if width <= 0 {
		width = 80
	}

	var parts []string
	for _, seg := range ParseSegments(content) {
		if seg.block != nil {
			parts = append(parts, RenderCodeBlock(*seg.block, width))
			continue
		}
		text := strings.TrimRight(seg.text, "\n")
		if text == "" {
			continue
		}
		parts = append(parts, RenderInlineCode(wordWrap(text, width)))
	}
	return strings.Join(parts, "\n")
}
