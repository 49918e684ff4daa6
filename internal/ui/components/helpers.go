// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/soaringjerry/dreamhub-tui/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// wordWrap wraps text at the given display width, preserving existing
// newlines. Words longer than the width are broken hard.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(wrapLine(line, width))
	}
	return out.String()
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}

	var out strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)

		// Hard-break words that cannot fit on any line.
		for w > width {
			if lineWidth > 0 {
				out.WriteString("\n")
				lineWidth = 0
			}
			head := runewidth.Truncate(word, width, "")
			out.WriteString(head)
			out.WriteString("\n")
			word = strings.TrimPrefix(word, head)
			w = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}

		switch {
		case lineWidth == 0:
			out.WriteString(word)
			lineWidth = w
		case lineWidth+1+w <= width:
			out.WriteString(" ")
			out.WriteString(word)
			lineWidth += 1 + w
		default:
			out.WriteString("\n")
			out.WriteString(word)
			lineWidth = w
		}
	}
	return out.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxW := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > maxW {
			maxW = w
		}
	}
	return maxW
}

// truncate shortens s to at most width columns, appending "..." when
// anything was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return util.TruncateWidth(s, width)
}

// humanSize formats a byte count for display ("482 B", "1.2 KB").
func humanSize(n int64) string {
	return util.FormatByteSize(n)
}

// itoa converts an integer to a string without pulling fmt into render
// paths.
func itoa(n int) string {
	return util.IntToString(n)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
