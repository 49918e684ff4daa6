// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits on one line", "hello world", 20, "hello world"},
		{"wraps at word boundary", "hello wide world", 11, "hello wide\nworld"},
		{"keeps existing newlines", "one\ntwo", 20, "one\ntwo"},
		{"breaks oversized word", "abcdefgh", 4, "abcd\nefgh"},
		{"zero width is passthrough", "hello", 0, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wordWrap(tt.text, tt.width))
		})
	}
}

func TestMaxLineWidth(t *testing.T) {
	assert.Equal(t, 5, maxLineWidth("ab\nhello\nc"))
	assert.Equal(t, 0, maxLineWidth(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hell...", truncate("hello there", 7))
	assert.Equal(t, "he", truncate("hello", 2))
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{482, "482 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanSize(tt.n))
	}
}

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "42", itoa(42))
	assert.Equal(t, "-7", itoa(-7))
}

func TestVisibleWidthSkipsAnsi(t *testing.T) {
	styled := "\x1b[1;31mred\x1b[0m"
	assert.Equal(t, 3, visibleWidth(styled))
	assert.Equal(t, 5, visibleWidth("plain"))
}

func TestWrapLineNoTrailingSpaces(t *testing.T) {
	wrapped := wordWrap("alpha beta gamma delta", 11)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}
