// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSegmentsProseOnly(t *testing.T) {
	segs := ParseSegments("just some text\nsecond line")
	require.Len(t, segs, 1)
	assert.Nil(t, segs[0].block)
	assert.Equal(t, "just some text\nsecond line", segs[0].text)
}

func TestParseSegmentsFencedBlock(t *testing.T) {
	content := "before\n```go\nfmt.Println(\"hi\")\n```\nafter"
	segs := ParseSegments(content)
	require.Len(t, segs, 3)

	assert.Equal(t, "before", segs[0].text)

	require.NotNil(t, segs[1].block)
	assert.Equal(t, "go", segs[1].block.Language)
	assert.Equal(t, "fmt.Println(\"hi\")", segs[1].block.Code)

	assert.Equal(t, "after", segs[2].text)
}

func TestParseSegmentsUnterminatedFence(t *testing.T) {
	segs := ParseSegments("```python\nprint(1)")
	require.Len(t, segs, 1)
	require.NotNil(t, segs[0].block)
	assert.Equal(t, "python", segs[0].block.Language)
	assert.Equal(t, "print(1)", segs[0].block.Code)
}

func TestParseSegmentsBlockWithoutLanguage(t *testing.T) {
	segs := ParseSegments("```\nplain\n```")
	require.Len(t, segs, 1)
	require.NotNil(t, segs[0].block)
	assert.Equal(t, "", segs[0].block.Language)
}

func TestHighlightCodeNeverEmpty(t *testing.T) {
	out := highlightCode("package main\n\nfunc main() {}", "go")
	assert.NotEmpty(t, out)

	// Unknown language still returns something renderable.
	out = highlightCode("whatever", "not-a-language")
	assert.Contains(t, out, "whatever")
}

func TestRenderInlineCode(t *testing.T) {
	// No backticks passes through untouched.
	assert.Equal(t, "plain text", RenderInlineCode("plain text"))

	// A lone backtick must survive as-is.
	assert.Contains(t, RenderInlineCode("odd ` one"), "`")
}
