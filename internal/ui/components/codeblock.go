// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK HIGHLIGHTING
// =============================================================================

// CodeBlock is one fenced code block extracted from a message body.
type CodeBlock struct {
	Language string
	Code     string
}

// segment is either plain prose or a code block, in document order.
type segment struct {
	text  string
	block *CodeBlock
}

// ParseSegments splits a message body on fenced code blocks. Prose and
// blocks come back in order so the caller can render them differently.
// An unterminated fence is treated as a block running to the end.
func ParseSegments(content string) []segment {
	var segs []segment

	lines := strings.Split(content, "\n")
	var prose, code []string
	var inBlock bool
	var lang string

	flushProse := func() {
		if len(prose) > 0 {
			segs = append(segs, segment{text: strings.Join(prose, "\n")})
			prose = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				segs = append(segs, segment{block: &CodeBlock{
					Language: lang,
					Code:     strings.Join(code, "\n"),
				}})
				code = nil
				inBlock = false
			} else {
				flushProse()
				lang = strings.TrimPrefix(trimmed, "```")
				inBlock = true
			}
			continue
		}
		if inBlock {
			code = append(code, line)
		} else {
			prose = append(prose, line)
		}
	}

	if inBlock {
		segs = append(segs, segment{block: &CodeBlock{
			Language: lang,
			Code:     strings.Join(code, "\n"),
		}})
	} else {
		flushProse()
	}

	return segs
}

// highlightCode renders source code with ANSI colors via chroma. The
// raw code comes back unchanged when highlighting fails.
func highlightCode(code, language string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return code
	}
	return sb.String()
}

// RenderCodeBlock draws one highlighted code block inside a bordered
// box, with the language as a header when known.
func RenderCodeBlock(block CodeBlock, width int) string {
	highlighted := strings.TrimRight(highlightCode(block.Code, block.Language), "\n")

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1)
	if width > 4 {
		box = box.Width(width - 2)
	}

	if block.Language == "" {
		return box.Render(highlighted)
	}

	header := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(block.Language)
	return box.Render(header + "\n" + highlighted)
}

// RenderInlineCode styles `backtick` spans within a prose line.
func RenderInlineCode(text string) string {
	if !strings.Contains(text, "`") {
		return text
	}

	codeStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Background(styles.Overlay)

	var out strings.Builder
	parts := strings.Split(text, "`")
	for i, part := range parts {
		// Odd indexes sit between backtick pairs.
		if i%2 == 1 && i < len(parts)-1 {
			out.WriteString(codeStyle.Render(part))
		} else {
			if i%2 == 1 {
				out.WriteString("`")
			}
			out.WriteString(part)
		}
	}
	return out.String()
}
