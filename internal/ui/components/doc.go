// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual UI components for the DreamHub
TUI: message bubbles, the conversation sidebar, the status bar, the
login form, and the loading spinner.

Components are plain values that render through the shared styles.Theme.
Assistant messages pass through glamour markdown rendering when enabled,
with a chroma-based code block highlighter as the fallback path.
*/
package components
