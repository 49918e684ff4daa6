// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the DreamHub TUI.

All colors use Lip Gloss AdaptiveColor so light and dark terminals both
get readable output, and the Theme detects the terminal's color profile
through termenv. The theme mode ("dark", "light", "auto") comes from
configuration; auto asks the terminal for its background.
*/
package styles
