// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// LoggedOutMsg reports that the session ended. Forced means the server
// rejected the token mid-session rather than the user logging out.
// Exported because main feeds it into the program from the session
// manager's logout callback, which fires on any goroutine.
type LoggedOutMsg struct {
	Forced bool
}

// loggedInMsg reports the outcome of a login or register+login attempt.
type loggedInMsg struct {
	err error
}

// conversationsLoadedMsg reports a finished conversation list refresh.
type conversationsLoadedMsg struct {
	err error
}

// messagesLoadedMsg reports a finished history fetch for one
// conversation.
type messagesLoadedMsg struct {
	conversationID string
	err            error
}

// sentMsg reports a finished send round trip. The store already holds
// the refreshed transcript when err is nil.
type sentMsg struct {
	err error
}

// uploadedMsg reports a finished document upload.
type uploadedMsg struct {
	filename string
	err      error
}

// ConfigReloadedMsg carries a hot-reloaded configuration. Sent by
// main's watcher callback, same pattern as LoggedOutMsg.
type ConfigReloadedMsg struct {
	ThemeMode string
	Markdown  bool
}
