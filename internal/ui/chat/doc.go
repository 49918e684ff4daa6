// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the Bubble Tea application for the DreamHub TUI.

The root Model gates the chat view behind a login form. Once a session
exists it shows the conversation sidebar, the message viewport, the
input area, and the status bar. Every server interaction runs as a
tea.Cmd against the conversation store, and the resulting messages
re-render from a fresh store snapshot.

A forced logout (the server rejecting the token) can arrive from any
goroutine; main wires the session manager's logout callback to
Program.Send with a LoggedOutMsg, which drops the UI back to the login
form with an explanatory error.
*/
package chat
