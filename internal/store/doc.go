// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client-side conversation session state: the
// conversation registry, the active conversation, per-conversation
// status flags, and upload tracking. One Store instance is owned by
// the UI controller; all mutation goes through its command methods,
// which are safe to call from the event loop and from fetch goroutines
// concurrently.
package store
