// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// uploads, and per-conversation status used by the session store.
//
// Messages inside a conversation hold two invariants regardless of the
// order the backend returns them in:
//   - sorted ascending by creation time
//   - unique by message ID (duplicate insertion is a no-op)
package model
