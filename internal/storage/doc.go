// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for the DreamHub client:
// a JSON file for the authenticated session and a SQLite cache of
// conversation state so the UI can render instantly on startup while
// fresh data loads from the backend.
package storage
