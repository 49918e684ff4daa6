// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the authenticated user and bearer token, and
// persists them between runs through a Repository. It owns the forced
// logout triggered when the backend rejects a token.
package session
