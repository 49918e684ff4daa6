// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the DreamHub backend.
//
// Every operation takes a context and returns typed errors: sentinel
// values (ErrAuthFailed, ErrUnauthorized, ...) wrapped around *APIError
// carrying the HTTP status and the backend's error message. Transient
// failures (5xx, 429) are retried with exponential backoff; a 401 from
// any authenticated endpoint additionally fires the client's
// unauthorized hook so the session layer can tear itself down.
package api
