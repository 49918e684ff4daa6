// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Error variables for common backend failures. Callers match with
// errors.Is; the wrapped *APIError keeps the HTTP detail.
var (
	// ErrAuthFailed indicates rejected credentials on login or register.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUnauthorized indicates an expired or invalid token on an
	// authenticated endpoint. The session layer treats this as a
	// forced logout.
	ErrUnauthorized = errors.New("authorization expired")

	// ErrNotFound indicates the addressed resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, e.g. registering a
	// taken username or creating a duplicate memory key.
	ErrConflict = errors.New("conflict")

	// ErrRateLimited indicates the backend rejected the request with 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrNetwork indicates a transport failure or a malformed response
	// body - the request may never have reached the backend.
	ErrNetwork = errors.New("network error")
)

// APIError carries the HTTP status and backend error payload.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("dreamhub api [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("dreamhub api (HTTP %d): %s", e.Status, e.Message)
}

// IsRetryable reports whether the request may be retried.
func (e *APIError) IsRetryable() bool {
	return e.Status == 429 || (e.Status >= 500 && e.Status < 600)
}
