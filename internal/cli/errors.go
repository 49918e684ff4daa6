// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitGeneralError indicates a general or unknown error.
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments.
	ExitUsageError = 2
	// ExitAuthError indicates an authentication failure.
	ExitAuthError = 4
	// ExitNetworkError indicates the server could not be reached.
	ExitNetworkError = 5
	// ExitNotFoundError indicates a missing resource.
	ExitNotFoundError = 7
)

// exitCodeFor maps an error to its process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, api.ErrAuthFailed), errors.Is(err, api.ErrUnauthorized):
		return ExitAuthError
	case errors.Is(err, api.ErrNetwork):
		return ExitNetworkError
	case errors.Is(err, api.ErrNotFound):
		return ExitNotFoundError
	default:
		return ExitGeneralError
	}
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError wraps a failure with the command and action that caused
// it, so the top-level handler prints something actionable.
type CommandError struct {
	Command string
	Action  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// usageError signals bad arguments; it maps to ExitUsageError and the
// handler appends the command usage line.
type usageError struct {
	message string
}

func (e *usageError) Error() string {
	return e.message
}

func usageErrorf(format string, args ...any) error {
	return &usageError{message: fmt.Sprintf(format, args...)}
}
