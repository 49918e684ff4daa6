// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soaringjerry/dreamhub-tui/internal/session"
	"github.com/soaringjerry/dreamhub-tui/internal/util"
)

// =============================================================================
// FILE SESSION REPOSITORY
// =============================================================================

// FileSessionRepository persists the session snapshot as a JSON file.
// The file holds a bearer token, so it is created 0600 inside a 0700
// directory.
type FileSessionRepository struct {
	path string
}

// DefaultSessionPath returns the standard session file location,
// ~/.dreamhub/session.json.
func DefaultSessionPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".dreamhub", "session.json"), nil
}

// NewFileSessionRepository creates a repository at the given path,
// ensuring the parent directory exists.
func NewFileSessionRepository(path string) (*FileSessionRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileSessionRepository{path: path}, nil
}

// Load reads the persisted session. A missing file means no session
// and returns (nil, nil); a corrupted file is an error.
func (r *FileSessionRepository) Load() (*session.State, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("corrupted session file: %w", err)
	}
	return &state, nil
}

// Save writes the session atomically so a crash mid-write never
// leaves a truncated file behind.
func (r *FileSessionRepository) Save(state session.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(r.path, data, 0600)
}

// Clear removes the persisted session. A missing file is not an error.
func (r *FileSessionRepository) Clear() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
