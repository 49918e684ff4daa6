// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION STATUS
// =============================================================================

// Status holds the transient per-conversation flags the view renders.
// A conversation with no recorded status gets the zero value, which is
// the correct default (not loading, no error, history not loaded).
type Status struct {
	IsLoading         bool
	Error             string
	HasLoadedMessages bool
}

// =============================================================================
// UPLOADED FILE
// =============================================================================

// UploadedFile records the outcome of a file submission. The TaskID is
// the backend's asynchronous processing job identifier, kept only for
// local bookkeeping.
type UploadedFile struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	TaskID string `json:"id"`
}

// IsDuplicate reports whether a file with the same name and size is
// already recorded. Advisory only - the caller may still upload.
func IsDuplicate(files []UploadedFile, name string, size int64) bool {
	for _, f := range files {
		if f.Name == name && f.Size == size {
			return true
		}
	}
	return false
}
