// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/url"
)

// memoryCreateRequest is the create body.
type memoryCreateRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// memoryUpdateRequest is the update body; the key rides in the path.
type memoryUpdateRequest struct {
	Value string `json:"value"`
}

// ListMemories fetches all structured memory entries for the user.
func (c *Client) ListMemories(ctx context.Context) ([]MemoryEntry, error) {
	var entries []MemoryEntry
	if err := c.getJSON(ctx, "/memory/structured", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetMemory fetches one entry by key. Missing keys surface as ErrNotFound.
func (c *Client) GetMemory(ctx context.Context, key string) (*MemoryEntry, error) {
	var entry MemoryEntry
	if err := c.getJSON(ctx, "/memory/structured/"+url.PathEscape(key), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateMemory stores a new key-value fact. A duplicate key surfaces
// as ErrConflict.
func (c *Client) CreateMemory(ctx context.Context, key, value string) (*MemoryEntry, error) {
	var entry MemoryEntry
	req := memoryCreateRequest{Key: key, Value: value}
	if err := c.postJSON(ctx, "/memory/structured", true, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateMemory replaces the value stored under key.
func (c *Client) UpdateMemory(ctx context.Context, key, value string) (*MemoryEntry, error) {
	var entry MemoryEntry
	req := memoryUpdateRequest{Value: value}
	if err := c.putJSON(ctx, "/memory/structured/"+url.PathEscape(key), req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteMemory removes the entry stored under key.
func (c *Client) DeleteMemory(ctx context.Context, key string) error {
	return c.deleteJSON(ctx, "/memory/structured/"+url.PathEscape(key), nil)
}
