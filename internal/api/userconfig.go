// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
)

// GetUserConfig fetches the user's personalization settings. The API
// key itself is never returned, only whether one is stored.
func (c *Client) GetUserConfig(ctx context.Context) (*UserConfig, error) {
	var cfg UserConfig
	if err := c.getJSON(ctx, "/users/me/config", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateUserConfig applies a partial update. Nil fields are unchanged;
// an empty-string APIKey clears the stored key.
func (c *Client) UpdateUserConfig(ctx context.Context, update UserConfigUpdate) (*UserConfig, error) {
	var cfg UserConfig
	if err := c.putJSON(ctx, "/users/me/config", update, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
