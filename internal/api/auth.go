// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
)

// credentials is the request body shared by register and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account and returns the sanitized user record.
// A taken username surfaces as ErrConflict.
func (c *Client) Register(ctx context.Context, username, password string) (*User, error) {
	var user User
	err := c.postJSON(ctx, "/auth/register", false, credentials{Username: username, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token and the user record.
// Bad credentials surface as ErrAuthFailed.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.postJSON(ctx, "/auth/login", false, credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
