// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// AUTH COMMANDS
// =============================================================================

// runLogin signs in and persists the session for later commands and
// the TUI.
func (a *App) runLogin(parser *ArgParser) error {
	username := parser.Flag("user")
	if username == "" {
		username = parser.Positional(0)
	}

	var err error
	if username == "" {
		username, err = promptLine(a.Out, a.In, "Username: ")
		if err != nil {
			return &CommandError{Command: "login", Err: err}
		}
	}
	if username == "" {
		return usageErrorf("login: username is required")
	}

	password, err := promptPassword(a.Out, a.In, "Password: ")
	if err != nil {
		return &CommandError{Command: "login", Err: err}
	}
	if password == "" {
		return usageErrorf("login: password is required")
	}

	ctx, cancel := a.newContext()
	defer cancel()
	user, err := a.Session.Login(ctx, username, password)
	if err != nil {
		return &CommandError{Command: "login", Err: err}
	}

	fmt.Fprintln(a.Out, styles.RenderSuccess("signed in as "+user.Username))
	return nil
}

// runRegister creates an account. It does not start a session; a
// follow-up login keeps the flow explicit.
func (a *App) runRegister(parser *ArgParser) error {
	username := parser.Flag("user")
	if username == "" {
		username = parser.Positional(0)
	}

	var err error
	if username == "" {
		username, err = promptLine(a.Out, a.In, "Username: ")
		if err != nil {
			return &CommandError{Command: "register", Err: err}
		}
	}
	if username == "" {
		return usageErrorf("register: username is required")
	}

	password, err := promptPassword(a.Out, a.In, "Password: ")
	if err != nil {
		return &CommandError{Command: "register", Err: err}
	}
	if len(password) < 8 {
		return usageErrorf("register: password must be at least 8 characters")
	}

	confirm, err := promptPassword(a.Out, a.In, "Confirm password: ")
	if err != nil {
		return &CommandError{Command: "register", Err: err}
	}
	if confirm != password {
		return usageErrorf("register: passwords do not match")
	}

	ctx, cancel := a.newContext()
	defer cancel()
	user, err := a.Session.Register(ctx, username, password)
	if err != nil {
		return &CommandError{Command: "register", Err: err}
	}

	fmt.Fprintln(a.Out, styles.RenderSuccess("account created: "+user.Username))
	fmt.Fprintln(a.Out, "run \"dreamhub login\" to sign in")
	return nil
}

func (a *App) runLogout() error {
	if !a.Session.IsAuthenticated() {
		fmt.Fprintln(a.Out, "not signed in")
		return nil
	}
	a.Session.Logout()
	fmt.Fprintln(a.Out, styles.RenderSuccess("signed out"))
	return nil
}

func (a *App) runWhoami() error {
	if err := a.requireSession(); err != nil {
		return err
	}
	user := a.Session.User()
	fmt.Fprintf(a.Out, "%s (%s)\n", user.Username, user.ID)
	fmt.Fprintf(a.Out, "server: %s\n", a.Client.BaseURL())
	return nil
}
