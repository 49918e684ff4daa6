// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/config"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// CONFIG COMMANDS
// =============================================================================

// runConfig shows or updates configuration. "endpoint", "model", and
// "api-key" live server-side per user; "theme" is local.
func (a *App) runConfig(parser *ArgParser) error {
	switch parser.Subcommand() {
	case "", "show":
		return a.configShow()
	case "set":
		key, value, hasValue := parser.Positional(1), parser.Positional(2), parser.PositionalCount() > 2
		if key == "" {
			return usageErrorf("config set: key is required")
		}
		if !hasValue {
			return usageErrorf("config set: value is required (use \"\" to clear)")
		}
		return a.configSet(key, value)
	default:
		return usageErrorf("config: unknown subcommand %q", parser.Subcommand())
	}
}

func (a *App) configShow() error {
	fmt.Fprintln(a.Out, "local:")
	fmt.Fprintf(a.Out, "  server:  %s\n", a.Config.Server.URL)
	fmt.Fprintf(a.Out, "  theme:   %s\n", a.Config.UI.Theme)
	if path, err := config.Path(); err == nil {
		fmt.Fprintf(a.Out, "  file:    %s\n", path)
	}

	if !a.Session.IsAuthenticated() {
		fmt.Fprintln(a.Out, "\nsign in to see server-side model configuration")
		return nil
	}

	ctx, cancel := a.newContext()
	defer cancel()
	cfg, err := a.Client.GetUserConfig(ctx)
	if err != nil {
		return &CommandError{Command: "config", Action: "show", Err: err}
	}

	fmt.Fprintln(a.Out, "\nserver:")
	fmt.Fprintf(a.Out, "  endpoint: %s\n", stringOrDefault(cfg.APIEndpoint, "(provider default)"))
	fmt.Fprintf(a.Out, "  model:    %s\n", stringOrDefault(cfg.ModelName, "(provider default)"))
	if cfg.APIKeyIsSet {
		fmt.Fprintln(a.Out, "  api-key:  set")
	} else {
		fmt.Fprintln(a.Out, "  api-key:  not set")
	}
	return nil
}

func (a *App) configSet(key, value string) error {
	switch key {
	case "theme":
		return a.setLocalTheme(value)
	case "endpoint", "model", "api-key":
		return a.setServerConfig(key, value)
	default:
		return usageErrorf("config set: unknown key %q", key)
	}
}

func (a *App) setLocalTheme(value string) error {
	a.Config.UI.Theme = value
	if err := a.Config.Validate(); err != nil {
		return usageErrorf("config set: %v", err)
	}
	if err := config.Save(a.Config); err != nil {
		return &CommandError{Command: "config", Action: "set", Err: err}
	}
	fmt.Fprintln(a.Out, styles.RenderSuccess("theme set to "+value))
	return nil
}

// setServerConfig sends a partial update; only the named field is
// touched. An empty value clears the stored setting.
func (a *App) setServerConfig(key, value string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	var update api.UserConfigUpdate
	switch key {
	case "endpoint":
		update.APIEndpoint = &value
	case "model":
		update.ModelName = &value
	case "api-key":
		update.APIKey = &value
	}

	ctx, cancel := a.newContext()
	defer cancel()
	if _, err := a.Client.UpdateUserConfig(ctx, update); err != nil {
		return &CommandError{Command: "config", Action: "set", Err: err}
	}

	fmt.Fprintln(a.Out, styles.RenderSuccess(key+" updated"))
	return nil
}

func stringOrDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
