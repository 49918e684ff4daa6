// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// STRUCTURED MEMORY COMMANDS
// =============================================================================

// runMemory manages the key-value facts the assistant remembers about
// the user.
func (a *App) runMemory(parser *ArgParser) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	switch parser.Subcommand() {
	case "", "list", "ls":
		return a.memoryList()
	case "get":
		key := parser.Positional(1)
		if key == "" {
			return usageErrorf("memory get: key is required")
		}
		return a.memoryGet(key)
	case "set":
		key, value := parser.Positional(1), parser.Positional(2)
		if key == "" || value == "" {
			return usageErrorf("memory set: key and value are required")
		}
		return a.memorySet(key, value)
	case "del", "rm", "delete":
		key := parser.Positional(1)
		if key == "" {
			return usageErrorf("memory del: key is required")
		}
		return a.memoryDelete(key)
	default:
		return usageErrorf("memory: unknown subcommand %q", parser.Subcommand())
	}
}

func (a *App) memoryList() error {
	ctx, cancel := a.newContext()
	defer cancel()
	entries, err := a.Client.ListMemories(ctx)
	if err != nil {
		return &CommandError{Command: "memory", Action: "list", Err: err}
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "no memories stored")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.Out, "%-24s  %s\n", e.Key, e.Value)
	}
	return nil
}

func (a *App) memoryGet(key string) error {
	ctx, cancel := a.newContext()
	defer cancel()
	entry, err := a.Client.GetMemory(ctx, key)
	if err != nil {
		return &CommandError{Command: "memory", Action: "get", Err: err}
	}
	fmt.Fprintln(a.Out, entry.Value)
	return nil
}

// memorySet creates the key, falling back to an update when it already
// exists.
func (a *App) memorySet(key, value string) error {
	ctx, cancel := a.newContext()
	defer cancel()

	_, err := a.Client.CreateMemory(ctx, key, value)
	if errors.Is(err, api.ErrConflict) {
		_, err = a.Client.UpdateMemory(ctx, key, value)
	}
	if err != nil {
		return &CommandError{Command: "memory", Action: "set", Err: err}
	}

	fmt.Fprintln(a.Out, styles.RenderSuccess(key+" saved"))
	return nil
}

func (a *App) memoryDelete(key string) error {
	ctx, cancel := a.newContext()
	defer cancel()
	if err := a.Client.DeleteMemory(ctx, key); err != nil {
		return &CommandError{Command: "memory", Action: "del", Err: err}
	}
	fmt.Fprintln(a.Out, styles.RenderSuccess(key+" deleted"))
	return nil
}
