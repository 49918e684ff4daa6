// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// =============================================================================
// CONVERSATION LISTING
// =============================================================================

// runList prints the user's conversations, newest first.
func (a *App) runList() error {
	if err := a.requireSession(); err != nil {
		return err
	}

	ctx, cancel := a.newContext()
	defer cancel()
	summaries, err := a.Client.ListConversations(ctx)
	if err != nil {
		return &CommandError{Command: "list", Err: err}
	}

	if len(summaries) == 0 {
		fmt.Fprintln(a.Out, "no conversations yet")
		return nil
	}

	model.SortSummaries(summaries)
	for _, s := range summaries {
		updated := ""
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.Out, "%-36s  %-16s  %s\n", s.ID, updated, s.DisplayTitle())
	}
	return nil
}
