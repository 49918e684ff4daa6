// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// DOCUMENT COMMANDS
// =============================================================================

// runDocs manages the knowledge-base documents.
func (a *App) runDocs(parser *ArgParser) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	switch parser.Subcommand() {
	case "", "list", "ls":
		return a.docsList()
	case "rm", "delete":
		id := parser.Positional(1)
		if id == "" {
			return usageErrorf("docs rm: document id is required")
		}
		return a.docsDelete(id)
	default:
		return usageErrorf("docs: unknown subcommand %q", parser.Subcommand())
	}
}

func (a *App) docsList() error {
	ctx, cancel := a.newContext()
	defer cancel()
	docs, err := a.Client.ListDocuments(ctx)
	if err != nil {
		return &CommandError{Command: "docs", Action: "list", Err: err}
	}

	if len(docs) == 0 {
		fmt.Fprintln(a.Out, "no documents uploaded")
		return nil
	}

	for _, d := range docs {
		uploaded := ""
		if !d.UploadTime.IsZero() {
			uploaded = d.UploadTime.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.Out, "%-36s  %-10s  %-16s  %s\n",
			d.ID, d.ProcessingStatus, uploaded, d.OriginalFilename)
	}
	return nil
}

func (a *App) docsDelete(id string) error {
	ctx, cancel := a.newContext()
	defer cancel()
	if err := a.Client.DeleteDocument(ctx, id); err != nil {
		return &CommandError{Command: "docs", Action: "rm", Err: err}
	}
	fmt.Fprintln(a.Out, styles.RenderSuccess("deleted "+id))
	return nil
}
