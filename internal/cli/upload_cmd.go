// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// taskPollInterval is how often --wait checks the processing status.
const taskPollInterval = 2 * time.Second

// =============================================================================
// UPLOAD COMMAND
// =============================================================================

// runUpload sends a file into the knowledge base. With --wait it polls
// the processing task until the server finishes (or fails) ingestion.
func (a *App) runUpload(parser *ArgParser) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	path := parser.Positional(0)
	if path == "" {
		return usageErrorf("upload: file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return &CommandError{Command: "upload", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &CommandError{Command: "upload", Err: err}
	}
	if info.IsDir() {
		return usageErrorf("upload: %s is a directory", path)
	}

	ctx, cancel := a.newContext()
	defer cancel()

	name := filepath.Base(path)
	resp, err := a.Client.UploadFile(ctx, name, info.Size(), f)
	if err != nil {
		return &CommandError{Command: "upload", Err: err}
	}

	fmt.Fprintln(a.Out, styles.RenderSuccess("accepted "+resp.Filename))
	fmt.Fprintf(a.Out, "  document: %s\n", resp.DocID)
	fmt.Fprintf(a.Out, "  task:     %s\n", resp.TaskID)

	if !parser.BoolFlag("wait") {
		return nil
	}
	return a.waitForTask(resp.TaskID)
}

// waitForTask polls until the processing task reaches a terminal
// state. The poll context is fresh per request so a long ingestion
// does not hit the command deadline.
func (a *App) waitForTask(taskID string) error {
	fmt.Fprintln(a.Out, "waiting for processing...")

	for {
		status, err := a.pollOnce(taskID)
		if err != nil {
			return &CommandError{Command: "upload", Action: "wait", Err: err}
		}

		switch strings.ToLower(status.Status) {
		case "completed", "succeeded", "success":
			fmt.Fprintln(a.Out, styles.RenderSuccess("processing complete"))
			return nil
		case "failed", "error":
			msg := status.Error
			if msg == "" {
				msg = "processing failed"
			}
			return &CommandError{Command: "upload", Action: "wait", Err: fmt.Errorf("%s", msg)}
		}

		time.Sleep(taskPollInterval)
	}
}

func (a *App) pollOnce(taskID string) (*api.TaskStatus, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return a.Client.GetTaskStatus(ctx, taskID)
}
