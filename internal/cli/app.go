// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/config"
	"github.com/soaringjerry/dreamhub-tui/internal/session"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const usageText = `dreamhub - personal AI hub client

Chat with your DreamHub server, upload documents into its knowledge
base, and manage your account from the terminal. Running with no
command starts the TUI.

Usage:
  dreamhub                      Start the TUI (default)
  dreamhub login [--user NAME]  Sign in and store the session
  dreamhub register             Create an account
  dreamhub logout               Drop the stored session
  dreamhub whoami               Show the signed-in user
  dreamhub list                 List conversations
  dreamhub upload FILE [--wait] Upload a document
  dreamhub docs [list|rm ID]    Manage uploaded documents
  dreamhub memory [list|get|set|del]  Structured memory
  dreamhub config [show|set KEY VALUE]  Model configuration
  dreamhub version              Show version information
  dreamhub help                 Show this help

Config keys for "config set":
  endpoint   AI provider endpoint URL ("" to reset)
  model      Model name
  api-key    Provider API key ("" to clear)
  theme      Local UI theme: dark, light, auto

Examples:
  dreamhub login --user alice
  dreamhub upload notes.pdf --wait
  dreamhub memory set favorite-editor vim
  dreamhub config set model gpt-4o
`

// =============================================================================
// APP
// =============================================================================

// App wires the commands to the API client and session. Out and ErrOut
// default to the process streams; tests substitute buffers.
type App struct {
	Client  *api.Client
	Session *session.Manager
	Config  *config.Config

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// timeout derives the per-command deadline from configuration.
func (a *App) timeout() time.Duration {
	if a.Config != nil && a.Config.Server.TimeoutSecs > 0 {
		return time.Duration(a.Config.Server.TimeoutSecs) * time.Second
	}
	return 60 * time.Second
}

func (a *App) newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout())
}

// Run executes one command and returns the process exit code.
func (a *App) Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.Out, usageText)
		return ExitSuccess
	}

	command := args[0]
	parser := NewArgParser(args[1:])

	var err error
	switch command {
	case "login":
		err = a.runLogin(parser)
	case "register":
		err = a.runRegister(parser)
	case "logout":
		err = a.runLogout()
	case "whoami":
		err = a.runWhoami()
	case "list", "ls":
		err = a.runList()
	case "upload":
		err = a.runUpload(parser)
	case "docs":
		err = a.runDocs(parser)
	case "memory":
		err = a.runMemory(parser)
	case "config":
		err = a.runConfig(parser)
	case "version", "--version", "-v":
		a.printVersion()
	case "help", "--help", "-h":
		fmt.Fprint(a.Out, usageText)
	default:
		fmt.Fprintf(a.ErrOut, "unknown command: %s\n\n", command)
		fmt.Fprint(a.ErrOut, usageText)
		return ExitUsageError
	}

	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(a.ErrOut, styles.RenderError(usageErr.Error()))
			fmt.Fprintln(a.ErrOut, "run \"dreamhub help\" for usage")
			return ExitUsageError
		}
		fmt.Fprintln(a.ErrOut, styles.RenderError(err.Error()))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func (a *App) printVersion() {
	fmt.Fprintf(a.Out, "dreamhub %s\n", Version)
	fmt.Fprintf(a.Out, "  commit:  %s\n", GitCommit)
	fmt.Fprintf(a.Out, "  built:   %s\n", BuildDate)
	fmt.Fprintf(a.Out, "  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// requireSession fails fast for commands that need authentication.
func (a *App) requireSession() error {
	if !a.Session.IsAuthenticated() {
		return fmt.Errorf("not signed in: %w", api.ErrUnauthorized)
	}
	return nil
}
