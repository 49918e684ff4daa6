// dreamhub TUI - A terminal client for the DreamHub personal AI hub.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soaringjerry/dreamhub-tui/internal/api"
	"github.com/soaringjerry/dreamhub-tui/internal/cli"
	"github.com/soaringjerry/dreamhub-tui/internal/config"
	"github.com/soaringjerry/dreamhub-tui/internal/session"
	"github.com/soaringjerry/dreamhub-tui/internal/storage"
	"github.com/soaringjerry/dreamhub-tui/internal/store"
	"github.com/soaringjerry/dreamhub-tui/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dreamhub: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Server.URL).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.Server.MaxRetries)

	sessionPath, err := storage.DefaultSessionPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dreamhub: cannot locate home directory: %v\n", err)
		os.Exit(1)
	}
	sessionRepo, err := storage.NewFileSessionRepository(sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dreamhub: cannot prepare session storage: %v\n", err)
		os.Exit(1)
	}

	sess := session.NewManager(client, sessionRepo)
	sess.Restore()

	// Non-interactive commands skip the TUI entirely.
	if len(os.Args) > 1 {
		app := &cli.App{
			Client:  client,
			Session: sess,
			Config:  cfg,
			In:      os.Stdin,
			Out:     os.Stdout,
			ErrOut:  os.Stderr,
		}
		os.Exit(app.Run(os.Args[1:]))
	}

	os.Exit(runTUI(cfg, client, sess))
}

// runTUI starts the interactive client.
func runTUI(cfg *config.Config, client *api.Client, sess *session.Manager) int {
	// The TUI owns the terminal, so background warnings go to a file.
	stateDir, stateDirErr := cfg.StateDir()
	if stateDirErr == nil {
		logFile, err := os.OpenFile(filepath.Join(stateDir, "dreamhub.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err == nil {
			log.SetOutput(logFile)
			defer logFile.Close()
		}
	}

	var cache store.Cache
	if cfg.Storage.CacheEnabled {
		if stateDirErr == nil {
			chatState, err := storage.NewChatStateStore(filepath.Join(stateDir, "chatstate.db"))
			if err != nil {
				log.Printf("chat cache disabled: %v", err)
			} else {
				defer chatState.Close()
				cache = chatState
			}
		}
	}

	st := store.New(client, cache)
	m := chat.New(st, sess, cfg)

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Forced logouts can fire from any request goroutine.
	sess.SetLogoutCallback(func(forced bool) {
		program.Send(chat.LoggedOutMsg{Forced: forced})
	})

	// Hot-reload config edits into the running UI.
	if path, err := config.Path(); err == nil {
		watcher, err := config.Watch(path, func(updated *config.Config) {
			program.Send(chat.ConfigReloadedMsg{
				ThemeMode: updated.UI.Theme,
				Markdown:  updated.UI.Markdown,
			})
		})
		if err == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "dreamhub: %v\n", err)
		return 1
	}
	return 0
}
