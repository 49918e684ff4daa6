// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// requestTimeout bounds every store command issued from the UI. Chat
// replies can take a while on slow models, so this is generous.
const requestTimeout = 120 * time.Second

// =============================================================================
// STORE COMMANDS
// =============================================================================

func (m *Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := m.session.Login(ctx, username, password)
		return loggedInMsg{err: err}
	}
}

// registerCmd creates the account and immediately signs in with the
// same credentials.
func (m *Model) registerCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := m.session.Register(ctx, username, password); err != nil {
			return loggedInMsg{err: err}
		}
		_, err := m.session.Login(ctx, username, password)
		return loggedInMsg{err: err}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Logout()
		// The logout callback sends LoggedOutMsg through the program;
		// nothing more to report here.
		return nil
	}
}

func (m *Model) fetchConversationsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return conversationsLoadedMsg{err: m.store.FetchConversations(ctx)}
	}
}

func (m *Model) fetchMessagesCmd(conversationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return messagesLoadedMsg{
			conversationID: conversationID,
			err:            m.store.FetchMessages(ctx, conversationID),
		}
	}
}

func (m *Model) sendMessageCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return sentMsg{err: m.store.SendMessage(ctx, text)}
	}
}

// uploadFileCmd opens and streams a local file to the knowledge base.
func (m *Model) uploadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		name := filepath.Base(path)

		f, err := os.Open(path)
		if err != nil {
			return uploadedMsg{filename: name, err: err}
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return uploadedMsg{filename: name, err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err = m.store.UploadFile(ctx, name, info.Size(), f)
		return uploadedMsg{filename: name, err: err}
	}
}
