// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/url"

	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// chatRequest is the send-message body. ConversationID is omitted for
// the first message of a new conversation; the backend then assigns one.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ListConversations fetches the user's conversation summaries.
func (c *Client) ListConversations(ctx context.Context) ([]model.Summary, error) {
	var summaries []model.Summary
	if err := c.getJSON(ctx, "/conversations", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetMessages fetches the full ordered history of one conversation.
func (c *Client) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var wire []wireMessage
	path := "/chat/" + url.PathEscape(conversationID) + "/messages"
	if err := c.getJSON(ctx, path, &wire); err != nil {
		return nil, err
	}

	msgs := make([]model.Message, 0, len(wire))
	for _, w := range wire {
		msgs = append(msgs, w.toModel())
	}
	return msgs, nil
}

// SendMessage submits a user message. Pass conversationID "" for the
// first message of a new conversation; the response carries the ID the
// backend assigned. The assistant's reply is persisted server-side, so
// callers refetch history rather than trusting a local echo.
func (c *Client) SendMessage(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	var resp ChatResponse
	req := chatRequest{Message: message, ConversationID: conversationID}
	if err := c.postJSON(ctx, "/chat", true, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
