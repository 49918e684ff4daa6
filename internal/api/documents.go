// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/url"
)

// ListDocuments fetches the user's knowledge-base documents.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.getJSON(ctx, "/documents", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document and its derived chunks.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	return c.deleteJSON(ctx, "/documents/"+url.PathEscape(docID), nil)
}
