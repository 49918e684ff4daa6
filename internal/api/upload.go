// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

// MaxUploadSize caps the file size accepted for upload. The backend
// enforces its own limit; this just fails fast before buffering.
const MaxUploadSize = 50 * 1024 * 1024

// UploadFile submits one file for ingestion as multipart/form-data
// under the field name "file". The backend answers 202 with the task
// ID of the asynchronous processing job; there is no progress channel
// and no retry - a failed upload is simply reported.
func (c *Client) UploadFile(ctx context.Context, filename string, size int64, r io.Reader) (*UploadResponse, error) {
	if size > MaxUploadSize {
		return nil, fmt.Errorf("file too large: %d bytes (limit %d)", size, MaxUploadSize)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(r, MaxUploadSize+1)); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var resp UploadResponse
	if err := c.do(ctx, "POST", "/upload", true, writer.FormDataContentType(), buf.Bytes(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTaskStatus polls the processing state of an upload task.
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	var status TaskStatus
	if err := c.getJSON(ctx, "/tasks/"+taskID+"/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
