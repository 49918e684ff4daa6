// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"time"

	"github.com/soaringjerry/dreamhub-tui/internal/model"
)

// =============================================================================
// AUTH TYPES
// =============================================================================

// User is the sanitized user record the backend returns; it never
// carries credential material.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// =============================================================================
// CHAT TYPES
// =============================================================================

// ChatResponse is the reply to a sent message. ConversationID echoes
// the existing conversation or names the newly created one.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

// wireMessage is the backend's message shape. The sender role arrives
// as "user"/"ai" and is normalized into model.Role.
type wireMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderRole     string    `json:"sender_role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

func (w wireMessage) toModel() model.Message {
	return model.Message{
		ID:             w.ID,
		ConversationID: w.ConversationID,
		Role:           model.ParseRole(w.SenderRole),
		Content:        w.Content,
		CreatedAt:      w.Timestamp,
	}
}

// =============================================================================
// UPLOAD TYPES
// =============================================================================

// UploadResponse acknowledges an accepted file. Processing continues
// asynchronously server-side under TaskID.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	DocID    string `json:"doc_id"`
	TaskID   string `json:"task_id"`
}

// TaskStatus reports the state of an asynchronous processing job.
type TaskStatus struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Error     string    `json:"error_message,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is an entry in the user's knowledge base.
type Document struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	ContentType      string    `json:"content_type"`
	UploadTime       time.Time `json:"upload_time"`
	ProcessingStatus string    `json:"processing_status"`
}

// =============================================================================
// USER CONFIG TYPES
// =============================================================================

// UserConfig is the personalization record. The backend never returns
// the stored API key, only whether one is set.
type UserConfig struct {
	APIEndpoint *string `json:"api_endpoint"`
	ModelName   *string `json:"model_name"`
	APIKeyIsSet bool    `json:"api_key_is_set"`
}

// UserConfigUpdate carries a partial update. Nil fields are left
// unchanged; an empty-string APIKey clears the stored key.
type UserConfigUpdate struct {
	APIEndpoint *string `json:"api_endpoint,omitempty"`
	ModelName   *string `json:"model_name,omitempty"`
	APIKey      *string `json:"api_key,omitempty"`
}

// =============================================================================
// STRUCTURED MEMORY TYPES
// =============================================================================

// MemoryEntry is one key-value fact in the user's structured memory.
type MemoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
