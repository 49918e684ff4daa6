// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION REF
// =============================================================================

// ConversationRef identifies the active conversation as an explicit
// two-case state machine: a pending conversation that has no server
// identity yet, or a persisted one addressed by its server ID. The
// zero value means no conversation is active at all.
type ConversationRef struct {
	id      string
	pending bool
}

// NoConversation is the zero ref: nothing active.
var NoConversation = ConversationRef{}

// PendingConversation returns a ref for a conversation that exists only
// locally; the server assigns an ID once the first message is sent.
func PendingConversation() ConversationRef {
	return ConversationRef{pending: true}
}

// PersistedConversation returns a ref addressing a server conversation.
func PersistedConversation(id string) ConversationRef {
	if id == "" {
		return NoConversation
	}
	return ConversationRef{id: id}
}

// IsPending reports whether the ref is the pre-persist state.
func (r ConversationRef) IsPending() bool {
	return r.pending
}

// IsNone reports whether no conversation is referenced.
func (r ConversationRef) IsNone() bool {
	return !r.pending && r.id == ""
}

// ID returns the server ID and true for persisted refs.
func (r ConversationRef) ID() (string, bool) {
	if r.pending || r.id == "" {
		return "", false
	}
	return r.id, true
}
