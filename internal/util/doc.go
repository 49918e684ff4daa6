// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the dreamhub client:
// atomic file writes, rune- and width-aware string truncation, and
// fmt-free number formatting for hot render paths.
package util
