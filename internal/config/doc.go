// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the DreamHub
// client: TOML file at ~/.dreamhub/config.toml, sensible defaults,
// DREAMHUB_* environment overrides, validation, and hot reload of
// file edits.
package config
