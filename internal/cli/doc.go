// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the non-interactive dreamhub commands: account
management, conversation listing, knowledge-base uploads, structured
memory, and per-user model configuration.

Every command goes through App.Run, which parses arguments with the
shared ArgParser and returns a process exit code. Commands write to the
App's output writers so tests can capture them.
*/
package cli
