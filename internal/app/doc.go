// Package app provides the orchestration layer for giftlist.
//
// # Overview
//
// This package wires together configuration, logging, the wishlist client,
// preferences and the UI. It is the composition root: every dependency is
// built here and handed down.
//
// # Startup
//
//  1. Load .env into the process environment (existing variables win)
//  2. Load ~/.config/giftlist/config.toml and apply GIFTLIST_* overrides
//  3. Open the diagnostic log file (the TUI owns the terminal)
//  4. Build the wishlist client with timeout and rate limit
//  5. Load the stored theme, or detect one from the terminal background
//  6. Start the TUI and a preferences watcher, block until exit
//
// # Commands
//
//   - Run: the interactive TUI
//   - List: one fetch, every wishlist expanded, written as plain text
//   - SwitchRole: ask the backend for a role and print the granted role
//
// # Error Handling
//
// Setup failures (bad config, unwritable log directory, invalid API URL)
// are returned from every command. Fetch and mutation failures inside the
// TUI are logged and shown on the status line; the program keeps running.
package app
