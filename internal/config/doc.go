// Package config loads giftlist's TOML configuration.
//
// # Resolution
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/giftlist/config.toml
//  3. If the file doesn't exist, fall back to built-in defaults
//  4. Apply GIFTLIST_API_URL, GIFTLIST_LOG_LEVEL and GIFTLIST_LOG_FILE
//
// LoadEnvFile reads a .env file into the environment before Load runs, so
// values there behave like exported variables. Variables already exported
// take precedence over the .env file.
//
// # Defaults
//
//	api_url = "http://127.0.0.1:8000"
//	request_timeout_seconds = 10   # 0 disables the timeout
//	refresh_seconds = 0            # 0 disables auto refresh
//	strict_delete = true           # retype the name to delete a wishlist
//	log_file = "~/.local/state/giftlist/giftlist.log"
//	log_level = "info"
//	rate_per_second = 10           # 0 disables client-side limiting
//
// Tilde expansion is applied to the config path and log_file.
//
// # Error Handling
//
// Missing files are not an error. Unreadable files, malformed TOML and
// negative durations are.
package config
