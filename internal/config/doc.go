// Package config loads rentdesk's configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (see Default)
//  2. The TOML file, ~/.config/rentdesk/config.toml unless a path is given
//  3. A .env file in the working directory, if present
//  4. RENTDESK_* environment variables
//
// A missing config file is not an error. Blank values fall back to the
// defaults and tilde paths are expanded.
//
// # TOML Format
//
//	api_url = "http://localhost:4001/api"
//	log_dir = "~/.local/share/rentdesk/logs"
//	log_level = "info"
//	page_size = 20
//	request_timeout = ""   # empty means requests never time out
//
// # Error Handling
//
// Load returns errors for unreadable files, invalid TOML, a malformed
// request_timeout and a malformed .env file.
package config
