// Package config loads and validates lyricsync's TOML configuration.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/lyricsync/config.toml, then ./lyricsync.toml; missing files fall
// back to defaults so the CLI works out of the box.
package config
