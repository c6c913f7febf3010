// Package config loads, normalizes, and validates imagegrouper settings.
//
// Settings come from repository defaults overlaid by an optional TOML file
// (by default ~/.config/imagegrouper/config.toml). Command-line flags are
// applied on top by the CLI after Load returns.
package config
