// Package config loads and validates tnadl settings.
//
// Settings come from three layers, later ones winning: built-in defaults,
// an optional TOML file ($XDG_CONFIG_HOME/tnadl/config.toml unless a path is
// given) and TNADL_* environment variables. Command-line flags are applied
// on top by the CLI.
package config
