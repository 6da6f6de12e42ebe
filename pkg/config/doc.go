// Package config handles configuration management for sharedpkg.
//
// Configuration is layered with koanf, lowest precedence first: embedded
// defaults, an optional TOML or YAML file, SHAREDPKG_* environment
// variables, and explicit overrides (usually command-line flags). The
// result is decoded into Config, normalized, and validated once at startup.
// Validation failures are CONFIG_INVALID errors and abort before any
// installer operation runs.
package config
