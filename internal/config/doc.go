// Package config loads, normalizes, and validates coffeepad configuration.
//
// Settings come from a TOML file (default ~/.config/coffeepad/config.toml,
// then ./coffeepad.toml), with secrets such as the Azure speech key read
// from the environment. Load always returns a fully defaulted, validated
// Config with absolute paths.
package config
