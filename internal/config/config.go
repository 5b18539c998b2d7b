// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for gameverse.
//
// Configuration is read once at startup from ~/.gameverse/config.toml
// (when present), with environment variable overrides applied on top:
//
//	GAMEVERSE_CHAT_API_ID  service instance id for the chat bot
//	GAMEVERSE_USER_KEY     bearer user key for the chat service
//	GAMEVERSE_CHAT_URL     chat service base URL override
//
// The config file acts as the opaque credential source for the chat
// client; Watch re-reads it on change so a rotated user key can be
// adopted by a running session.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultChatURL is the chat service base URL used when no override is
// configured.
const DefaultChatURL = "https://chat.botpress.cloud"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete gameverse configuration.
type Config struct {
	Chat      ChatConfig      `toml:"chat"`
	UI        UIConfig        `toml:"ui"`
	Analytics AnalyticsConfig `toml:"analytics"`
}

// ChatConfig holds the chat service credentials.
type ChatConfig struct {
	// APIID is the service instance id scoping all chat API calls.
	APIID string `toml:"api_id"`
	// UserKey is the issued end-user bearer credential.
	UserKey string `toml:"user_key"`
	// BaseURL overrides the chat service base URL (for testing).
	BaseURL string `toml:"base_url"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Plain forces the line-based REPL instead of the full TUI.
	Plain bool `toml:"plain"`
}

// AnalyticsConfig holds settings for the session event log.
type AnalyticsConfig struct {
	// Path is the sqlite database path. Empty means a per-run
	// temporary file, discarded with the session.
	Path string `toml:"path"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Chat: ChatConfig{BaseURL: DefaultChatURL},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// ConfigDir returns the gameverse configuration directory (~/.gameverse).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".gameverse"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file (when present), applies environment
// overrides and validates the result. A missing file is not an error;
// defaults plus environment are used.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path, for tests and --config.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GAMEVERSE_CHAT_API_ID"); v != "" {
		cfg.Chat.APIID = v
	}
	if v := os.Getenv("GAMEVERSE_USER_KEY"); v != "" {
		cfg.Chat.UserKey = v
	}
	if v := os.Getenv("GAMEVERSE_CHAT_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}
}

// Validate checks the configuration for structural problems. Missing
// credentials are allowed (the chat page degrades gracefully); a
// malformed base URL is not.
func (c *Config) Validate() error {
	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = DefaultChatURL
	}
	u, err := url.Parse(c.Chat.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid chat base_url %q", c.Chat.BaseURL)
	}
	return nil
}

// ChatConfigured reports whether both chat credentials are present.
func (c *Config) ChatConfigured() bool {
	return c.Chat.APIID != "" && c.Chat.UserKey != ""
}

// Save writes the config to the default path with owner-only
// permissions (the file holds a bearer credential).
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
