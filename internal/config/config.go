package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/valentinclaes/chat-wrap/internal/settings"
)

// Config holds chatwrap settings from config.json and/or .chatwrap.local.md.
type Config struct {
	VaultPath       string `json:"vault_path"`
	Timezone        string `json:"timezone"`
	Notify          bool   `json:"notify"`
	SkipWhenFocused bool   `json:"skip_when_focused"`
	GitAutoPush     bool   `json:"git_auto_push"`
}

func defaults() Config {
	return Config{
		Notify:          true,
		SkipWhenFocused: true,
		GitAutoPush:     false,
	}
}

// Load reads config from ~/.chatwrap/config.json, then overlays
// any settings from .chatwrap.local.md (user-global then project-level).
// Returns defaults on any error (missing file, bad JSON, etc.).
func Load() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return applySettings(defaults(), settings.ReadAll())
	}
	cfg := loadFrom(filepath.Join(home, ".chatwrap", "config.json"))
	return applySettings(cfg, settings.ReadAll())
}

func loadFrom(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults()
	}

	cfg := defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults()
	}
	return cfg
}

// applySettings overlays .local.md settings on top of the config.
// Settings file values take priority over config.json when set.
func applySettings(cfg Config, s settings.Settings) Config {
	if s.VaultPath != "" {
		cfg.VaultPath = s.VaultPath
	}
	if s.Timezone != "" {
		cfg.Timezone = s.Timezone
	}
	if s.Notify != nil {
		cfg.Notify = *s.Notify
	}
	if s.SkipWhenFocused != nil {
		cfg.SkipWhenFocused = *s.SkipWhenFocused
	}
	if s.GitAutoPush != nil {
		cfg.GitAutoPush = *s.GitAutoPush
	}
	return cfg
}

// Location resolves Timezone, falling back to the local zone when it is
// empty or unknown.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
