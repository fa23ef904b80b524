package settings

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const settingsFileName = ".chatwrap.local.md"

// Settings holds chatwrap configuration from a .chatwrap.local.md file.
// Pointer fields are nil when not set, allowing callers to distinguish
// "not configured" from "explicitly set to default".
type Settings struct {
	VaultPath       string `yaml:"vault_path"`
	Timezone        string `yaml:"timezone"`
	Notify          *bool  `yaml:"notify"`
	SkipWhenFocused *bool  `yaml:"skip_when_focused"`
	GitAutoPush     *bool  `yaml:"git_auto_push"`
}

// ReadAll reads settings with project-level overriding user-global.
// Project-level: $CHATWRAP_PROJECT_DIR/.chatwrap.local.md
// User-global:   ~/.chatwrap.local.md
// Returns zero Settings on any error.
func ReadAll() Settings {
	var s Settings

	// User-global (lowest priority, applied first)
	if home, err := os.UserHomeDir(); err == nil {
		global := readFrom(filepath.Join(home, settingsFileName))
		merge(&s, &global)
	}

	// Project-level (highest priority, overrides global)
	if projDir := os.Getenv("CHATWRAP_PROJECT_DIR"); projDir != "" {
		project := readFrom(filepath.Join(projDir, settingsFileName))
		merge(&s, &project)
	}

	return s
}

// merge overlays src onto dst. Non-nil/non-empty src fields override dst.
func merge(dst, src *Settings) {
	if src.VaultPath != "" {
		dst.VaultPath = src.VaultPath
	}
	if src.Timezone != "" {
		dst.Timezone = src.Timezone
	}
	if src.Notify != nil {
		dst.Notify = src.Notify
	}
	if src.SkipWhenFocused != nil {
		dst.SkipWhenFocused = src.SkipWhenFocused
	}
	if src.GitAutoPush != nil {
		dst.GitAutoPush = src.GitAutoPush
	}
}

// readFrom parses a single .local.md file's YAML frontmatter.
func readFrom(path string) Settings {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	fm := extractFrontmatter(string(data))
	if fm == "" {
		return s
	}
	if err := yaml.Unmarshal([]byte(fm), &s); err != nil {
		return Settings{}
	}
	return s
}

// extractFrontmatter returns the text between the first pair of "---" lines.
func extractFrontmatter(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			if start == -1 {
				start = i
			} else {
				return strings.Join(lines[start+1:i], "\n")
			}
		}
	}
	return ""
}
