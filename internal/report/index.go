package report

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const indexFileName = "Wraps.md"

var (
	wrapFileRe    = regexp.MustCompile(`^Wrap-(\d{4})\.md$`)
	personalityRe = regexp.MustCompile(`(?m)^personality:\s*"?([^"\n]+)"?$`)
	themeRe       = regexp.MustCompile(`(?m)^theme:\s*"?([^"\n]+)"?$`)
)

type indexEntry struct {
	Year        string
	Personality string
	Theme       string
}

// RebuildIndex rewrites Wraps.md, linking every Wrap-<year>.md note in
// vaultDir newest first. Nothing is written when there are no wraps.
func RebuildIndex(vaultDir string) error {
	entries, err := os.ReadDir(vaultDir)
	if err != nil {
		return err
	}

	var wraps []indexEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := wrapFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(vaultDir, e.Name()))
		if err != nil {
			continue
		}
		entry := indexEntry{Year: m[1]}
		if pm := personalityRe.FindSubmatch(content); pm != nil {
			entry.Personality = strings.TrimSpace(string(pm[1]))
		}
		if tm := themeRe.FindSubmatch(content); tm != nil {
			entry.Theme = strings.TrimSpace(string(tm[1]))
		}
		wraps = append(wraps, entry)
	}

	if len(wraps) == 0 {
		return nil
	}

	sort.Slice(wraps, func(i, j int) bool {
		return wraps[i].Year > wraps[j].Year
	})

	var sb strings.Builder
	sb.WriteString("---\ntype: chat-wrap-index\nauto_generated: true\ntags:\n  - chat-wrap\n---\n\n# ChatGPT Wraps\n\n")
	for _, w := range wraps {
		var parts []string
		if w.Personality != "" {
			parts = append(parts, w.Personality)
		}
		if w.Theme != "" {
			parts = append(parts, w.Theme)
		}
		meta := ""
		if len(parts) > 0 {
			meta = " (" + strings.Join(parts, ", ") + ")"
		}
		sb.WriteString("- [[Wrap-" + w.Year + "|" + w.Year + "]]" + meta + "\n")
	}

	return os.WriteFile(filepath.Join(vaultDir, indexFileName), []byte(sb.String()), 0644)
}
