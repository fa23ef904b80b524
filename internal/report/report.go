// Package report renders a wrap as an Obsidian note and as a short share card.
package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/valentinclaes/chat-wrap/internal/config"
	"github.com/valentinclaes/chat-wrap/internal/wrap"
)

const (
	dateLayout    = "Jan 2, 2006"
	maxTitleLen   = 60
	shareTopicCap = 5
)

// ErrNoVault is returned when no vault directory is configured.
var ErrNoVault = errors.New("report: no vault directory configured")

// VaultDir returns the Obsidian vault directory.
// Priority: 1) CHATWRAP_VAULT env var, 2) config/settings vault_path.
func VaultDir(cfg config.Config) string {
	if v := os.Getenv("CHATWRAP_VAULT"); v != "" {
		return v
	}
	return cfg.VaultPath
}

// Year picks the year a wrap is filed under: the year of its last message,
// or now's year for an archive without timestamps.
func Year(a wrap.Analytics, now time.Time) int {
	if a.LastMessageDate != nil {
		return a.LastMessageDate.Year()
	}
	return now.Year()
}

// FileName is the vault file a wrap for year is written to.
func FileName(year int) string {
	return fmt.Sprintf("Wrap-%d.md", year)
}

// WriteWrap writes the wrap note into vaultDir and returns its path.
// An existing note already written today is left alone unless force is set;
// written reports whether the file changed.
func WriteWrap(vaultDir string, a wrap.Analytics, now time.Time, force bool, log *slog.Logger) (path string, written bool, err error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if vaultDir == "" {
		return "", false, ErrNoVault
	}
	if err := os.MkdirAll(vaultDir, 0755); err != nil {
		return "", false, fmt.Errorf("report: create vault dir: %w", err)
	}

	year := Year(a, now)
	path = filepath.Join(vaultDir, FileName(year))
	if !force && !isStaleToday(path, now) {
		log.Debug("wrap note is current", "path", path)
		return path, false, nil
	}

	if err := os.WriteFile(path, []byte(BuildWrapReport(a, year, now)), 0644); err != nil {
		return "", false, fmt.Errorf("report: write %s: %w", path, err)
	}
	log.Info("wrote wrap note", "path", path, "year", year)
	return path, true, nil
}

// isStaleToday returns true if path doesn't exist or was last modified before today.
func isStaleToday(path string, now time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.ModTime().In(now.Location()).Format("2006-01-02") != now.Format("2006-01-02")
}

// BuildWrapReport renders the full Markdown note for one year.
func BuildWrapReport(a wrap.Analytics, year int, now time.Time) string {
	var sb strings.Builder

	// Frontmatter
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("year: %d\n", year))
	sb.WriteString("type: chat-wrap\n")
	sb.WriteString("auto_generated: true\n")
	sb.WriteString(fmt.Sprintf("generated: %s\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("personality: %q\n", a.PersonalityType))
	sb.WriteString(fmt.Sprintf("theme: %q\n", a.DominantTheme))
	sb.WriteString("tags:\n  - chat-wrap\n")
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# ChatGPT Wrap %d\n\n", year))
	sb.WriteString(fmt.Sprintf("> [!wrap] %s\n> %s\n\n", a.PersonalityType, a.DominantTheme))

	// Overview
	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Conversations | %s |\n", humanize.Comma(int64(a.TotalConversations))))
	sb.WriteString(fmt.Sprintf("| Messages Sent | %s |\n", humanize.Comma(int64(a.TotalUserMessages))))
	sb.WriteString(fmt.Sprintf("| Replies Received | %s |\n", humanize.Comma(int64(a.TotalAssistantMessages))))
	sb.WriteString(fmt.Sprintf("| Words Written | %s |\n", humanize.Comma(int64(a.TotalWords))))
	sb.WriteString(fmt.Sprintf("| First Message | %s |\n", formatDate(a.FirstMessageDate)))
	sb.WriteString(fmt.Sprintf("| Last Message | %s |\n", formatDate(a.LastMessageDate)))
	sb.WriteString(fmt.Sprintf("| Time Spent | %s |\n", formatDuration(float64(a.TotalTimeSpent))))
	sb.WriteString(fmt.Sprintf("| Avg Words per Reply | %d |\n", a.AvgResponseLength))
	sb.WriteString("\n")

	// Top Topics
	if len(a.TopTopics) > 0 {
		total := 0
		for _, t := range a.TopTopics {
			total += t.Count
		}
		sb.WriteString("## Top Topics\n\n")
		sb.WriteString("| # | Topic | Mentions | % |\n|---|-------|----------|---|\n")
		for i, t := range a.TopTopics {
			pct := float64(t.Count) / float64(total) * 100
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %.0f%% |\n", i+1, t.Topic, humanize.Comma(int64(t.Count)), pct))
		}
		sb.WriteString("\n")
	}

	// Models
	models := sortedModels(a.ModelUsage)
	if len(models) > 0 {
		sb.WriteString("## Models\n\n")
		sb.WriteString("| Model | Replies | % |\n|-------|---------|---|\n")
		for _, m := range models {
			pct := float64(m.Count) / float64(a.TotalAssistantMessages) * 100
			sb.WriteString(fmt.Sprintf("| %s | %s | %.0f%% |\n", m.Name, humanize.Comma(int64(m.Count)), pct))
		}
		sb.WriteString("\n")
	}

	// Monthly Activity
	if len(a.MonthlyActivity) > 0 {
		sb.WriteString("## Monthly Activity\n\n")
		sb.WriteString("| Month | Messages |\n|-------|----------|\n")
		for _, m := range a.MonthlyActivity {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", m.Month, humanize.Comma(int64(m.Count))))
		}
		sb.WriteString("\n")
	}

	// Hours
	if a.LastMessageDate != nil {
		sb.WriteString("## Hours\n\n")
		sb.WriteString("| Hour | Messages |\n|------|----------|\n")
		for h, n := range a.HourlyActivity {
			if n == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", formatHour(h), n))
		}
		sb.WriteString("\n")
	}

	// Streaks & Habits
	sb.WriteString("## Streaks & Habits\n\n")
	if a.LongestStreak.Days > 0 {
		sb.WriteString(fmt.Sprintf("- **Longest streak**: %d days (%s to %s)\n",
			a.LongestStreak.Days, a.LongestStreak.StartDate, a.LongestStreak.EndDate))
	}
	sb.WriteString(fmt.Sprintf("- **Busiest week**: %s (%d messages)\n", a.BusiestWeek.Week, a.BusiestWeek.Count))
	sb.WriteString(fmt.Sprintf("- **Most active month**: %s\n", a.MostActiveMonth))
	sb.WriteString(fmt.Sprintf("- **Most active day**: %s\n", a.MostActiveDay))
	sb.WriteString(fmt.Sprintf("- **Power hour**: %s (%s)\n", formatHour(a.MostActiveHour), a.ResponseTimePattern))
	sb.WriteString(fmt.Sprintf("- **Most productive hours**: %s\n", formatHours(a.MostProductiveHours)))
	sb.WriteString(fmt.Sprintf("- **Weekend vs weekday**: %d / %d\n", a.WeekendVsWeekday.Weekend, a.WeekendVsWeekday.Weekday))
	sb.WriteString(fmt.Sprintf("- **Night owl messages**: %d\n", a.NightOwlScore))
	sb.WriteString(fmt.Sprintf("- **Messaging pace**: %.1f per streak day\n", a.MessagingPace))
	sb.WriteString(fmt.Sprintf("- **Avg conversation lifespan**: %s\n", formatDuration(a.AvgConversationLifespan)))
	sb.WriteString(fmt.Sprintf("- **Multi-day conversations**: %d\n", a.MultiDayConversations))
	sb.WriteString("\n")

	// Style
	sb.WriteString("## Style\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Productivity | %d/100 |\n", a.ProductivityScore))
	sb.WriteString(fmt.Sprintf("| Conversation Depth | %d |\n", a.ConversationDepth))
	sb.WriteString(fmt.Sprintf("| Questions | %d%% |\n", a.QuestionToStatementRatio))
	sb.WriteString(fmt.Sprintf("| Code Blocks | %s |\n", humanize.Comma(int64(a.CodeBlockCount))))
	if a.LongestConversation.MessageCount > 0 {
		sb.WriteString(fmt.Sprintf("| Longest Conversation | %s (%d messages) |\n",
			escapeCell(truncate(a.LongestConversation.Title, maxTitleLen)), a.LongestConversation.MessageCount))
	}
	if len(a.TopEmojis) > 0 {
		var emojis []string
		for _, e := range a.TopEmojis {
			emojis = append(emojis, fmt.Sprintf("%s ×%d", e.Emoji, e.Count))
		}
		sb.WriteString(fmt.Sprintf("| Top Emojis | %s |\n", strings.Join(emojis, ", ")))
	}
	sb.WriteString("\n")

	// Where it started
	if len(a.TopConversations) > 0 {
		sb.WriteString("## Where It Started\n\n")
		for _, c := range a.TopConversations {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", c.Date, truncate(c.Title, maxTitleLen)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

type modelAgg struct {
	Name  string
	Count int
}

func sortedModels(usage map[string]int) []modelAgg {
	var models []modelAgg
	for name, count := range usage {
		models = append(models, modelAgg{name, count})
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Count != models[j].Count {
			return models[i].Count > models[j].Count
		}
		return models[i].Name < models[j].Name
	})
	return models
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

// formatDuration converts hours to a human-readable length.
func formatDuration(hours float64) string {
	totalMin := int(math.Round(hours * 60))
	if totalMin <= 0 {
		return "0m"
	}
	h := totalMin / 60
	m := totalMin % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("~%sh %dm", humanize.Comma(int64(h)), m)
	}
	if h > 0 {
		return fmt.Sprintf("~%sh", humanize.Comma(int64(h)))
	}
	return fmt.Sprintf("%dm", m)
}

func formatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func formatHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = formatHour(h)
	}
	return strings.Join(parts, ", ")
}

// truncate shortens s to maxLen runes with an ellipsis.
func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "…"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
