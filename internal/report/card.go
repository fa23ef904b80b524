package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/valentinclaes/chat-wrap/internal/wrap"
)

// ShareCard renders the short plain-text summary meant for sharing.
func ShareCard(a wrap.Analytics) string {
	var sb strings.Builder
	sb.WriteString("My ChatGPT Year Wrapped\n\n")

	sb.WriteString(fmt.Sprintf("%s Conversations · %s Messages Sent\n",
		humanize.Comma(int64(a.TotalConversations)), humanize.Comma(int64(a.TotalUserMessages))))
	sb.WriteString(fmt.Sprintf("%d 🔥 Day Streak · %d/100 Productivity\n\n", a.LongestStreak.Days, a.ProductivityScore))

	sb.WriteString(fmt.Sprintf("I'm a %s\n%s\n\n", a.PersonalityType, a.DominantTheme))

	if len(a.TopTopics) > 0 {
		sb.WriteString("Top Topics\n")
		for i, t := range a.TopTopics {
			if i == shareTopicCap {
				break
			}
			sb.WriteString(fmt.Sprintf("#%d %s\n", i+1, t.Topic))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Peak Day: %s · Power Hour: %s · Avg Depth: %d\n",
		a.MostActiveDay, formatHour(a.MostActiveHour), a.ConversationDepth))
	if a.CodeBlockCount > 0 {
		sb.WriteString(fmt.Sprintf("%s Code Blocks Shared 💻\n", humanize.Comma(int64(a.CodeBlockCount))))
	}
	if a.FirstMessageDate != nil && a.LastMessageDate != nil {
		sb.WriteString(fmt.Sprintf("%s - %s\n", formatDate(a.FirstMessageDate), formatDate(a.LastMessageDate)))
	}
	sb.WriteString(a.ResponseTimePattern + "\n")
	return sb.String()
}
