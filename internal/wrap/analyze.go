// Package wrap derives year-in-review statistics from a chat export.
package wrap

import (
	"math"
	"sort"
	"time"

	"github.com/valentinclaes/chat-wrap/internal/archive"
)

const (
	maxTopTopics        = 10
	maxTopEmojis        = 5
	maxTopConversations = 5
	notAvailable        = "N/A"
)

// Analytics is the finished wrap for one archive.
type Analytics struct {
	TotalConversations     int                 `json:"totalConversations"`
	TotalUserMessages      int                 `json:"totalUserMessages"`
	TotalAssistantMessages int                 `json:"totalAssistantMessages"`
	TotalWords             int                 `json:"totalWords"`
	FirstMessageDate       *time.Time          `json:"firstMessageDate"`
	LastMessageDate        *time.Time          `json:"lastMessageDate"`
	MostActiveMonth        string              `json:"mostActiveMonth"`
	MostActiveDay          string              `json:"mostActiveDay"`
	MostActiveHour         int                 `json:"mostActiveHour"`
	LongestConversation    LongestConversation `json:"longestConversation"`
	NightOwlScore          int                 `json:"nightOwlScore"`
	TopTopics              []TopicCount        `json:"topTopics"`
	ModelUsage             map[string]int      `json:"modelUsage"`
	MonthlyActivity        []MonthCount        `json:"monthlyActivity"`
	HourlyActivity         [24]int             `json:"hourlyActivity"`
	AvgResponseLength      int                 `json:"avgResponseLength"`
	TopConversations       []ConversationBrief `json:"topConversations"`

	LongestStreak            Streak       `json:"longestStreak"`
	AverageSessionLength     float64      `json:"averageSessionLength"`
	TotalTimeSpent           int          `json:"totalTimeSpent"`
	BusiestWeek              WeekCount    `json:"busiestWeek"`
	MessagingPace            float64      `json:"messagingPace"`
	WeekendVsWeekday         WeekSplit    `json:"weekendVsWeekday"`
	ProductivityScore        int          `json:"productivityScore"`
	ConversationDepth        int          `json:"conversationDepth"`
	TopEmojis                []EmojiCount `json:"topEmojis"`
	QuestionToStatementRatio int          `json:"questionToStatementRatio"`
	CodeBlockCount           int          `json:"codeBlockCount"`
	MostProductiveHours      []int        `json:"mostProductiveHours"`
	AvgConversationLifespan  float64      `json:"avgConversationLifespan"`
	MultiDayConversations    int          `json:"multiDayConversations"`
	PersonalityType          string       `json:"personalityType"`
	DominantTheme            string       `json:"dominantTheme"`
	ResponseTimePattern      string       `json:"responseTimePattern"`
}

// LongestConversation is the conversation with the most user messages.
type LongestConversation struct {
	Title        string `json:"title"`
	MessageCount int    `json:"messageCount"`
}

// TopicCount is one ranked topic word.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// EmojiCount is one ranked emoji.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// MonthCount is the user message count for one calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// WeekCount names a week by the date of its Sunday.
type WeekCount struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// WeekSplit counts user messages sent on weekends and on weekdays.
type WeekSplit struct {
	Weekend int `json:"weekend"`
	Weekday int `json:"weekday"`
}

// ConversationBrief is a conversation title with its creation date.
type ConversationBrief struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Analyze computes the wrap for convs. Times are bucketed in loc; nil
// means time.Local. The input is not modified.
func Analyze(convs []archive.Conversation, loc *time.Location) Analytics {
	if loc == nil {
		loc = time.Local
	}

	t := aggregate(convs, loc)
	streak := LongestStreak(t.dates)

	a := Analytics{
		TotalConversations:     len(convs),
		TotalUserMessages:      t.userMessages,
		TotalAssistantMessages: t.assistantMessages,
		TotalWords:             t.totalWords,
		FirstMessageDate:       t.first,
		LastMessageDate:        t.last,
		HourlyActivity:         t.hours,
		LongestConversation:    t.longest,
		NightOwlScore:          t.night,
		ModelUsage:             t.models.toMap(),
		MonthlyActivity:        monthlyActivity(t),
		TopConversations:       firstBriefs(t.briefs),
		LongestStreak:          streak,
		WeekendVsWeekday:       WeekSplit{Weekend: t.weekend, Weekday: t.weekday},
		CodeBlockCount:         t.codeBlocks,
		MultiDayConversations:  t.multiDay,
	}

	a.MostActiveMonth, _ = t.months.top(notAvailable)
	a.MostActiveDay, _ = t.days.top(notAvailable)
	a.MostActiveHour = busiestHour(t.hours)

	week, count := t.weeks.top(notAvailable)
	a.BusiestWeek = WeekCount{Week: week, Count: count}

	allTopics := topicCounts(t.topics.ranked(classifyTopics))
	a.TopTopics = allTopics[:min(len(allTopics), maxTopTopics)]
	a.TopEmojis = emojiCounts(t.emojis.ranked(maxTopEmojis))

	if t.assistantMessages > 0 {
		a.AvgResponseLength = int(math.Round(float64(t.totalWords) / float64(t.assistantMessages)))
	}

	// Derived scores.
	avgLifespan := roundTenth(mean(t.lifespans))
	a.AverageSessionLength = avgLifespan
	a.AvgConversationLifespan = avgLifespan
	a.TotalTimeSpent = int(math.Round(t.totalLifespan))
	a.ConversationDepth = conversationDepth(t.userMessages, t.assistantMessages, len(convs))
	a.ProductivityScore = productivityScore(t.userMessages, streak.Days, t.codeBlocks, len(convs))
	a.MessagingPace = messagingPace(t.userMessages, streak.Days)
	a.QuestionToStatementRatio = questionRatio(t.questions, t.statements)
	a.MostProductiveHours = productiveHours(t.hours)
	a.ResponseTimePattern = responseTimePattern(a.MostActiveHour)

	// Classification.
	sig := signals{
		UserMessages:    t.userMessages,
		NightMessages:   t.night,
		Weekend:         t.weekend,
		Weekday:         t.weekday,
		CodeBlocks:      t.codeBlocks,
		Topics:          allTopics,
		AvgSessionHours: mean(t.lifespans),
		Depth:           a.ConversationDepth,
		QuestionRatio:   a.QuestionToStatementRatio,
	}
	a.PersonalityType = classifyPersonality(sig)
	a.DominantTheme = dominantTheme(allTopics)

	return a
}

func topicCounts(entries []rankEntry) []TopicCount {
	out := make([]TopicCount, len(entries))
	for i, e := range entries {
		out[i] = TopicCount{Topic: e.Key, Count: e.Count}
	}
	return out
}

func emojiCounts(entries []rankEntry) []EmojiCount {
	out := make([]EmojiCount, len(entries))
	for i, e := range entries {
		out[i] = EmojiCount{Emoji: e.Key, Count: e.Count}
	}
	return out
}

// monthlyActivity lists every month with activity in calendar order.
func monthlyActivity(t *tally) []MonthCount {
	entries := t.months.entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return t.monthStarts[entries[i].Key].Before(t.monthStarts[entries[j].Key])
	})
	out := make([]MonthCount, len(entries))
	for i, e := range entries {
		out[i] = MonthCount{Month: e.Key, Count: e.Count}
	}
	return out
}

func firstBriefs(briefs []ConversationBrief) []ConversationBrief {
	out := make([]ConversationBrief, 0, maxTopConversations)
	for _, b := range briefs {
		if len(out) == maxTopConversations {
			break
		}
		out = append(out, b)
	}
	return out
}
