package wrap

import (
	"strings"
	"time"

	"github.com/valentinclaes/chat-wrap/internal/archive"
)

const (
	monthLayout = "January 2006"
	briefLayout = "Jan 2, 2006"
	nightEnd    = 6 // night-owl hours are [0, nightEnd)
)

// tally accumulates the raw counters of one pass over an archive.
type tally struct {
	conversations     int
	userMessages      int
	assistantMessages int
	totalWords        int

	first, last *time.Time
	dates       []time.Time

	months      counter
	monthStarts map[string]time.Time
	days        counter
	weeks       counter
	models      counter
	topics      counter
	emojis      counter
	hours       [24]int

	weekend, weekday, night int
	questions, statements   int
	codeBlocks              int

	lifespans     []float64
	totalLifespan float64
	multiDay      int

	longest LongestConversation
	briefs  []ConversationBrief
}

func newTally() *tally {
	return &tally{
		months:      newCounter(),
		monthStarts: make(map[string]time.Time),
		days:        newCounter(),
		weeks:       newCounter(),
		models:      newCounter(),
		topics:      newCounter(),
		emojis:      newCounter(),
	}
}

// aggregate walks every message-bearing node of every conversation once.
func aggregate(convs []archive.Conversation, loc *time.Location) *tally {
	t := newTally()
	for _, c := range convs {
		t.addConversation(c, loc)
	}
	return t
}

func (t *tally) addConversation(c archive.Conversation, loc *time.Location) {
	t.conversations++

	local := 0
	var earliest, latest float64
	timed := false

	for _, msg := range c.Messages() {
		switch msg.Author.Role {
		case archive.RoleUser:
			local++
			t.addUserMessage(msg, loc)
			ts, ok := msg.Timestamp()
			if !ok {
				continue
			}
			if !timed || ts < earliest {
				earliest = ts
			}
			if !timed || ts > latest {
				latest = ts
			}
			timed = true
		case archive.RoleAssistant:
			t.assistantMessages++
			t.models.add(msg.Model())
		}
	}

	if timed {
		hours := (latest - earliest) / 3600
		t.lifespans = append(t.lifespans, hours)
		t.totalLifespan += hours
		if hours > 24 {
			t.multiDay++
		}
	}

	if local > t.longest.MessageCount {
		t.longest = LongestConversation{Title: c.Title, MessageCount: local}
	}

	if created, ok := c.Created(loc); ok {
		t.briefs = append(t.briefs, ConversationBrief{Title: c.Title, Date: created.Format(briefLayout)})
	}
}

func (t *tally) addUserMessage(msg *archive.Message, loc *time.Location) {
	t.userMessages++

	text := msg.Text()
	t.totalWords += len(strings.Fields(text))

	if strings.Contains(text, "?") {
		t.questions++
	} else {
		t.statements++
	}

	for _, e := range extractEmojis(text) {
		t.emojis.add(e)
	}

	// Fenced and inline code both contain a backtick.
	if strings.Contains(text, "`") {
		t.codeBlocks++
	}

	for _, w := range topicWords(text) {
		t.topics.add(w)
	}

	if at, ok := msg.Time(loc); ok {
		t.addTimestamp(at)
	}
}

func (t *tally) addTimestamp(at time.Time) {
	t.dates = append(t.dates, at)
	if t.first == nil || at.Before(*t.first) {
		first := at
		t.first = &first
	}
	if t.last == nil || at.After(*t.last) {
		last := at
		t.last = &last
	}

	month := at.Format(monthLayout)
	if _, ok := t.monthStarts[month]; !ok {
		t.monthStarts[month] = time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	t.months.add(month)
	t.days.add(at.Weekday().String())
	t.weeks.add(weekStart(at).Format(dayLayout))

	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t.weekend++
	} else {
		t.weekday++
	}

	hour := at.Hour()
	t.hours[hour]++
	if hour < nightEnd {
		t.night++
	}
}

// weekStart returns the Sunday that begins the week containing at.
func weekStart(at time.Time) time.Time {
	y, m, d := at.Date()
	return time.Date(y, m, d-int(at.Weekday()), 0, 0, 0, 0, at.Location())
}
