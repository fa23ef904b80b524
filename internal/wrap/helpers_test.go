package wrap

import (
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/valentinclaes/chat-wrap/internal/archive"
)

func conv(title string, created float64, msgs ...archive.Message) archive.Conversation {
	m := orderedmap.New[string, archive.Node]()
	m.Set("root", archive.Node{ID: "root"})
	for i := range msgs {
		msg := msgs[i]
		id := fmt.Sprintf("node-%d", i)
		m.Set(id, archive.Node{ID: id, Message: &msg})
	}
	return archive.Conversation{Title: title, CreateTime: created, Mapping: m}
}

func userMsg(text string) archive.Message {
	return archive.Message{
		Author:  archive.Author{Role: archive.RoleUser},
		Content: archive.Content{ContentType: "text", Parts: archive.Parts{text}},
	}
}

func userAt(text string, at time.Time) archive.Message {
	msg := userMsg(text)
	ts := float64(at.Unix())
	msg.CreateTime = &ts
	return msg
}

func assistantMsg(model string) archive.Message {
	return archive.Message{
		Author:   archive.Author{Role: archive.RoleAssistant},
		Content:  archive.Content{ContentType: "text", Parts: archive.Parts{"ok"}},
		Metadata: archive.Metadata{ModelSlug: model},
	}
}

func systemMsg() archive.Message {
	return archive.Message{Author: archive.Author{Role: archive.RoleSystem}}
}

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}
