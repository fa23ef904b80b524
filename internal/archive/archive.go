package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Author roles found in exported messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// conversationsFile is the archive member holding the conversations in a ZIP export.
const conversationsFile = "conversations.json"

var (
	ErrNotArray        = errors.New("archive: top-level value is not an array")
	ErrMissingMapping  = errors.New("archive: conversation mapping is missing or not an object")
	ErrNoConversations = errors.New("archive: zip export has no " + conversationsFile)
)

// Conversation is one chat session. Mapping keeps the node order of the
// source document so repeated passes see nodes in the same sequence.
type Conversation struct {
	Title      string
	CreateTime float64
	Mapping    *orderedmap.OrderedMap[string, Node]
}

// Node is a point in a conversation tree. Structural nodes carry no message.
type Node struct {
	ID       string   `json:"id"`
	Message  *Message `json:"message"`
	Parent   *string  `json:"parent"`
	Children []string `json:"children"`
}

// Message is an authored entry.
type Message struct {
	ID         string   `json:"id"`
	Author     Author   `json:"author"`
	CreateTime *float64 `json:"create_time"`
	Content    Content  `json:"content"`
	Metadata   Metadata `json:"metadata"`
}

type Author struct {
	Role string  `json:"role"`
	Name *string `json:"name"`
}

type Content struct {
	ContentType string `json:"content_type"`
	Parts       Parts  `json:"parts"`
}

// Metadata holds the few metadata keys the analysis reads.
type Metadata struct {
	ModelSlug string `json:"model_slug"`
}

// Parts is the text of a message. Non-string parts (image pointers and
// other attachments) are dropped while decoding.
type Parts []string

func (p *Parts) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Parts, 0, len(raw))
	for _, r := range raw {
		var s string
		if json.Unmarshal(r, &s) == nil {
			out = append(out, s)
		}
	}
	*p = out
	return nil
}

func (c *Conversation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title      string          `json:"title"`
		CreateTime *float64        `json:"create_time"`
		Mapping    json.RawMessage `json:"mapping"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	body := bytes.TrimSpace(raw.Mapping)
	if len(body) == 0 || body[0] != '{' {
		return ErrMissingMapping
	}
	mapping := orderedmap.New[string, Node]()
	if err := json.Unmarshal(body, mapping); err != nil {
		return fmt.Errorf("mapping: %w", err)
	}
	c.Title = raw.Title
	c.CreateTime = 0
	if raw.CreateTime != nil {
		c.CreateTime = *raw.CreateTime
	}
	c.Mapping = mapping
	return nil
}

// Messages returns the message-bearing nodes' messages in mapping order.
func (c Conversation) Messages() []*Message {
	if c.Mapping == nil {
		return nil
	}
	msgs := make([]*Message, 0, c.Mapping.Len())
	for pair := c.Mapping.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Message != nil {
			msgs = append(msgs, pair.Value.Message)
		}
	}
	return msgs
}

// Created returns the conversation creation time, false when unset.
func (c Conversation) Created(loc *time.Location) (time.Time, bool) {
	if c.CreateTime == 0 {
		return time.Time{}, false
	}
	return epoch(c.CreateTime, loc), true
}

// Text joins the message parts with single spaces.
func (m *Message) Text() string {
	return strings.Join(m.Content.Parts, " ")
}

// Timestamp returns the raw creation time in epoch seconds. A missing or
// zero create_time counts as absent.
func (m *Message) Timestamp() (float64, bool) {
	if m.CreateTime == nil || *m.CreateTime == 0 {
		return 0, false
	}
	return *m.CreateTime, true
}

// Time returns the message creation time in loc, false when absent.
func (m *Message) Time(loc *time.Location) (time.Time, bool) {
	ts, ok := m.Timestamp()
	if !ok {
		return time.Time{}, false
	}
	return epoch(ts, loc), true
}

// Model returns the model slug, or "unknown" when the metadata has none.
func (m *Message) Model() string {
	if m.Metadata.ModelSlug == "" {
		return "unknown"
	}
	return m.Metadata.ModelSlug
}

func epoch(secs float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	whole := int64(secs)
	nanos := int64((secs - float64(whole)) * 1e9)
	return time.Unix(whole, nanos).In(loc)
}

// Parse decodes a conversations.json document.
func Parse(r io.Reader) ([]Conversation, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotArray
		}
		return nil, fmt.Errorf("archive: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, ErrNotArray
	}

	var convs []Conversation
	for dec.More() {
		var c Conversation
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("archive: conversation %d: %w", len(convs), err)
		}
		convs = append(convs, c)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	if convs == nil {
		convs = []Conversation{}
	}
	return convs, nil
}

// LoadFile reads an export from disk. A .zip path is treated as the export
// bundle and its conversations.json member is parsed.
func LoadFile(p string) ([]Conversation, error) {
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		return loadZip(p)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func loadZip(p string) ([]Conversation, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if path.Base(f.Name) != conversationsFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return Parse(rc)
	}
	return nil, ErrNoConversations
}
