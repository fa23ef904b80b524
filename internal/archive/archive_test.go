package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleExport = `[
  {
    "title": "Go generics",
    "create_time": 1735725600.5,
    "mapping": {
      "root": {"id": "root", "message": null, "parent": null, "children": ["a"]},
      "a": {"id": "a", "parent": "root", "children": ["b"], "message": {
        "id": "a", "author": {"role": "user"}, "create_time": 1735725600,
        "content": {"content_type": "text", "parts": ["How do", "generics work?"]}, "metadata": {}}},
      "b": {"id": "b", "parent": "a", "children": [], "message": {
        "id": "b", "author": {"role": "assistant"}, "create_time": null,
        "content": {"content_type": "text", "parts": ["Like this.", {"asset_pointer": "file-1"}]},
        "metadata": {"model_slug": "gpt-4o"}}}
    }
  }
]`

func TestParse(t *testing.T) {
	convs, err := Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, convs, 1)

	c := convs[0]
	require.Equal(t, "Go generics", c.Title)
	require.Equal(t, 1735725600.5, c.CreateTime)
	require.Equal(t, 3, c.Mapping.Len())

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Author.Role)
	require.Equal(t, "How do generics work?", msgs[0].Text())
	require.Equal(t, RoleAssistant, msgs[1].Author.Role)
	require.Equal(t, "Like this.", msgs[1].Text(), "non-string parts are dropped")
	require.Equal(t, "gpt-4o", msgs[1].Model())
}

func TestParse_PreservesNodeOrder(t *testing.T) {
	doc := `[{"title":"t","create_time":1,"mapping":{
		"z":{"message":{"author":{"role":"user"},"content":{"parts":["first"]}}},
		"a":{"message":{"author":{"role":"user"},"content":{"parts":["second"]}}},
		"m":{"message":{"author":{"role":"user"},"content":{"parts":["third"]}}}}}]`

	for i := 0; i < 5; i++ {
		convs, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)
		var got []string
		for _, m := range convs[0].Messages() {
			got = append(got, m.Text())
		}
		require.Equal(t, []string{"first", "second", "third"}, got)
	}
}

func TestParse_Empty(t *testing.T) {
	convs, err := Parse(strings.NewReader(`[]`))
	require.NoError(t, err)
	require.NotNil(t, convs)
	require.Empty(t, convs)
}

func TestParse_NotArray(t *testing.T) {
	for _, doc := range []string{`{"title":"x"}`, `null`, `"text"`, ``} {
		_, err := Parse(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrNotArray, "doc %q", doc)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`[{"title": `))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotArray))
}

func TestParse_MissingMapping(t *testing.T) {
	docs := []string{
		`[{"title":"no mapping","create_time":1}]`,
		`[{"title":"null mapping","mapping":null}]`,
		`[{"title":"array mapping","mapping":[]}]`,
		`[null]`,
	}
	for _, doc := range docs {
		_, err := Parse(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrMissingMapping, "doc %q", doc)
	}
}

func TestMessage_MissingOptionalFields(t *testing.T) {
	doc := `[{"title":"t","mapping":{"n":{"message":{"author":{"role":"assistant"},"content":{"content_type":"text"}}}}}]`
	convs, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	msg := convs[0].Messages()[0]
	require.Equal(t, "", msg.Text())
	require.Equal(t, "unknown", msg.Model())
	_, ok := msg.Time(time.UTC)
	require.False(t, ok)
	_, ok = convs[0].Created(time.UTC)
	require.False(t, ok)
}

func TestMessage_Time(t *testing.T) {
	ts := 1735725600.25
	msg := Message{CreateTime: &ts}
	got, ok := msg.Time(time.UTC)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 250000000, time.UTC), got)
}

func TestMessage_TimeZeroIsAbsent(t *testing.T) {
	zero := 0.0
	msg := Message{CreateTime: &zero}
	_, ok := msg.Time(time.UTC)
	require.False(t, ok)
	_, ok = msg.Timestamp()
	require.False(t, ok)
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	convs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, convs, 1)
}

func TestLoadFile_Zip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.zip")
	writeZip(t, path, map[string]string{
		"chat.html":                 "<html></html>",
		"export/conversations.json": sampleExport,
	})

	convs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.Equal(t, "Go generics", convs[0].Title)
}

func TestLoadFile_ZipWithoutConversations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.zip")
	writeZip(t, path, map[string]string{"user.json": "{}"})

	_, err := LoadFile(path)
	require.ErrorIs(t, err, ErrNoConversations)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}
