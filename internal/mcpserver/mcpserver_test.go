package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/valentinclaes/chat-wrap/internal/wrap"
)

const sampleExport = `[
  {"title": "Go questions", "create_time": 1735725600, "mapping": {
    "a": {"id": "a", "message": {"id": "a", "author": {"role": "user"}, "create_time": 1735725600,
      "content": {"content_type": "text", "parts": ["how do goroutines work?"]}}},
    "b": {"id": "b", "message": {"id": "b", "author": {"role": "assistant"}, "create_time": 1735725660,
      "content": {"content_type": "text", "parts": ["They are green threads."]}, "metadata": {"model_slug": "gpt-4o"}}}
  }}
]`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestNew_RegistersTools(t *testing.T) {
	s := New("test", time.UTC, nil)
	tools := s.mcp.ListTools()
	require.Contains(t, tools, "analyze_archive")
	require.Contains(t, tools, "wrap_card")
}

func TestAnalyzeHandler(t *testing.T) {
	s := New("test", time.UTC, nil)
	res, err := s.analyzeHandler(context.Background(), callTool(map[string]any{"path": writeExport(t, sampleExport)}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var a wrap.Analytics
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &a))
	require.Equal(t, 1, a.TotalConversations)
	require.Equal(t, 1, a.TotalUserMessages)
	require.Equal(t, map[string]int{"gpt-4o": 1}, a.ModelUsage)
	require.Zero(t, a.QuestionToStatementRatio)
	require.Equal(t, 10, a.MostActiveHour)
}

func TestAnalyzeHandler_Timezone(t *testing.T) {
	s := New("test", time.UTC, nil)
	res, err := s.analyzeHandler(context.Background(), callTool(map[string]any{
		"path":     writeExport(t, sampleExport),
		"timezone": "Asia/Tokyo",
	}))
	require.NoError(t, err)
	if res.IsError {
		t.Skip("tzdata not available")
	}
	var a wrap.Analytics
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &a))
	require.Equal(t, 19, a.MostActiveHour)
}

func TestAnalyzeHandler_Errors(t *testing.T) {
	s := New("test", time.UTC, nil)
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing path", map[string]any{}},
		{"blank path", map[string]any{"path": "  "}},
		{"missing file", map[string]any{"path": filepath.Join(t.TempDir(), "nope.json")}},
		{"not an array", map[string]any{"path": writeExport(t, `{"title": "x"}`)}},
		{"bad timezone", map[string]any{"path": writeExport(t, sampleExport), "timezone": "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.analyzeHandler(context.Background(), callTool(tt.args))
			require.NoError(t, err)
			require.True(t, res.IsError)
		})
	}
}

func TestCardHandler(t *testing.T) {
	s := New("test", time.UTC, nil)
	res, err := s.cardHandler(context.Background(), callTool(map[string]any{"path": writeExport(t, sampleExport)}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	require.Contains(t, text, "My ChatGPT Year Wrapped")
	require.Contains(t, text, "1 Conversations · 1 Messages Sent")
	require.Contains(t, text, "#1 goroutines")
}
