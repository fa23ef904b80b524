package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/valentinclaes/chat-wrap/internal/wrap"
)

const sampleExport = `[
  {"title": "Trip planning", "create_time": 1735725600, "mapping": {
    "a": {"id": "a", "message": {"id": "a", "author": {"role": "user"}, "create_time": 1735725600,
      "content": {"content_type": "text", "parts": ["plan a kyoto itinerary?"]}}},
    "b": {"id": "b", "message": {"id": "b", "author": {"role": "assistant"}, "create_time": 1735725660,
      "content": {"content_type": "text", "parts": ["Day one: temples."]}, "metadata": {"model_slug": "gpt-4o"}}}
  }}
]`

// setupEnv isolates HOME and writes a config with notifications off.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("CHATWRAP_PROJECT_DIR", "")
	t.Setenv("CHATWRAP_VAULT", "")
	os.MkdirAll(filepath.Join(home, ".chatwrap"), 0755)
	os.WriteFile(filepath.Join(home, ".chatwrap", "config.json"), []byte(`{"notify": false, "timezone": "UTC"}`), 0644)

	tzFlag, forceFlag, verboseFlag = "", false, false
	t.Cleanup(func() { tzFlag, forceFlag, verboseFlag = "", false, false })

	path := filepath.Join(t.TempDir(), "conversations.json")
	os.WriteFile(path, []byte(sampleExport), 0644)
	return path
}

func newCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, &out
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"analyze", "card", "report", "serve"} {
		require.Contains(t, names, want)
	}
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("tz"))
	require.NotNil(t, reportCmd.Flags().Lookup("force"))
}

func TestRunAnalyze(t *testing.T) {
	export := setupEnv(t)
	cmd, out := newCmd()

	require.NoError(t, runAnalyze(cmd, []string{export}))

	var a wrap.Analytics
	require.NoError(t, json.Unmarshal(out.Bytes(), &a))
	require.Equal(t, 1, a.TotalConversations)
	require.Equal(t, 10, a.MostActiveHour)
	require.Equal(t, map[string]int{"gpt-4o": 1}, a.ModelUsage)
}

func TestRunAnalyze_TimezoneFlag(t *testing.T) {
	export := setupEnv(t)
	tzFlag = "Not/AZone"
	cmd, _ := newCmd()
	err := runAnalyze(cmd, []string{export})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown timezone")
}

func TestRunAnalyze_BadExport(t *testing.T) {
	setupEnv(t)
	bad := filepath.Join(t.TempDir(), "conversations.json")
	os.WriteFile(bad, []byte(`{"not": "an array"}`), 0644)

	cmd, _ := newCmd()
	err := runAnalyze(cmd, []string{bad})
	require.Error(t, err)
	require.Contains(t, err.Error(), "could not read export")
}

func TestRunCard(t *testing.T) {
	export := setupEnv(t)
	cmd, out := newCmd()

	require.NoError(t, runCard(cmd, []string{export}))
	require.Contains(t, out.String(), "My ChatGPT Year Wrapped")
	require.Contains(t, out.String(), "#1 kyoto")
}

func TestRunReport(t *testing.T) {
	export := setupEnv(t)
	vault := t.TempDir()
	t.Setenv("CHATWRAP_VAULT", vault)

	cmd, out := newCmd()
	require.NoError(t, runReport(cmd, []string{export}))
	require.Contains(t, out.String(), "Wrote ")

	data, err := os.ReadFile(filepath.Join(vault, "Wrap-2025.md"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "---\nyear: 2025\n"))

	// Second run on the same day leaves the note alone.
	cmd, out = newCmd()
	require.NoError(t, runReport(cmd, []string{export}))
	require.Contains(t, out.String(), "up to date")
}

func TestRunReport_NoVault(t *testing.T) {
	export := setupEnv(t)
	cmd, _ := newCmd()
	require.Error(t, runReport(cmd, []string{export}))
}
