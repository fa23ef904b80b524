// Package mcpserver exposes wrap analysis as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/valentinclaes/chat-wrap/internal/archive"
	"github.com/valentinclaes/chat-wrap/internal/report"
	"github.com/valentinclaes/chat-wrap/internal/wrap"
)

const serverName = "chatwrap"

// Server serves the analyze_archive and wrap_card tools.
type Server struct {
	mcp  *server.MCPServer
	loc  *time.Location
	log  *slog.Logger
	load func(path string) ([]archive.Conversation, error)
}

// New registers the tools. loc is the default zone for bucketing timestamps.
func New(version string, loc *time.Location, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		mcp:  server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
		loc:  loc,
		log:  log,
		load: archive.LoadFile,
	}

	s.mcp.AddTool(mcp.NewTool("analyze_archive",
		mcp.WithDescription("Compute the year wrap statistics of a ChatGPT export and return them as JSON"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to conversations.json or the export .zip")),
		mcp.WithString("timezone", mcp.Description("IANA zone used to bucket timestamps, e.g. Europe/Brussels")),
	), s.analyzeHandler)

	s.mcp.AddTool(mcp.NewTool("wrap_card",
		mcp.WithDescription("Render the short shareable summary of a ChatGPT export"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to conversations.json or the export .zip")),
		mcp.WithString("timezone", mcp.Description("IANA zone used to bucket timestamps, e.g. Europe/Brussels")),
	), s.cardHandler)

	return s
}

// Serve blocks serving MCP over stdin/stdout.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// analyzeHandler returns the full analytics record as indented JSON.
func (s *Server) analyzeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, errResult := s.analyze(request)
	if errResult != nil {
		return errResult, nil
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode analytics: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// cardHandler returns the share card text.
func (s *Server) cardHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, errResult := s.analyze(request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(report.ShareCard(a)), nil
}

func (s *Server) analyze(request mcp.CallToolRequest) (wrap.Analytics, *mcp.CallToolResult) {
	args, _ := request.Params.Arguments.(map[string]any)
	path, _ := args["path"].(string)
	tz, _ := args["timezone"].(string)

	path = strings.TrimSpace(path)
	if path == "" {
		return wrap.Analytics{}, mcp.NewToolResultError("Path cannot be empty")
	}

	loc := s.loc
	if tz = strings.TrimSpace(tz); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return wrap.Analytics{}, mcp.NewToolResultError(fmt.Sprintf("Unknown timezone %q", tz))
		}
		loc = l
	}

	convs, err := s.load(path)
	if err != nil {
		s.log.Warn("load archive failed", "path", path, "err", err)
		return wrap.Analytics{}, mcp.NewToolResultError(fmt.Sprintf("Failed to read export: %v", err))
	}
	s.log.Debug("analyzing archive", "path", path, "conversations", len(convs))
	return wrap.Analyze(convs, loc), nil
}
