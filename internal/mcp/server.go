// Package mcp exposes the training data over the Model Context Protocol
// so an assistant can read the plan, sessions, and progress log.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/massebuilder/internal/program"
	"github.com/claude/massebuilder/internal/progress"
	"github.com/claude/massebuilder/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(sessions *session.Store, prog *progress.Log, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("MasseBuilder", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("MasseBuilder training server. Query the workout plan, recorded sessions, progressive overload status, and body measurements for a single-user hypertrophy program."),
	)

	h := &handlers{sessions: sessions, progress: prog, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolGetOverloadReport, Handler: h.getOverloadReport},
		server.ServerTool{Tool: toolGetSessionVolume, Handler: h.getSessionVolume},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentWeek, Handler: h.currentWeek},
	)

	return s
}

// NewHTTP wraps an MCP server in its streamable HTTP transport so the
// API server can mount it on a route.
func NewHTTP(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	sessions *session.Store
	progress *progress.Log
	log      *slog.Logger
}

// --- Resource definitions ---

var resCurrentWeek = mcp.NewResource(
	"massebuilder://current_week",
	"Current Week",
	mcp.WithResourceDescription("The active program week and the training day scheduled for today"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) currentWeek(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	week, err := h.sessions.CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]any{
		"week": week,
		"day":  program.DayForDate(time.Now()),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
