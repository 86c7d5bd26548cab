package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
	"blockpad/internal/log"
	"blockpad/internal/planner"
	"blockpad/internal/template"
)

// Server exposes the editor over MCP so AI agents can read and edit
// pages. Block tools operate on the page loaded by set_active_page.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger

	doc       *editor.Document
	pages     domain.PageStore
	templates *template.Store
	planner   *planner.Planner
}

// Deps holds everything the tool handlers need.
type Deps struct {
	Document  *editor.Document
	Pages     domain.PageStore
	Templates *template.Store
	Planner   *planner.Planner
}

// New creates and configures an MCP server with all tools registered.
func New(deps Deps) *Server {
	s := &Server{
		logger:    log.Get().Named("mcp"),
		doc:       deps.Document,
		pages:     deps.Pages,
		templates: deps.Templates,
		planner:   deps.Planner,
	}

	s.mcp = server.NewMCPServer(
		"blockpad-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerPageTools()
	s.registerBlockTools()
	s.registerTemplateTools()
	s.registerTaskTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout and blocks until
// the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireActivePage guards tools that edit the open document.
func (s *Server) requireActivePage() error {
	if s.doc.PageID() == "" {
		return fmt.Errorf("no active page set (use set_active_page first)")
	}
	return nil
}
