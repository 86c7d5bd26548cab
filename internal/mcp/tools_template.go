package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"blockpad/internal/markdown"
)

func (s *Server) registerTemplateTools() {
	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the available page templates"),
	), s.handleListTemplates)

	// ── apply_template ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_template",
		mcp.WithDescription("Append a template's blocks to the end of the active page"),
		mcp.WithString("name", mcp.Description("Template name"), mcp.Required()),
	), s.handleApplyTemplate)

	// ── export_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_page",
		mcp.WithDescription("Export the active page as a markdown document"),
	), s.handleExportPage)

	// ── import_markdown ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_markdown",
		mcp.WithDescription("Parse markdown and append the resulting blocks to the active page"),
		mcp.WithString("source", mcp.Description("Markdown source text"), mcp.Required()),
	), s.handleImportMarkdown)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := s.templates.List()
	type entry struct {
		Name   string `json:"name"`
		Blocks int    `json:"blocks"`
	}
	out := make([]entry, len(list))
	for i, t := range list {
		out[i] = entry{Name: t.Name, Blocks: len(t.Blocks)}
	}
	return jsonResult(out)
}

func (s *Server) handleApplyTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := s.templates.Apply(name, s.doc); err != nil {
		return nil, fmt.Errorf("apply template: %w", err)
	}
	return textResult(fmt.Sprintf("Applied template %q to page %s", name, s.doc.PageID())), nil
}

func (s *Server) handleExportPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}
	return textResult(markdown.Export(s.doc)), nil
}

func (s *Server) handleImportMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	source := req.GetString("source", "")
	if source == "" {
		return nil, fmt.Errorf("source is required")
	}
	blocks := markdown.Import([]byte(source))
	if err := markdown.Apply(s.doc, blocks); err != nil {
		return nil, fmt.Errorf("import markdown: %w", err)
	}
	return textResult(fmt.Sprintf("Imported %d blocks", len(blocks))), nil
}
