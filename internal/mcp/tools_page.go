package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"blockpad/internal/domain"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all pages with their IDs and titles"),
	), s.handleListPages)

	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new empty page"),
		mcp.WithString("title", mcp.Description("Page title"), mcp.Required()),
		mcp.WithString("icon", mcp.Description("Emoji icon (optional)")),
	), s.handleCreatePage)

	// ── set_active_page ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_page",
		mcp.WithDescription("Open a page for editing. Block tools operate on the active page."),
		mcp.WithString("pageId",
			mcp.Description("ID of the page to open"),
			mcp.Required(),
		),
	), s.handleSetActivePage)

	// ── delete_page (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page and every block on it"),
		mcp.WithString("pageId", mcp.Description("Page ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeletePage)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.pages.ListPages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return jsonResult(pages)
}

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := time.Now()
	page := &domain.Page{
		ID:        uuid.New().String(),
		Title:     title,
		Icon:      req.GetString("icon", ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.pages.CreatePage(page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return jsonResult(page)
}

func (s *Server) handleSetActivePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	if _, err := s.pages.GetPage(pageID); err != nil {
		return nil, fmt.Errorf("page not found: %w", err)
	}
	if err := s.doc.Load(pageID); err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	return textResult(fmt.Sprintf("Active page set to %s (%d blocks)", pageID, s.doc.Len())), nil
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	if err := s.pages.DeletePage(pageID); err != nil {
		return nil, fmt.Errorf("delete page: %w", err)
	}
	return textResult(fmt.Sprintf("Deleted page %s", pageID)), nil
}

func boolPtr(v bool) *bool { return &v }
