package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"blockpad/internal/blocktype"
	"blockpad/internal/domain"
	"blockpad/internal/editor"
)

func (s *Server) registerBlockTools() {
	typeList := make([]string, 0, len(blocktype.All()))
	for _, d := range blocktype.All() {
		typeList = append(typeList, string(d.Type))
	}
	typeHint := strings.Join(typeList, ", ")

	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List all blocks on the active page in document order"),
		mcp.WithString("type", mcp.Description("Filter by block type (optional)")),
	), s.handleListBlocks)

	// ── create_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_block",
		mcp.WithDescription("Create a block on the active page. Appends to the end unless afterId is given."),
		mcp.WithString("type",
			mcp.Description("Block type: "+typeHint),
			mcp.Required(),
		),
		mcp.WithString("content", mcp.Description("Initial text content (optional)")),
		mcp.WithString("afterId", mcp.Description("Insert directly after this block (optional)")),
		mcp.WithString("parentId", mcp.Description("Nest inside this toggle block (optional)")),
	), s.handleCreateBlock)

	// ── update_block_content ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block_content",
		mcp.WithDescription("Replace the text content of an existing block"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("New content"), mcp.Required()),
	), s.handleUpdateBlockContent)

	// ── convert_block ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("convert_block",
		mcp.WithDescription("Convert a block to a different type, keeping its content and position"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Target type: "+typeHint), mcp.Required()),
	), s.handleConvertBlock)

	// ── delete_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a block and all blocks nested inside it"),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)

	// ── reorder_blocks ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_blocks",
		mcp.WithDescription("Reorder the blocks of the active page. Pass every block ID exactly once in the new order."),
		mcp.WithString("blockIds",
			mcp.Description("Comma-separated block IDs in the desired order"),
			mcp.Required(),
		),
	), s.handleReorderBlocks)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	filter := domain.BlockType(req.GetString("type", ""))
	blocks := s.doc.Blocks()
	if filter != "" {
		kept := blocks[:0]
		for _, b := range blocks {
			if b.Type == filter {
				kept = append(kept, b)
			}
		}
		blocks = kept
	}
	return jsonResult(blocks)
}

func (s *Server) handleCreateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	t := domain.BlockType(req.GetString("type", ""))
	if !blocktype.Valid(t) {
		return nil, fmt.Errorf("unknown block type %q", t)
	}
	content := req.GetString("content", "")

	var block *domain.Block
	var err error
	if parentID := req.GetString("parentId", ""); parentID != "" {
		block, err = s.doc.CreateChild(parentID, t, content)
	} else {
		block, err = s.doc.Create(t, content, req.GetString("afterId", ""), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	return jsonResult(block)
}

func (s *Server) handleUpdateBlockContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	blockID := req.GetString("blockId", "")
	if _, ok := s.doc.Get(blockID); !ok {
		return nil, fmt.Errorf("block %q not found", blockID)
	}
	content := req.GetString("content", "")
	s.doc.Update(blockID, editor.Patch{Content: &content})
	return textResult(fmt.Sprintf("Updated block %s", blockID)), nil
}

func (s *Server) handleConvertBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	blockID := req.GetString("blockId", "")
	t := domain.BlockType(req.GetString("type", ""))
	if !blocktype.Valid(t) {
		return nil, fmt.Errorf("unknown block type %q", t)
	}
	if _, ok := s.doc.Get(blockID); !ok {
		return nil, fmt.Errorf("block %q not found", blockID)
	}
	s.doc.Convert(blockID, t)
	return textResult(fmt.Sprintf("Converted block %s to %s", blockID, t)), nil
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	blockID := req.GetString("blockId", "")
	if _, ok := s.doc.Get(blockID); !ok {
		return nil, fmt.Errorf("block %q not found", blockID)
	}
	s.doc.Delete(blockID)
	return textResult(fmt.Sprintf("Deleted block %s", blockID)), nil
}

func (s *Server) handleReorderBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireActivePage(); err != nil {
		return nil, err
	}

	ids := splitIDs(req.GetString("blockIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("blockIds is required")
	}
	if err := s.doc.Reorder(ids); err != nil {
		return nil, fmt.Errorf("reorder blocks: %w", err)
	}
	return textResult(fmt.Sprintf("Reordered %d blocks", len(ids))), nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
