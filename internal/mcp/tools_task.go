package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"blockpad/internal/planner"
)

func (s *Server) registerTaskTools() {
	// ── list_tasks ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List all planner tasks"),
	), s.handleListTasks)

	// ── create_task ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a planner task, optionally with a due date and reminder"),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("notes", mcp.Description("Free-form notes (optional)")),
		mcp.WithString("due", mcp.Description("Due date in RFC 3339 format (optional)")),
		mcp.WithBoolean("remind", mcp.Description("Emit a reminder when the due date passes")),
	), s.handleCreateTask)

	// ── toggle_task ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Toggle a task between done and open"),
		mcp.WithString("taskId", mcp.Description("Task ID"), mcp.Required()),
	), s.handleToggleTask)

	// ── delete_task (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a planner task"),
		mcp.WithString("taskId", mcp.Description("Task ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTask)
}

func (s *Server) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := s.planner.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return jsonResult(tasks)
}

func (s *Server) handleCreateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := planner.CreateTaskInput{
		Title:  req.GetString("title", ""),
		Notes:  req.GetString("notes", ""),
		Remind: req.GetBool("remind", false),
	}
	if raw := req.GetString("due", ""); raw != "" {
		due, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q: %w", raw, err)
		}
		input.Due = due
	}

	task, err := s.planner.CreateTask(input)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return jsonResult(task)
}

func (s *Server) handleToggleTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("taskId", "")
	if taskID == "" {
		return nil, fmt.Errorf("taskId is required")
	}
	task, err := s.planner.ToggleDone(taskID)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return jsonResult(task)
}

func (s *Server) handleDeleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("taskId", "")
	if taskID == "" {
		return nil, fmt.Errorf("taskId is required")
	}
	if err := s.planner.DeleteTask(taskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return textResult(fmt.Sprintf("Deleted task %s", taskID)), nil
}
