package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"blockpad/internal/editor"
	"blockpad/internal/event"
	"blockpad/internal/log"
	mcpserver "blockpad/internal/mcp"
	"blockpad/internal/planner"
	"blockpad/internal/storage"
	"blockpad/internal/template"
)

func main() {
	dataDir := flag.String("data", defaultDataDir(), "directory for the database and templates")
	flag.Parse()

	// Stdout carries the MCP protocol; logs go to stderr.
	log.Set()
	defer log.Flush()
	logger := log.Get()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatal("failed to create data dir", zap.String("dir", *dataDir), zap.Error(err))
	}

	db, err := storage.New(filepath.Join(*dataDir, "blockpad.db"))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	blockStore := storage.NewBlockStore(db)
	pageStore := storage.NewPageStore(db, blockStore)
	taskStore := storage.NewTaskStore(db)

	emitter := event.NopEmitter{}

	doc := editor.NewDocument(blockStore, emitter)
	defer doc.Close()

	templates, err := template.NewStore(filepath.Join(*dataDir, "templates"), emitter)
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}
	if err := templates.Watch(ctx); err != nil {
		logger.Warn("template watching disabled", zap.Error(err))
	}
	defer templates.Close()

	plan := planner.New(taskStore, emitter)
	if err := plan.Start(ctx); err != nil {
		logger.Warn("reminder scan disabled", zap.Error(err))
	}
	defer plan.Stop()

	srv := mcpserver.New(mcpserver.Deps{
		Document:  doc,
		Pages:     pageStore,
		Templates: templates,
		Planner:   plan,
	})
	if err := srv.ServeStdio(); err != nil {
		logger.Fatal("mcp server error", zap.Error(err))
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./blockpad-data"
	}
	return filepath.Join(homeDir, ".local", "share", "blockpad")
}
