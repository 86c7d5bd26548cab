package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"blockpad/internal/editor"
	"blockpad/internal/event"
	"blockpad/internal/log"
	"blockpad/internal/markdown"
)

// ─────────────────────────────────────────────────────────────
// Template Store — markdown page templates on disk
// ─────────────────────────────────────────────────────────────

// A Template is a named markdown file whose blocks can be stamped
// into a page. The name is the file name without the .md extension.
type Template struct {
	Name   string
	Path   string
	Blocks []markdown.ImportedBlock
}

// Store loads templates from a directory and keeps them in sync with
// the filesystem while a watcher is running.
type Store struct {
	dir     string
	emitter event.Emitter
	logger  *zap.Logger

	mu        sync.RWMutex
	templates map[string]Template

	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
}

// NewStore reads every .md file under dir. The directory is created
// if it does not exist yet.
func NewStore(dir string, emitter event.Emitter) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create template dir: %w", err)
	}
	s := &Store{
		dir:       dir,
		emitter:   emitter,
		logger:    log.Get().Named("template"),
		templates: map[string]Template{},
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rescans the template directory from scratch.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read template dir: %w", err)
	}

	loaded := map[string]Template{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		source, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable template", zap.String("path", path), zap.Error(err))
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		loaded[name] = Template{
			Name:   name,
			Path:   path,
			Blocks: markdown.Import(source),
		}
	}

	s.mu.Lock()
	s.templates = loaded
	s.mu.Unlock()
	return nil
}

// List returns all templates sorted by name.
func (s *Store) List() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks a template up by name.
func (s *Store) Get(name string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[name]
	return t, ok
}

// Apply appends the template's blocks to the end of the open page.
func (s *Store) Apply(name string, doc *editor.Document) error {
	t, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return markdown.Apply(doc, t.Blocks)
}

// Watch reloads the store whenever a .md file in the directory is
// written, created, renamed, or removed. Bursts of events are coalesced
// with a short timer before the rescan runs.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch template dir: %w", err)
	}
	s.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	s.watchCancel = cancel

	go func() {
		var reload *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(ev.Name, ".md") {
					continue
				}
				if reload != nil {
					reload.Stop()
				}
				reload = time.AfterFunc(500*time.Millisecond, func() {
					if err := s.Reload(); err != nil {
						s.logger.Warn("template reload failed", zap.Error(err))
						return
					}
					s.emitter.Emit(watchCtx, event.TemplatesReloaded, s.names())
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("template watcher error", zap.Error(err))
			}
		}
	}()

	s.logger.Info("watching template dir", zap.String("dir", s.dir))
	return nil
}

// Close stops the watcher if one is running.
func (s *Store) Close() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

func (s *Store) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
