package template

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrorFragment is what a page render produces when the template file is
// missing or unreadable. Rendering degrades to this fragment; it never fails.
const ErrorFragment = "<h1>Error: Template file not found.</h1>"

// Cache loads a template file once and serves the source from memory,
// invalidating on filesystem changes. If the watcher cannot be created the
// cache degrades to reading the file on every load.
type Cache struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	src   string
	valid bool
}

// NewCache creates a cache for the template at path and starts watching its
// directory for changes. Watching the directory rather than the file keeps
// the watch alive across editors that replace the file on save.
func NewCache(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		path:   path,
		logger: logger.With("component", "template_cache"),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.Warn("failed to create template watcher, caching disabled", "error", err)
		return c
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		c.logger.Warn("failed to watch template directory, caching disabled", "path", path, "error", err)
		watcher.Close()
		return c
	}

	c.watcher = watcher
	go c.watch()
	return c
}

// Load returns the template source, reading the file only when the cached
// copy is stale or caching is disabled.
func (c *Cache) Load() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil && c.valid {
		return c.src, nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", err
	}

	c.src = string(data)
	c.valid = true
	return c.src, nil
}

// RenderFile loads the template source and renders it against ctx. A missing
// or unreadable template yields the fixed error fragment.
func (c *Cache) RenderFile(ctx Context) string {
	src, err := c.Load()
	if err != nil {
		c.logger.Error("failed to load template", "path", c.path, "error", err)
		return ErrorFragment
	}
	return Render(src, ctx)
}

// Invalidate drops the cached source; the next Load re-reads the file.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Close stops the filesystem watcher.
func (c *Cache) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}

func (c *Cache) watch() {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(c.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.logger.Debug("template changed, invalidating cache", "op", event.Op.String())
				c.Invalidate()
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("template watcher error", "error", err)
		}
	}
}
