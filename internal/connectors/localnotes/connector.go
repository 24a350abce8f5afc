// Package localnotes implements a notes source connector over a
// directory of local markdown files. An fsnotify watcher keeps the
// file index current so searches never rescan the tree.
package localnotes

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/logger"
)

const (
	defaultMaxResults = 20
	snippetLen        = 200

	// maxFileSize caps how much of a note is read (1MB).
	maxFileSize = 1 * 1024 * 1024
)

// noteExtensions are the file extensions treated as notes.
var noteExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Connector indexes and searches a local notes directory.
type Connector struct {
	root    string
	account string
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	files map[string]time.Time // relative path -> mod time
	done  chan struct{}
}

var _ driven.SourceConnector = (*Connector)(nil)

// NewConnector creates a connector rooted at dir and starts watching
// it for changes.
func NewConnector(dir string) (*Connector, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve notes dir: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat notes dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notes path %s is not a directory", root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	c := &Connector{
		root:    root,
		account: root,
		watcher: watcher,
		files:   make(map[string]time.Time),
		done:    make(chan struct{}),
	}

	if err := c.scan(); err != nil {
		watcher.Close()
		return nil, err
	}

	go c.watch()

	return c, nil
}

// Source implements driven.SourceConnector.
func (c *Connector) Source() domain.SourceType {
	return domain.SourceNotes
}

// AccountRef implements driven.SourceConnector.
func (c *Connector) AccountRef() string {
	return c.account
}

// Search finds notes containing all the query terms. Matching is
// case-insensitive over the filename and content.
func (c *Connector) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	terms := strings.Fields(strings.ToLower(query.Query))

	c.mu.RLock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	c.mu.RUnlock()
	sort.Strings(paths)

	var records []domain.Record
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, ok := c.matchFile(path, terms, query)
		if !ok {
			continue
		}
		records = append(records, rec)
		if len(records) >= maxResults {
			break
		}
	}

	return records, nil
}

// FetchContent reads the full note.
func (c *Connector) FetchContent(_ context.Context, _ string, record domain.Record) (*domain.Content, error) {
	body, err := c.readNote(record.ExternalID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: note %s", domain.ErrNotFound, record.ExternalID)
		}
		return nil, fmt.Errorf("read note: %w", err)
	}

	return &domain.Content{Body: body}, nil
}

// Close stops the watcher.
func (c *Connector) Close() error {
	close(c.done)
	return c.watcher.Close()
}

// scan walks the tree, indexing note files and registering watches on
// every directory.
func (c *Connector) scan() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if isHidden(d.Name()) && path != c.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return c.watcher.Add(path)
		}
		if !noteExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return nil
		}
		c.files[rel] = info.ModTime()

		return nil
	})
}

// watch applies filesystem events to the index until Close.
func (c *Connector) watch() {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.handleEvent(event)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("notes watcher error: %v", err)
		}
	}
}

func (c *Connector) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(c.root, event.Name)
	if err != nil || isHidden(filepath.Base(event.Name)) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		c.mu.Lock()
		delete(c.files, rel)
		c.mu.Unlock()

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			// New subdirectory: watch it and pick up its contents.
			_ = c.watcher.Add(event.Name)
			_ = c.scanSubdir(event.Name)
			return
		}
		if !noteExtensions[strings.ToLower(filepath.Ext(event.Name))] {
			return
		}
		c.mu.Lock()
		c.files[rel] = info.ModTime()
		c.mu.Unlock()
	}
}

func (c *Connector) scanSubdir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !noteExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return nil
		}
		c.mu.Lock()
		c.files[rel] = info.ModTime()
		c.mu.Unlock()
		return nil
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
