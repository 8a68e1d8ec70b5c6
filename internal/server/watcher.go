package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reindexer is the slice of Server the watcher and scheduler need.
type Reindexer interface {
	Reindex(ctx context.Context) error
}

// ContentWatcher monitors the content tree and triggers debounced reindexing
// when markdown files change.
type ContentWatcher struct {
	root         string
	target       Reindexer
	watcher      *fsnotify.Watcher
	logger       *slog.Logger
	mu           sync.Mutex
	stopChan     chan struct{}
	reindexChan  chan struct{}
	debounceTime time.Duration
}

// NewContentWatcher creates a watcher rooted at the content directory.
func NewContentWatcher(root string, target Reindexer, logger *slog.Logger) (*ContentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve content root: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ContentWatcher{
		root:         absRoot,
		target:       target,
		watcher:      watcher,
		logger:       logger,
		stopChan:     make(chan struct{}),
		reindexChan:  make(chan struct{}, 1),
		debounceTime: 2 * time.Second,
	}, nil
}

// Start begins monitoring the content tree.
func (cw *ContentWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	// Watch every directory under the root; fsnotify is not recursive.
	err := filepath.WalkDir(cw.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != cw.root {
			return filepath.SkipDir
		}
		return cw.watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("failed to watch content tree %s: %w", cw.root, err)
	}

	cw.logger.Info("Starting content watcher", "root", cw.root)

	go cw.watchLoop(ctx)
	go cw.reindexLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (cw *ContentWatcher) Stop() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.logger.Info("Stopping content watcher")
	close(cw.stopChan)
	if cw.watcher != nil {
		if err := cw.watcher.Close(); err != nil {
			cw.logger.Error("Error closing file watcher", "error", err)
		}
	}
}

func (cw *ContentWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				// New subdirectories need their own watch.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := cw.watcher.Add(event.Name); err != nil {
						cw.logger.Error("Failed to watch new directory", "dir", event.Name, "error", err)
					}
					cw.triggerReindex()
					continue
				}
			}

			if !isContentFile(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				cw.logger.Debug("Content change detected", "file", event.Name, "op", event.Op.String())
				cw.triggerReindex()
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("Content watcher error", "error", err)
		}
	}
}

// reindexLoop coalesces bursts of file events into a single rebuild.
func (cw *ContentWatcher) reindexLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-cw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-cw.reindexChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cw.debounceTime, func() {
				if err := cw.target.Reindex(ctx); err != nil {
					cw.logger.Error("Failed to reindex after content change", "error", err)
				}
			})
		}
	}
}

func (cw *ContentWatcher) triggerReindex() {
	select {
	case cw.reindexChan <- struct{}{}:
	default:
		// Reindex already pending
	}
}

func isContentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".wiki":
		return true
	}
	return false
}
