// Package pageindex maintains a SQLite-backed index of known wiki page
// titles. It implements the title resolution capability consulted by the
// link-if-exists directive and maps titles back to source pages for the
// preview server.
package pageindex

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/linkonce/internal/source"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// Index is a SQLite-backed title index.
type Index struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens a page index.
// Use ":memory:" for an in-memory index, or a file path for persistence
// across runs (the indexed titles persist; per-render link state never does).
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open page index database: %w", err)
	}

	ix := &Index{db: db}
	if err := ix.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize page index schema: %w", err)
	}

	return ix, nil
}

func (ix *Index) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		title TEXT PRIMARY KEY COLLATE NOCASE,
		rel_path TEXT NOT NULL,
		indexed_at INTEGER NOT NULL
	);
	`
	_, err := ix.db.Exec(schema)
	return err
}

// Rebuild replaces the index content with the given page set in one
// transaction. Readers either see the full old set or the full new one.
func (ix *Index) Rebuild(ctx context.Context, pages []source.Page) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages"); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	now := time.Now().Unix()
	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO pages (title, rel_path, indexed_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, page := range pages {
		if _, err := stmt.ExecContext(ctx, page.Title, page.RelativePath, now); err != nil {
			return fmt.Errorf("insert page %q: %w", page.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// Exists reports whether a page with the given title is indexed. The title is
// normalized first and the title column collates NOCASE, so lookups are
// insensitive to underscore/space and case variation. Implements
// titles.Resolver.
func (ix *Index) Exists(ctx context.Context, title string) (bool, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var one int
	err := ix.db.QueryRowContext(ctx,
		"SELECT 1 FROM pages WHERE title = ?", titles.Normalize(title)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query title: %w", err)
	}
	return true, nil
}

// Lookup returns the source-relative path for a title, if indexed.
func (ix *Index) Lookup(ctx context.Context, title string) (relPath string, found bool, err error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	err = ix.db.QueryRowContext(ctx,
		"SELECT rel_path FROM pages WHERE title = ?", titles.Normalize(title)).Scan(&relPath)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup title: %w", err)
	}
	return relPath, true, nil
}

// Count returns the number of indexed pages.
func (ix *Index) Count(ctx context.Context) (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var n int
	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Compile-time check that the index satisfies the resolver capability.
var _ titles.Resolver = (*Index)(nil)
