// Package source loads the wiki content set, either from a local directory
// or from a git repository checked out into a workspace.
package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/linkonce/internal/config"
	loerrors "git.home.luguber.info/inful/linkonce/internal/errors"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// Page is one wiki page source file.
type Page struct {
	Path         string // absolute path on disk
	RelativePath string // path relative to the content root, slash-separated
	Title        string // normalized wiki title derived from the relative path
	Content      []byte // raw markdown source
}

// Loader produces the current content set. Implementations: directory tree,
// git checkout.
type Loader interface {
	// Load returns all wiki pages, sorted by relative path.
	Load() ([]Page, error)
	// Root returns the content root directory on disk (used for watching).
	Root() string
}

// NewLoader builds the Loader matching the source configuration.
func NewLoader(cfg config.SourceConfig) (Loader, error) {
	switch cfg.Type {
	case config.SourceTypeDir:
		return &DirLoader{root: cfg.Path}, nil
	case config.SourceTypeGit:
		return newGitLoader(cfg)
	default:
		return nil, loerrors.ValidationFailed("source.type", "unsupported value "+cfg.Type)
	}
}

// DirLoader reads pages from a directory tree of markdown files.
type DirLoader struct {
	root string
}

func (l *DirLoader) Root() string { return l.root }

func (l *DirLoader) Load() ([]Page, error) {
	pages, err := loadTree(l.root)
	if err != nil {
		return nil, loerrors.SourceError(l.root, err)
	}
	return pages, nil
}

// markdownExtensions are the file suffixes treated as wiki pages.
var markdownExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".wiki":     {},
}

// loadTree walks root collecting markdown pages, skipping hidden directories.
func loadTree(root string) ([]Page, error) {
	var pages []Page
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := markdownExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		pages = append(pages, Page{
			Path:         path,
			RelativePath: rel,
			Title:        TitleFromPath(rel),
			Content:      content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].RelativePath < pages[j].RelativePath
	})
	return pages, nil
}

// TitleFromPath derives the wiki title for a page from its relative path:
// the extension is dropped and the remaining path is normalized, so
// "help/Getting_started.md" addresses the page "Help/getting started" as
// "Help/Getting started".
func TitleFromPath(relativePath string) string {
	trimmed := strings.TrimSuffix(relativePath, filepath.Ext(relativePath))
	return titles.Normalize(trimmed)
}
