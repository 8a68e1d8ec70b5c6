package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/linkonce/internal/config"
	loerrors "git.home.luguber.info/inful/linkonce/internal/errors"
)

// GitLoader clones a wiki content repository into a workspace directory and
// reads pages from the checkout. Refresh re-pulls the configured branch.
type GitLoader struct {
	url      string
	branch   string
	repoPath string
}

func newGitLoader(cfg config.SourceConfig) (*GitLoader, error) {
	workspace := cfg.Workspace
	if workspace == "" {
		dir, err := os.MkdirTemp("", "linkonce-src-")
		if err != nil {
			return nil, loerrors.SourceError(cfg.URL, err)
		}
		workspace = dir
	}
	return &GitLoader{
		url:      cfg.URL,
		branch:   cfg.Branch,
		repoPath: filepath.Join(workspace, "content"),
	}, nil
}

func (l *GitLoader) Root() string { return l.repoPath }

// Load clones on first use (or pulls when a checkout already exists), then
// reads the page tree from the checkout.
func (l *GitLoader) Load() ([]Page, error) {
	if _, err := os.Stat(filepath.Join(l.repoPath, ".git")); os.IsNotExist(err) {
		if err := l.clone(); err != nil {
			return nil, err
		}
	} else if err := l.pull(); err != nil {
		// A failed refresh degrades to the existing checkout.
		slog.Warn("Content refresh failed, using existing checkout",
			"url", l.url, "error", err)
	}

	pages, err := loadTree(l.repoPath)
	if err != nil {
		return nil, loerrors.SourceError(l.url, err)
	}
	return pages, nil
}

func (l *GitLoader) clone() error {
	slog.Debug("Cloning content repository", "url", l.url, "branch", l.branch, "path", l.repoPath)
	if err := os.RemoveAll(l.repoPath); err != nil {
		return loerrors.SourceError(l.url, fmt.Errorf("failed to remove existing directory: %w", err))
	}

	cloneOptions := &git.CloneOptions{URL: l.url, Depth: 1}
	if l.branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + l.branch)
		cloneOptions.SingleBranch = true
	}
	if _, err := git.PlainClone(l.repoPath, false, cloneOptions); err != nil {
		return loerrors.SourceError(l.url, fmt.Errorf("clone failed: %w", err))
	}
	return nil
}

func (l *GitLoader) pull() error {
	repo, err := git.PlainOpen(l.repoPath)
	if err != nil {
		return fmt.Errorf("open checkout: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	err = wt.Pull(&git.PullOptions{RemoteName: "origin", SingleBranch: true})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("pull: %w", err)
	}
	return nil
}
