package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/lucasvautier/planrun/internal/logger"
	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

// SyncStatus describes what a Sync call did to the local checkout.
type SyncStatus int

const (
	// StatusCloned means the catalog did not exist locally and was cloned.
	StatusCloned SyncStatus = iota
	// StatusUpdated means the local checkout received new commits.
	StatusUpdated
	// StatusUpToDate means the local checkout already matched the remote.
	StatusUpToDate
)

func (s SyncStatus) String() string {
	switch s {
	case StatusCloned:
		return "cloned"
	case StatusUpdated:
		return "updated"
	case StatusUpToDate:
		return "up to date"
	default:
		return "unknown"
	}
}

// Catalog mirrors a git repository of scenario configuration files into
// a local directory.
type Catalog struct {
	url    string
	branch string
	dest   string
	log    *logger.Logger
}

// New creates a catalog for the given remote URL and local destination.
func New(url, branch, dest string, log *logger.Logger) (*Catalog, error) {
	if url == "" {
		return nil, planrunerrors.NewValidationError("catalog.url", "remote URL is required", nil)
	}
	if dest == "" {
		return nil, planrunerrors.NewValidationError("catalog.dest", "destination directory is required", nil)
	}
	return &Catalog{url: url, branch: branch, dest: dest, log: log}, nil
}

// Sync clones the catalog when missing and pulls it when present.
func (c *Catalog) Sync(ctx context.Context) (SyncStatus, error) {
	repo, err := git.PlainOpen(c.dest)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return c.clone(ctx)
	}
	if err != nil {
		return StatusUpToDate, fmt.Errorf("open catalog at %s: %w", c.dest, err)
	}
	return c.pull(ctx, repo)
}

func (c *Catalog) clone(ctx context.Context) (SyncStatus, error) {
	if err := os.MkdirAll(filepath.Dir(c.dest), 0o755); err != nil {
		return StatusUpToDate, fmt.Errorf("create catalog parent directory: %w", err)
	}

	opts := &git.CloneOptions{URL: c.url}
	if c.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.branch)
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, c.dest, false, opts); err != nil {
		return StatusUpToDate, fmt.Errorf("clone catalog %s: %w", c.url, err)
	}
	c.log.WithFields(map[string]any{"url": c.url, "dest": c.dest}).Info("catalog cloned")
	return StatusCloned, nil
}

func (c *Catalog) pull(ctx context.Context, repo *git.Repository) (SyncStatus, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return StatusUpToDate, fmt.Errorf("open catalog worktree: %w", err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if c.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.branch)
		opts.SingleBranch = true
	}

	err = worktree.PullContext(ctx, opts)
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return StatusUpToDate, nil
	case err != nil:
		return StatusUpToDate, fmt.Errorf("pull catalog %s: %w", c.url, err)
	}
	c.log.WithFields(map[string]any{"url": c.url, "dest": c.dest}).Info("catalog updated")
	return StatusUpdated, nil
}

// Configs lists the scenario configuration files in the local checkout,
// relative to the catalog root and sorted.
func (c *Catalog) Configs() ([]string, error) {
	var configs []string
	err := filepath.WalkDir(c.dest, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		rel, err := filepath.Rel(c.dest, path)
		if err != nil {
			return err
		}
		configs = append(configs, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list catalog configs: %w", err)
	}
	sort.Strings(configs)
	return configs, nil
}
