// Package git wraps the version-control operations used by the commit
// workflow: repository discovery, status listing, staging, staged-diff
// retrieval, and commit.
//
// Repository state is read and mutated through go-git; the unified diff of
// the staging area is produced by the git binary because go-git has no
// index-versus-HEAD text renderer.
package git

import (
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"

	"github.com/gemmit/gemmit/internal/gitcmd"
	"github.com/gemmit/gemmit/internal/gitutil"
	"github.com/gemmit/gemmit/internal/stringsutil"
)

// ErrNotARepository indicates that neither the given path nor any of its
// ancestors contains a git repository.
var ErrNotARepository = errors.New("not a git repository (or any of the parent directories)")

// Options configures a Client.
type Options struct {
	Verbose bool
}

// Client provides access to a single on-disk repository.
type Client struct {
	repo   *gogit.Repository
	wt     *gogit.Worktree
	root   string
	runner gitcmd.Runner
}

// Open resolves the repository containing path by searching ancestor
// directories, mirroring `git rev-parse --show-toplevel`.
func Open(path string, opts Options) (*Client, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotARepository
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	return &Client{
		repo:   repo,
		wt:     wt,
		root:   root,
		runner: gitcmd.Runner{Verbose: opts.Verbose, Dir: root},
	}, nil
}

// Root returns the absolute path of the worktree root.
func (c *Client) Root() string {
	return c.root
}

// ModifiedFiles lists tracked files with unstaged modifications or
// deletions, sorted by path.
func (c *Client) ModifiedFiles() ([]string, error) {
	status, err := c.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Worktree == gogit.Modified || st.Worktree == gogit.Deleted {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// UntrackedFiles lists files that are not known to the index, sorted by
// path.
func (c *Client) UntrackedFiles() ([]string, error) {
	status, err := c.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Worktree == gogit.Untracked {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// StageFiles adds the given paths to the staging area.
func (c *Client) StageFiles(files []string) error {
	for _, file := range files {
		if _, err := c.wt.Add(file); err != nil {
			return fmt.Errorf("failed to stage %s: %w", file, err)
		}
	}
	return nil
}

// StagedDiff returns the unified diff between the staging area and HEAD.
// An empty string means there is nothing to commit.
func (c *Client) StagedDiff() (string, error) {
	result, err := c.runner.RunLogged("diff", "--cached")
	if err != nil {
		return "", gitutil.WrapGitError("failed to get staged diff", result, err)
	}
	return result.StdoutString(false), nil
}

// StagedFiles lists the paths currently staged, in git's output order.
func (c *Client) StagedFiles() ([]string, error) {
	result, err := c.runner.RunLogged("diff", "--cached", "--name-only")
	if err != nil {
		return nil, gitutil.WrapGitError("failed to list staged files", result, err)
	}
	return stringsutil.UniqueStrings(stringsutil.SplitNonEmpty(result.StdoutString(true), "\n")), nil
}

// Commit records the staged changes with the given message and returns the
// new commit hash. Author identity comes from git configuration.
func (c *Client) Commit(message string) (string, error) {
	hash, err := c.wt.Commit(message, &gogit.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to commit changes: %w", err)
	}
	return hash.String(), nil
}
