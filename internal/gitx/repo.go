// Package gitx locates the project a working directory belongs to.
package gitx

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ErrNotInRepo indicates the directory is not inside a git worktree.
var ErrNotInRepo = errors.New("not in a git repository")

// GitRepo provides an abstraction for git repository operations.
type GitRepo interface {
	// Discover finds the worktree root of the repository containing cwd.
	Discover(cwd string) (root string, err error)
}

// RealGitRepo implements GitRepo with go-git.
type RealGitRepo struct{}

// NewRealGitRepo creates a new RealGitRepo.
func NewRealGitRepo() *RealGitRepo {
	return &RealGitRepo{}
}

// Discover walks up from cwd to the nearest .git and returns its worktree root.
// Bare repositories have no worktree and report ErrNotInRepo.
func (g *RealGitRepo) Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", ErrNotInRepo
	}
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return "", ErrNotInRepo
	}
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}

// ProjectRoot returns the directory used as the project path for cwd: the
// enclosing git worktree root, or cwd itself when it is not inside a repository.
func ProjectRoot(repo GitRepo, cwd string) (string, error) {
	root, err := repo.Discover(cwd)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, ErrNotInRepo) {
		return "", err
	}

	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}
