package worktree

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// gitTimeout bounds every git invocation. Worktree operations are local
// and should never take this long; the limit guards against prompts and
// hung hooks.
const gitTimeout = 60 * time.Second

// Git runs git commands against a single repository root.
type Git struct {
	gitPath string
	root    string
}

// NewGit creates a Git bound to root. It verifies git is available.
func NewGit(root string) (*Git, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}
	return &Git{gitPath: gitPath, root: root}, nil
}

// FindRoot walks up from startDir to the directory containing .git, which
// may be a directory (normal repo) or a file (linked worktree).
func FindRoot(startDir string) (string, error) {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			if info.IsDir() || info.Mode().IsRegular() {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a git repository (or any parent): %s", startDir)
		}
		dir = parent
	}
}

// run executes git with the given arguments in the repository root,
// returning combined output.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, g.gitPath, append([]string{"-C", g.root}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), &GitError{Op: strings.Join(args, " "), Output: string(output), Err: err}
	}
	return string(output), nil
}

// BranchExists reports whether a local branch exists.
func (g *Git) BranchExists(ctx context.Context, branch string) (bool, error) {
	output, err := g.run(ctx, "branch", "--list", branch)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

// CreateBranch creates branch off base without checking it out.
func (g *Git) CreateBranch(ctx context.Context, branch, base string) error {
	_, err := g.run(ctx, "branch", branch, base)
	return err
}

// DeleteBranch force-deletes a local branch.
func (g *Git) DeleteBranch(ctx context.Context, branch string) error {
	_, err := g.run(ctx, "branch", "-D", branch)
	return err
}

// WorktreeAdd attaches an existing branch as a new worktree at path.
func (g *Git) WorktreeAdd(ctx context.Context, path, branch string) error {
	_, err := g.run(ctx, "worktree", "add", path, branch)
	return err
}

// WorktreeRemove detaches the worktree at path. With force, uncommitted
// work is discarded and stale references are pruned if the removal fails.
func (g *Git) WorktreeRemove(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	_, err := g.run(ctx, args...)
	if err != nil && force {
		if rmErr := os.RemoveAll(path); rmErr == nil {
			if _, pruneErr := g.run(ctx, "worktree", "prune"); pruneErr == nil {
				return nil
			}
		}
	}
	return err
}

// HasUncommittedChanges reports whether the worktree at path has any
// staged, unstaged, or untracked changes.
func (g *Git) HasUncommittedChanges(ctx context.Context, path string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, g.gitPath, "-C", path, "status", "--porcelain")
	output, err := cmd.Output()
	if err != nil {
		return false, &GitError{Op: "status --porcelain", Err: err}
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// WorktreeInfo is one entry of `git worktree list --porcelain`.
type WorktreeInfo struct {
	Path   string
	Branch string
	Head   string
}

// ListWorktrees returns every worktree git knows about, including the
// main checkout.
func (g *Git) ListWorktrees(ctx context.Context) ([]WorktreeInfo, error) {
	output, err := g.run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	var worktrees []WorktreeInfo
	var current WorktreeInfo
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			if current.Path != "" {
				worktrees = append(worktrees, current)
				current = WorktreeInfo{}
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(line, "branch ")
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		}
	}
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}
	return worktrees, nil
}
