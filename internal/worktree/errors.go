// Package worktree manages per-task isolated git worktrees backed by a
// persisted state file at the repository root. Each task moves through
// absent, created, removed; cleanup bulk-removes everything still created.
package worktree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyExists is returned by Create when the task already has a
	// live worktree record.
	ErrAlreadyExists = errors.New("worktree already exists for task")

	// ErrNotFound is returned by Remove when no live record exists for
	// the task.
	ErrNotFound = errors.New("no worktree found for task")

	// ErrDirtyWorkingTree is returned by Remove when the worktree has
	// uncommitted changes and force was not supplied.
	ErrDirtyWorkingTree = errors.New("worktree has uncommitted changes")
)

// GitError wraps a failed git invocation with its captured output.
type GitError struct {
	Op     string
	Output string
	Err    error
}

func (e *GitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("git %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("git %s: %v\n%s", e.Op, e.Err, out)
}

func (e *GitError) Unwrap() error { return e.Err }
