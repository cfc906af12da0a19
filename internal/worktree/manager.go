package worktree

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

const defaultBaseBranch = "main"

// gitRunner is the subset of git operations the manager needs. *Git
// satisfies it; tests substitute a fake.
type gitRunner interface {
	BranchExists(ctx context.Context, branch string) (bool, error)
	CreateBranch(ctx context.Context, branch, base string) error
	DeleteBranch(ctx context.Context, branch string) error
	WorktreeAdd(ctx context.Context, path, branch string) error
	WorktreeRemove(ctx context.Context, path string, force bool) error
	HasUncommittedChanges(ctx context.Context, path string) (bool, error)
	ListWorktrees(ctx context.Context) ([]WorktreeInfo, error)
}

// Options tunes manager behavior.
type Options struct {
	// KeepBranches leaves task branches behind after worktree removal so
	// the work stays inspectable. This is the default.
	KeepBranches bool
}

// Manager drives the per-task worktree lifecycle.
type Manager struct {
	root  string
	git   gitRunner
	store *Store
	opts  Options
}

// NewManager creates a Manager rooted at the repository containing dir.
func NewManager(dir string, opts Options) (*Manager, error) {
	root, err := FindRoot(dir)
	if err != nil {
		return nil, err
	}
	git, err := NewGit(root)
	if err != nil {
		return nil, err
	}
	return &Manager{
		root:  root,
		git:   git,
		store: NewStore(root),
		opts:  opts,
	}, nil
}

// Root returns the repository root the manager operates on.
func (m *Manager) Root() string { return m.root }

// BranchName returns the deterministic branch for a task.
func BranchName(taskID string) string {
	return "optr/task-" + taskID
}

// worktreeDirName returns the deterministic directory name for a task.
func worktreeDirName(taskID string) string {
	return ".optr-worktree-" + taskID
}

// Create provisions a worktree for the task: a branch derived from the
// task ID, attached at a deterministic path under the repository root.
// An existing branch with the right name is reused rather than recreated.
// Fails with ErrAlreadyExists when the task already has a live record.
func (m *Manager) Create(ctx context.Context, taskID, taskName, baseBranch string) (*Record, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task id is required")
	}
	if baseBranch == "" {
		baseBranch = defaultBaseBranch
	}

	state := m.store.Load()
	if _, exists := state.Worktrees[taskID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, taskID)
	}

	branch := BranchName(taskID)
	exists, err := m.git.BranchExists(ctx, branch)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := m.git.CreateBranch(ctx, branch, baseBranch); err != nil {
			return nil, err
		}
	}

	dirName := worktreeDirName(taskID)
	path := filepath.Join(m.root, dirName)
	if err := m.git.WorktreeAdd(ctx, path, branch); err != nil {
		return nil, err
	}

	record := Record{
		TaskID:   taskID,
		TaskName: taskName,
		Path:     path,
		Branch:   branch,
		Created:  true,
	}
	state.Worktrees[taskID] = record
	state.TaskAssignments[taskID] = Assignment{
		TaskName: taskName,
		Worktree: dirName,
		Branch:   branch,
	}
	if err := m.store.Save(state); err != nil {
		return nil, err
	}

	return &record, nil
}

// Get returns the live record for a task, or nil.
func (m *Manager) Get(taskID string) *Record {
	state := m.store.Load()
	if record, ok := state.Worktrees[taskID]; ok {
		return &record
	}
	return nil
}

// List returns all live records, ordered by task ID. Pure read.
func (m *Manager) List() []Record {
	state := m.store.Load()
	records := make([]Record, 0, len(state.Worktrees))
	for _, record := range state.Worktrees {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].TaskID < records[j].TaskID })
	return records
}

// Assignments returns the task assignment table, keyed by task ID.
func (m *Manager) Assignments() map[string]Assignment {
	return m.store.Load().TaskAssignments
}

// ListGit returns every worktree git itself reports, including the main
// checkout. Used for display alongside the tracked records.
func (m *Manager) ListGit(ctx context.Context) ([]WorktreeInfo, error) {
	return m.git.ListWorktrees(ctx)
}

// Remove tears down the task's worktree. Uncommitted changes block the
// removal with ErrDirtyWorkingTree unless force is set, in which case the
// work is discarded. The branch is deleted only when KeepBranches is off.
func (m *Manager) Remove(ctx context.Context, taskID string, force bool) error {
	state := m.store.Load()
	record, ok := state.Worktrees[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}

	if !force {
		dirty, err := m.git.HasUncommittedChanges(ctx, record.Path)
		if err != nil {
			return err
		}
		if dirty {
			return fmt.Errorf("%w: %s", ErrDirtyWorkingTree, record.Path)
		}
	}

	if err := m.git.WorktreeRemove(ctx, record.Path, force); err != nil {
		return err
	}

	delete(state.Worktrees, taskID)
	delete(state.TaskAssignments, taskID)
	if err := m.store.Save(state); err != nil {
		return err
	}

	if !m.opts.KeepBranches {
		if err := m.git.DeleteBranch(ctx, record.Branch); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup removes every live worktree. Failures do not stop the sweep;
// the removed count covers what succeeded and the error aggregates every
// failure.
func (m *Manager) Cleanup(ctx context.Context, force bool) (int, error) {
	var taskIDs []string
	for taskID := range m.store.Load().Worktrees {
		taskIDs = append(taskIDs, taskID)
	}
	sort.Strings(taskIDs)

	removed := 0
	var errs []error
	for _, taskID := range taskIDs {
		if err := m.Remove(ctx, taskID, force); err != nil {
			errs = append(errs, fmt.Errorf("task %s: %w", taskID, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
