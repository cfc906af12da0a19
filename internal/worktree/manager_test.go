package worktree

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit records operations and serves canned answers.
type fakeGit struct {
	branches map[string]bool
	dirty    map[string]bool

	addedWorktrees  []string
	removedPaths    []string
	deletedBranches []string
	removeErr       error
}

func newFakeGit() *fakeGit {
	return &fakeGit{branches: map[string]bool{}, dirty: map[string]bool{}}
}

func (f *fakeGit) BranchExists(ctx context.Context, branch string) (bool, error) {
	return f.branches[branch], nil
}

func (f *fakeGit) CreateBranch(ctx context.Context, branch, base string) error {
	f.branches[branch] = true
	return nil
}

func (f *fakeGit) DeleteBranch(ctx context.Context, branch string) error {
	delete(f.branches, branch)
	f.deletedBranches = append(f.deletedBranches, branch)
	return nil
}

func (f *fakeGit) WorktreeAdd(ctx context.Context, path, branch string) error {
	f.addedWorktrees = append(f.addedWorktrees, path)
	return nil
}

func (f *fakeGit) WorktreeRemove(ctx context.Context, path string, force bool) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedPaths = append(f.removedPaths, path)
	return nil
}

func (f *fakeGit) HasUncommittedChanges(ctx context.Context, path string) (bool, error) {
	return f.dirty[path], nil
}

func (f *fakeGit) ListWorktrees(ctx context.Context) ([]WorktreeInfo, error) {
	return nil, nil
}

func newTestManager(t *testing.T, git gitRunner, opts Options) *Manager {
	t.Helper()
	dir := t.TempDir()
	return &Manager{root: dir, git: git, store: NewStore(dir), opts: opts}
}

func TestManager_Create(t *testing.T) {
	git := newFakeGit()
	m := newTestManager(t, git, Options{KeepBranches: true})

	record, err := m.Create(context.Background(), "t1", "Build API", "")
	require.NoError(t, err)

	assert.Equal(t, "optr/task-t1", record.Branch)
	assert.Equal(t, filepath.Join(m.root, ".optr-worktree-t1"), record.Path)
	assert.True(t, record.Created)
	assert.True(t, git.branches["optr/task-t1"], "branch should be created")
	require.Len(t, git.addedWorktrees, 1)

	// Persisted.
	require.NotNil(t, m.Get("t1"))
	assert.Equal(t, ".optr-worktree-t1", m.store.Load().TaskAssignments["t1"].Worktree)
}

func TestManager_Create_ReusesBranch(t *testing.T) {
	git := newFakeGit()
	git.branches["optr/task-t1"] = true
	m := newTestManager(t, git, Options{KeepBranches: true})

	_, err := m.Create(context.Background(), "t1", "Build API", "main")
	require.NoError(t, err)
}

func TestManager_Create_Duplicate(t *testing.T) {
	m := newTestManager(t, newFakeGit(), Options{KeepBranches: true})

	_, err := m.Create(context.Background(), "t1", "Build API", "")
	require.NoError(t, err)

	_, err = m.Create(context.Background(), "t1", "Build API again", "")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestManager_List(t *testing.T) {
	m := newTestManager(t, newFakeGit(), Options{KeepBranches: true})

	for _, id := range []string{"b", "a", "c"} {
		_, err := m.Create(context.Background(), id, "task "+id, "")
		require.NoError(t, err)
	}

	records := m.List()
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].TaskID)
	assert.Equal(t, "c", records[2].TaskID)
}

func TestManager_Remove(t *testing.T) {
	git := newFakeGit()
	m := newTestManager(t, git, Options{KeepBranches: true})

	_, err := m.Create(context.Background(), "t1", "Build API", "")
	require.NoError(t, err)

	require.NoError(t, m.Remove(context.Background(), "t1", false))
	assert.Nil(t, m.Get("t1"))
	assert.Empty(t, m.store.Load().TaskAssignments)
	assert.Empty(t, git.deletedBranches, "branch should survive by default")
}

func TestManager_Remove_NotFound(t *testing.T) {
	m := newTestManager(t, newFakeGit(), Options{KeepBranches: true})
	assert.ErrorIs(t, m.Remove(context.Background(), "nope", false), ErrNotFound)
}

func TestManager_Remove_Dirty(t *testing.T) {
	git := newFakeGit()
	m := newTestManager(t, git, Options{KeepBranches: true})

	record, err := m.Create(context.Background(), "t1", "Build API", "")
	require.NoError(t, err)
	git.dirty[record.Path] = true

	err = m.Remove(context.Background(), "t1", false)
	assert.ErrorIs(t, err, ErrDirtyWorkingTree)
	require.NotNil(t, m.Get("t1"), "record must survive a refused removal")

	// Force discards the uncommitted work.
	require.NoError(t, m.Remove(context.Background(), "t1", true))
	assert.Nil(t, m.Get("t1"))
}

func TestManager_Remove_DeleteBranch(t *testing.T) {
	git := newFakeGit()
	m := newTestManager(t, git, Options{KeepBranches: false})

	_, err := m.Create(context.Background(), "t1", "Build API", "")
	require.NoError(t, err)

	require.NoError(t, m.Remove(context.Background(), "t1", false))
	assert.Equal(t, []string{"optr/task-t1"}, git.deletedBranches)
}

func TestManager_Cleanup(t *testing.T) {
	git := newFakeGit()
	m := newTestManager(t, git, Options{KeepBranches: true})

	for _, id := range []string{"t1", "t2", "t3"} {
		_, err := m.Create(context.Background(), id, "task", "")
		require.NoError(t, err)
	}

	removed, err := m.Cleanup(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Empty(t, m.List())
}

func TestManager_Cleanup_AggregatesFailures(t *testing.T) {
	git := newFakeGit()
	m := newTestManager(t, git, Options{KeepBranches: true})

	_, err := m.Create(context.Background(), "t1", "task", "")
	require.NoError(t, err)
	record, err := m.Create(context.Background(), "t2", "task", "")
	require.NoError(t, err)

	// t2 is dirty; without force its removal fails but the sweep goes on.
	git.dirty[record.Path] = true

	removed, err := m.Cleanup(context.Background(), false)
	assert.Equal(t, 1, removed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirtyWorkingTree)
	assert.Contains(t, err.Error(), "t2")
	require.Len(t, m.List(), 1)
}

func TestManager_Cleanup_GitFailure(t *testing.T) {
	git := newFakeGit()
	m := newTestManager(t, git, Options{KeepBranches: true})

	_, err := m.Create(context.Background(), "t1", "task", "")
	require.NoError(t, err)
	git.removeErr = errors.New("worktree locked")

	removed, err := m.Cleanup(context.Background(), true)
	assert.Zero(t, removed)
	assert.Error(t, err)
	require.Len(t, m.List(), 1, "state must not drop a record whose removal failed")
}

func TestBranchName(t *testing.T) {
	assert.Equal(t, "optr/task-42", BranchName("42"))
}
