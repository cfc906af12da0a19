package worktree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StateFileName is the tracking file kept at the repository root. The
// layout is shared with older tooling; field names must stay stable.
const StateFileName = ".optr-worktrees.json"

// Record describes one live worktree.
type Record struct {
	TaskID   string `json:"task_id"`
	TaskName string `json:"task_name"`
	Path     string `json:"path"`
	Branch   string `json:"branch"`
	Created  bool   `json:"created"`
}

// Assignment maps a task onto its worktree for conflict checks.
type Assignment struct {
	TaskName string `json:"task_name"`
	Worktree string `json:"worktree"`
	Branch   string `json:"branch"`
}

// State is the persisted tracking document, keyed by task ID.
type State struct {
	Worktrees       map[string]Record     `json:"worktrees"`
	TaskAssignments map[string]Assignment `json:"task_assignments"`
}

func newState() *State {
	return &State{
		Worktrees:       make(map[string]Record),
		TaskAssignments: make(map[string]Assignment),
	}
}

// Store reads and writes the state file.
type Store struct {
	path string
}

// NewStore creates a Store for the state file under root.
func NewStore(root string) *Store {
	return &Store{path: filepath.Join(root, StateFileName)}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Load reads the state from disk. A missing file yields empty state. A
// corrupt file also yields empty state, with a warning on stderr; losing
// the tracking data must not brick the repository.
func (s *Store) Load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: cannot read %s: %v\n", s.path, err)
		}
		return newState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: corrupt state file %s, starting fresh: %v\n", s.path, err)
		return newState()
	}

	if state.Worktrees == nil {
		state.Worktrees = make(map[string]Record)
	}
	if state.TaskAssignments == nil {
		state.TaskAssignments = make(map[string]Assignment)
	}
	return &state
}

// Save writes the state to disk atomically.
func (s *Store) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // clean up on failure
		return fmt.Errorf("saving state: %w", err)
	}

	return nil
}
