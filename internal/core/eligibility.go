package core

import (
	"path"
	"strings"
)

// isolationHoursThreshold is the estimated duration above which a task gets
// its own worktree even without an explicit isolation flag.
const isolationHoursThreshold = 1.0

// NeedsWorktree reports whether a task warrants an isolated worktree. A task
// qualifies if it asks for isolation explicitly, exceeds the duration
// threshold, or touches files that any already-assigned task also touches.
// The predicate is independent of the plan-level recommendation.
func NeedsWorktree(task TaskSpec, assigned []TaskSpec) bool {
	if task.RequiresIsolation {
		return true
	}
	if task.EstimatedHours > isolationHoursThreshold {
		return true
	}
	for _, other := range assigned {
		if other.ID == task.ID {
			continue
		}
		if filesOverlap(task.Files, other.Files) {
			return true
		}
	}
	return false
}

func filesOverlap(a, b []string) bool {
	for _, pa := range a {
		for _, pb := range b {
			if pathsConflict(pa, pb) {
				return true
			}
		}
	}
	return false
}

// pathsConflict reports whether two file references may touch the same files.
// Either side may be a glob pattern; a directory reference conflicts with
// anything beneath it.
func pathsConflict(a, b string) bool {
	a = path.Clean(strings.TrimSpace(a))
	b = path.Clean(strings.TrimSpace(b))
	if a == b {
		return true
	}
	if ok, err := path.Match(a, b); err == nil && ok {
		return true
	}
	if ok, err := path.Match(b, a); err == nil && ok {
		return true
	}
	return strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}
