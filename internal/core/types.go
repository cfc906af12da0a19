// Package core provides the business logic for OPTR: tool discovery and
// matching against a plan document, plan complexity analysis, and per-task
// worktree eligibility. It has zero UI dependencies and is independently
// testable.
package core

// Source identifies where a tool candidate was found. It determines the
// candidate's priority tier during deduplication: project beats global
// beats registry, regardless of score.
type Source string

const (
	SourceProject  Source = "project"
	SourceGlobal   Source = "global"
	SourceRegistry Source = "registry"
)

// tier returns the numeric priority of a source for tie-breaking.
// Higher wins.
func (s Source) tier() int {
	switch s {
	case SourceProject:
		return 3
	case SourceGlobal:
		return 2
	case SourceRegistry:
		return 1
	}
	return 0
}

// ToolCandidate is a tool descriptor produced by a source scanner, before
// scoring and deduplication.
type ToolCandidate struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Source      Source          `json:"source"`
	Keywords    map[string]bool `json:"-"`

	// BaseScore is the source-tier base assigned by the scanner:
	// project=10, global=5, registry=3 (or relevance-scaled).
	BaseScore int `json:"baseScore"`

	// Relevance is the external relevance value in [0,1] supplied by the
	// registry or the semantic oracle. Negative means "not provided".
	Relevance float64 `json:"relevance,omitempty"`

	// InstallCommand is the literal install directive for registry
	// candidates. Empty for local tools.
	InstallCommand string `json:"installCommand,omitempty"`

	// Path is the descriptor location on disk, when the candidate came
	// from a filesystem scanner.
	Path string `json:"path,omitempty"`
}

// MatchedTool is a scored candidate emitted by the scorer. Immutable once
// ranked.
type MatchedTool struct {
	ToolCandidate
	FinalScore int `json:"finalScore"`
}

// Installable reports whether the tool must be installed before use
// (registry-sourced, not already available locally).
func (m MatchedTool) Installable() bool {
	return m.Source == SourceRegistry
}

// PlanSignal is an ephemeral summary of a plan document, computed fresh on
// every analysis call and never persisted.
type PlanSignal struct {
	TaskCount               int  `json:"task_count"`
	HasMultipleModules      bool `json:"has_modules"`
	HasExplicitParallelWork bool `json:"has_parallel_work"`
}

// Recommendation is the outcome of plan complexity analysis.
type Recommendation struct {
	Signal    PlanSignal `json:"signal"`
	Worktrees bool       `json:"recommend_worktree"`
	Reason    string     `json:"reason"`
}

// TaskSpec describes a single plan task for worktree eligibility checks.
type TaskSpec struct {
	ID                string   `json:"id"`
	Name              string   `json:"name,omitempty"`
	RequiresIsolation bool     `json:"requires_isolation,omitempty"`
	EstimatedHours    float64  `json:"estimated_hours,omitempty"`
	Files             []string `json:"files,omitempty"`
}

// RegistryEntry is one item of the external registry catalog, as returned
// by the catalog command (JSON array).
type RegistryEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Relevance   *float64 `json:"relevance,omitempty"`
	Install     string   `json:"install,omitempty"`
}
