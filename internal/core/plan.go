package core

import (
	"fmt"
	"regexp"
	"strings"
)

// Plan analysis thresholds. A plan crossing these is worth the overhead of
// isolated worktrees.
const (
	highTaskCount     = 8
	moderateTaskCount = 5
)

// parallelMarkers indicate intentionally concurrent work in a plan.
var parallelMarkers = []string{"parallel", "concurrent", "simultaneous"}

// moduleMarkers indicate work spanning more than one area of a codebase
// even when task lines carry no path references.
var moduleMarkers = []string{"module", "component", "service", "frontend", "backend"}

// taskLineRe matches checklist-style task items: "- [ ] ..." or "* [x] ...".
var taskLineRe = regexp.MustCompile(`^\s*[-*]\s*\[[ xX]?\]`)

// pathRefRe finds path-like references inside a task line: at least one
// separator between word characters, e.g. src/api/handler.go or docs/plan.
var pathRefRe = regexp.MustCompile(`[\w.-]+(?:/[\w.-]+)+`)

// ParseTasks extracts checklist task lines from plan text. A plan without
// recognizable structure yields zero tasks; discovery then falls back to
// whole-text keyword extraction, so this is never an error.
func ParseTasks(planText string) []string {
	var tasks []string
	for _, line := range strings.Split(planText, "\n") {
		if taskLineRe.MatchString(line) {
			tasks = append(tasks, strings.TrimSpace(line))
		}
	}
	return tasks
}

// AnalyzePlan inspects a plan document for complexity signals and decides
// whether isolated worktrees are warranted. Pure function; the signal is
// recomputed on every call and never persisted.
func AnalyzePlan(planText string) Recommendation {
	tasks := ParseTasks(planText)

	signal := PlanSignal{
		TaskCount:               len(tasks),
		HasMultipleModules:      countModules(tasks) >= 2 || containsAny(planText, moduleMarkers),
		HasExplicitParallelWork: containsAny(planText, parallelMarkers),
	}

	// Decision precedence: first rule that fires wins.
	switch {
	case signal.HasExplicitParallelWork:
		return Recommendation{
			Signal:    signal,
			Worktrees: true,
			Reason:    "plan contains parallel/concurrent work indicators",
		}
	case signal.TaskCount >= highTaskCount:
		return Recommendation{
			Signal:    signal,
			Worktrees: true,
			Reason:    fmt.Sprintf("high task count (%d tasks)", signal.TaskCount),
		}
	case signal.TaskCount >= moderateTaskCount && signal.HasMultipleModules:
		return Recommendation{
			Signal:    signal,
			Worktrees: true,
			Reason:    fmt.Sprintf("moderate task count (%d) with multiple modules", signal.TaskCount),
		}
	}

	return Recommendation{
		Signal: signal,
		Reason: "single worktree is sufficient",
	}
}

// countModules counts distinct top-level path groupings referenced by task
// lines. "src/api/user.go" and "src/db/conn.go" share the grouping "src";
// "docs/readme.md" adds a second.
func countModules(tasks []string) int {
	groups := make(map[string]bool)
	for _, task := range tasks {
		for _, ref := range pathRefRe.FindAllString(task, -1) {
			top := ref[:strings.Index(ref, "/")]
			groups[strings.ToLower(top)] = true
		}
	}
	return len(groups)
}

func containsAny(planText string, markers []string) bool {
	lower := strings.ToLower(planText)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
