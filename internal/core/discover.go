package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Decision is the caller's answer to the phase-1 gate: whether to continue
// discovery into the registry source. The interactive prompt lives outside
// the core; the engine only ever sees the resulting value.
type Decision int

const (
	DecisionProceed Decision = iota
	DecisionSkip
	DecisionAbort
)

// Report is the output of a discovery phase: ranked matches plus per-source
// candidate counts and any non-fatal scanner warnings.
type Report struct {
	Tools    []MatchedTool
	Counts   map[Source]int
	Warnings []error
}

// ReadyToUse returns the project/global portion of the ranked list.
func (r *Report) ReadyToUse() []MatchedTool {
	var out []MatchedTool
	for _, t := range r.Tools {
		if !t.Installable() {
			out = append(out, t)
		}
	}
	return out
}

// Installables returns the registry portion of the ranked list.
func (r *Report) Installables() []MatchedTool {
	var out []MatchedTool
	for _, t := range r.Tools {
		if t.Installable() {
			out = append(out, t)
		}
	}
	return out
}

// Session drives the two-phase, user-gated discovery flow. Phase 1 scans
// the local sources only; the caller then supplies a Decision; on Proceed,
// Phase 2 re-scans everything including the registry and recomputes the
// merge over the union. The session performs no I/O beyond the scanners
// and never prompts.
type Session struct {
	Local    []Scanner // project + global, phase 1
	Registry Scanner   // phase 2 only; may be nil

	tokens map[string]bool
}

// NewSession builds a discovery session for the given plan text with the
// standard scanner set.
func NewSession(planText string, local []Scanner, registry Scanner) *Session {
	return &Session{
		Local:    local,
		Registry: registry,
		tokens:   ExtractKeywords(planText),
	}
}

// Phase1 scans the local sources and returns the ranked local-only report.
// An empty result is a valid, expected state.
func (s *Session) Phase1(ctx context.Context) (*Report, error) {
	return s.run(ctx, s.Local)
}

// Phase2 re-runs scanning including the registry source and recomputes the
// score/dedup over the union of all sources.
func (s *Session) Phase2(ctx context.Context) (*Report, error) {
	scanners := s.Local
	if s.Registry != nil {
		scanners = append(append([]Scanner{}, s.Local...), s.Registry)
	}
	return s.run(ctx, scanners)
}

// run executes the scanners concurrently. Scanners share no state and each
// writes only its own result slot; failures degrade to fewer candidates
// and are reported as warnings, never as a discovery failure.
func (s *Session) run(ctx context.Context, scanners []Scanner) (*Report, error) {
	results := make([][]ToolCandidate, len(scanners))
	warnings := make([]error, len(scanners))

	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range scanners {
		g.Go(func() error {
			found, err := sc.Scan(gctx)
			if err != nil {
				warnings[i] = wrapScanError(sc.Name(), err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Counts: make(map[Source]int)}
	var all []ToolCandidate
	for i, found := range results {
		all = append(all, found...)
		report.Counts[scanners[i].Name()] += len(found)
	}
	for _, w := range warnings {
		if w != nil {
			report.Warnings = append(report.Warnings, w)
		}
	}

	report.Tools = ScoreAndRank(all, s.tokens)
	return report, nil
}

// wrapScanError normalizes scanner failures into the warning taxonomy,
// preserving registry-specific errors.
func wrapScanError(source Source, err error) error {
	if _, ok := err.(*RegistryUnavailableError); ok {
		return err
	}
	return &ScanError{Source: source, Err: err}
}

// Discover is the single-shot convenience wrapper: phase 1, a fixed
// decision, then phase 2 when the decision is Proceed. It returns the final
// report, which is the phase-1 report when the registry was skipped.
func Discover(ctx context.Context, session *Session, decision Decision) (*Report, error) {
	report, err := session.Phase1(ctx)
	if err != nil {
		return nil, err
	}

	switch decision {
	case DecisionProceed:
		return session.Phase2(ctx)
	case DecisionSkip:
		return report, nil
	case DecisionAbort:
		return nil, fmt.Errorf("discovery aborted")
	}
	return nil, fmt.Errorf("unknown decision %d", decision)
}
