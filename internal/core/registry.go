package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	// registryTimeout bounds the external catalog command. Registry
	// unavailability is a soft failure; it must never hang discovery.
	registryTimeout = 30 * time.Second

	// registryFlatScore is the base score for registry candidates when the
	// catalog provides no relevance value.
	registryFlatScore = 3

	// DefaultRelevanceThreshold is the acceptance floor for registry
	// candidates carrying an external relevance value. This is a fixed
	// threshold, overridable only by explicit configuration.
	DefaultRelevanceThreshold = 0.7
)

// DefaultRegistryCommand is the catalog listing command run by the registry
// scanner when the config does not override it.
var DefaultRegistryCommand = []string{"optr-registry", "list", "--json"}

// RegistryScanner invokes an external catalog command and converts its JSON
// output into tool candidates. Every failure mode — missing binary,
// timeout, malformed output — degrades to zero candidates plus a
// RegistryUnavailableError warning; discovery itself never fails.
type RegistryScanner struct {
	// Command is the catalog listing invocation. Defaults to
	// DefaultRegistryCommand.
	Command []string

	// Threshold is the relevance acceptance floor for entries that carry a
	// relevance value. Zero means DefaultRelevanceThreshold.
	Threshold float64

	// Oracle, when set, supplies relevance scores for entries the catalog
	// returned without one. Oracle failures are ignored.
	Oracle RelevanceOracle

	// PlanText is the plan document content handed to the Oracle.
	PlanText string

	// Timeout overrides registryTimeout, for tests.
	Timeout time.Duration
}

// RelevanceOracle scores registry entries against a plan. It is an opaque
// external collaborator; any error means "no scores".
type RelevanceOracle interface {
	Score(ctx context.Context, planText string, entries []RegistryEntry) (map[string]float64, error)
}

func (s *RegistryScanner) Name() Source { return SourceRegistry }

func (s *RegistryScanner) Scan(ctx context.Context) ([]ToolCandidate, error) {
	command := s.Command
	if len(command) == 0 {
		command = DefaultRegistryCommand
	}
	timeout := s.Timeout
	if timeout == 0 {
		timeout = registryTimeout
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := runWithTimeout(cmd, timeout)
	if err != nil {
		return nil, &RegistryUnavailableError{Command: strings.Join(command, " "), Err: err}
	}

	entries, err := parseCatalog(output)
	if err != nil {
		return nil, &RegistryUnavailableError{Command: strings.Join(command, " "), Err: err}
	}

	s.fillRelevance(ctx, entries)

	threshold := s.Threshold
	if threshold == 0 {
		threshold = DefaultRelevanceThreshold
	}

	var candidates []ToolCandidate
	for _, e := range entries {
		if e.Name == "" {
			continue
		}

		c := ToolCandidate{
			Name:           e.Name,
			Description:    e.Description,
			Source:         SourceRegistry,
			Keywords:       ExtractKeywords(e.Name + " " + e.Description),
			Relevance:      -1,
			InstallCommand: e.Install,
		}
		if c.InstallCommand == "" {
			c.InstallCommand = fmt.Sprintf("optr-registry install %s", e.Name)
		}

		if e.Relevance != nil {
			// Relevance-scored entries below the floor are discarded
			// outright; the rest carry a relevance-scaled base.
			r := *e.Relevance
			if r < threshold {
				continue
			}
			c.Relevance = r
			c.BaseScore = int(math.Round(r * 10))
		} else {
			c.BaseScore = registryFlatScore
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}

// fillRelevance asks the oracle to score entries the catalog returned
// without a relevance value. Oracle failures leave entries unscored.
func (s *RegistryScanner) fillRelevance(ctx context.Context, entries []RegistryEntry) {
	if s.Oracle == nil || s.PlanText == "" {
		return
	}

	var unscored []RegistryEntry
	for _, e := range entries {
		if e.Relevance == nil {
			unscored = append(unscored, e)
		}
	}
	if len(unscored) == 0 {
		return
	}

	scores, err := s.Oracle.Score(ctx, s.PlanText, unscored)
	if err != nil {
		return
	}

	for i := range entries {
		if entries[i].Relevance != nil {
			continue
		}
		if r, ok := scores[entries[i].Name]; ok && r >= 0 && r <= 1 {
			v := r
			entries[i].Relevance = &v
		}
	}
}

// parseCatalog decodes the catalog command's JSON array output. Leading
// noise before the array (progress lines on stdout) is tolerated.
func parseCatalog(output string) ([]RegistryEntry, error) {
	trimmed := strings.TrimSpace(output)
	if idx := strings.Index(trimmed, "["); idx > 0 {
		trimmed = trimmed[idx:]
	}

	var entries []RegistryEntry
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog output: %w", err)
	}
	return entries, nil
}
