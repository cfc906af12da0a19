package core

import (
	"sort"
	"strings"
)

// normalizeName is the deduplication identity: two candidates are the same
// tool when their normalized names match, regardless of source.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ScoreAndRank scores every candidate against the plan token set,
// deduplicates by normalized name, and returns the ranked result.
//
// Scoring: finalScore = sourceTierBase + |keywords ∩ planTokens| for
// filesystem candidates. Registry candidates carrying an external relevance
// already hold round(relevance*10) as their base and take no keyword bonus —
// the semantic score replaces overlap counting entirely.
//
// Dedup: the highest source tier wins (project > global > registry); the
// lower-tier entry is discarded, scores are never blended. Among same-tier
// duplicates the first occurrence wins.
//
// Order: finalScore descending, then tier (project first), then name
// ascending for determinism.
func ScoreAndRank(candidates []ToolCandidate, planTokens map[string]bool) []MatchedTool {
	byName := make(map[string]ToolCandidate, len(candidates))
	for _, c := range candidates {
		key := normalizeName(c.Name)
		if key == "" {
			continue
		}
		kept, exists := byName[key]
		if !exists || c.Source.tier() > kept.Source.tier() {
			byName[key] = c
		}
	}

	matched := make([]MatchedTool, 0, len(byName))
	for _, c := range byName {
		score := c.BaseScore
		if !(c.Source == SourceRegistry && c.Relevance >= 0) {
			score += overlap(c.Keywords, planTokens)
		}
		matched = append(matched, MatchedTool{ToolCandidate: c, FinalScore: score})
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FinalScore != matched[j].FinalScore {
			return matched[i].FinalScore > matched[j].FinalScore
		}
		if ti, tj := matched[i].Source.tier(), matched[j].Source.tier(); ti != tj {
			return ti > tj
		}
		return normalizeName(matched[i].Name) < normalizeName(matched[j].Name)
	})

	return matched
}
