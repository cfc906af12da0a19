package core

import "testing"

func TestScoreAndRank_KeywordOverlap(t *testing.T) {
	plan := map[string]bool{"database": true, "migration": true, "testing": true}

	candidates := []ToolCandidate{
		{
			Name:      "db-tool",
			Source:    SourceProject,
			BaseScore: 10,
			Relevance: -1,
			Keywords:  map[string]bool{"database": true, "migration": true},
		},
		{
			Name:      "other",
			Source:    SourceProject,
			BaseScore: 10,
			Relevance: -1,
			Keywords:  map[string]bool{"frontend": true},
		},
	}

	ranked := ScoreAndRank(candidates, plan)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(ranked))
	}
	if ranked[0].Name != "db-tool" || ranked[0].FinalScore != 12 {
		t.Errorf("first = %s/%d, want db-tool/12", ranked[0].Name, ranked[0].FinalScore)
	}
	if ranked[1].FinalScore != 10 {
		t.Errorf("second score = %d, want 10", ranked[1].FinalScore)
	}
}

func TestScoreAndRank_RelevanceReplacesOverlap(t *testing.T) {
	plan := map[string]bool{"database": true}

	candidates := []ToolCandidate{{
		Name:      "reg-tool",
		Source:    SourceRegistry,
		BaseScore: 8,
		Relevance: 0.8,
		Keywords:  map[string]bool{"database": true},
	}}

	ranked := ScoreAndRank(candidates, plan)
	if ranked[0].FinalScore != 8 {
		t.Errorf("FinalScore = %d, want 8 (no keyword bonus on relevance-scored entries)", ranked[0].FinalScore)
	}
}

func TestScoreAndRank_DedupHigherTierWins(t *testing.T) {
	candidates := []ToolCandidate{
		{Name: "Formatter", Source: SourceRegistry, BaseScore: 9, Relevance: 0.9},
		{Name: "formatter", Source: SourceProject, BaseScore: 10, Relevance: -1},
		{Name: "formatter ", Source: SourceGlobal, BaseScore: 5, Relevance: -1},
	}

	ranked := ScoreAndRank(candidates, nil)
	if len(ranked) != 1 {
		t.Fatalf("expected 1 tool after dedup, got %d", len(ranked))
	}
	if ranked[0].Source != SourceProject {
		t.Errorf("Source = %q, want project (highest tier wins)", ranked[0].Source)
	}
	if ranked[0].FinalScore != 10 {
		t.Errorf("FinalScore = %d, want 10 (scores never blended)", ranked[0].FinalScore)
	}
}

func TestScoreAndRank_DedupSameTierFirstWins(t *testing.T) {
	candidates := []ToolCandidate{
		{Name: "tool", Description: "first", Source: SourceGlobal, BaseScore: 5, Relevance: -1},
		{Name: "tool", Description: "second", Source: SourceGlobal, BaseScore: 5, Relevance: -1},
	}

	ranked := ScoreAndRank(candidates, nil)
	if len(ranked) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(ranked))
	}
	if ranked[0].Description != "first" {
		t.Errorf("Description = %q, want first occurrence kept", ranked[0].Description)
	}
}

func TestScoreAndRank_Ordering(t *testing.T) {
	candidates := []ToolCandidate{
		{Name: "bbb", Source: SourceGlobal, BaseScore: 5, Relevance: -1},
		{Name: "aaa", Source: SourceGlobal, BaseScore: 5, Relevance: -1},
		{Name: "reg", Source: SourceRegistry, BaseScore: 5, Relevance: -1},
		{Name: "top", Source: SourceProject, BaseScore: 10, Relevance: -1},
	}

	ranked := ScoreAndRank(candidates, nil)
	got := make([]string, len(ranked))
	for i, m := range ranked {
		got[i] = m.Name
	}

	want := []string{"top", "aaa", "bbb", "reg"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestScoreAndRank_Empty(t *testing.T) {
	if got := ScoreAndRank(nil, nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestMatchedTool_Installable(t *testing.T) {
	reg := MatchedTool{ToolCandidate: ToolCandidate{Source: SourceRegistry}}
	if !reg.Installable() {
		t.Error("registry tool should be installable")
	}
	proj := MatchedTool{ToolCandidate: ToolCandidate{Source: SourceProject}}
	if proj.Installable() {
		t.Error("project tool should not be installable")
	}
}
