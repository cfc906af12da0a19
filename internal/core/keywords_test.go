package core

import "testing"

func TestExtractKeywords(t *testing.T) {
	text := "## Plan: Add REST API endpoints for user authentication"

	tokens := ExtractKeywords(text)

	for _, want := range []string{"add", "rest", "api", "endpoints", "user", "authentication"} {
		if !tokens[want] {
			t.Errorf("expected token %q", want)
		}
	}
	if tokens["plan"] {
		t.Error("stopword 'plan' should be filtered")
	}
	if tokens["##"] {
		t.Error("markdown punctuation should be stripped")
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	if got := ExtractKeywords(""); len(got) != 0 {
		t.Errorf("expected empty set, got %v", got)
	}
	if got := ExtractKeywords("## ** -- !!"); len(got) != 0 {
		t.Errorf("expected empty set for punctuation-only input, got %v", got)
	}
}

func TestExtractKeywords_ShortAndStopwords(t *testing.T) {
	tokens := ExtractKeywords("go to the db and fix it")

	if tokens["go"] || tokens["to"] || tokens["db"] || tokens["it"] {
		t.Errorf("short tokens should be dropped: %v", tokens)
	}
	if tokens["the"] || tokens["and"] {
		t.Errorf("stopwords should be dropped: %v", tokens)
	}
	if !tokens["fix"] {
		t.Error("expected token 'fix'")
	}
}

func TestExtractKeywords_Dedup(t *testing.T) {
	tokens := ExtractKeywords("database Database DATABASE")
	if len(tokens) != 1 || !tokens["database"] {
		t.Errorf("expected single lower-cased token, got %v", tokens)
	}
}

func TestOverlap(t *testing.T) {
	keywords := map[string]bool{"database": true, "migration": true, "schema": true}
	plan := map[string]bool{"database": true, "schema": true, "testing": true}

	if got := overlap(keywords, plan); got != 2 {
		t.Errorf("overlap = %d, want 2", got)
	}
	if got := overlap(nil, plan); got != 0 {
		t.Errorf("overlap(nil) = %d, want 0", got)
	}
}
