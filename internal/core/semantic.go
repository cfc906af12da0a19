package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// semanticModel is the model used for relevance scoring. Matching is a
	// cheap classification task; no need for a frontier model.
	semanticModel = "claude-3-5-haiku-latest"

	// semanticPlanLimit caps how much plan text is sent to the API.
	semanticPlanLimit = 3000

	semanticMaxTokens = 4096
)

// SemanticMatcher scores registry entries against plan content using the
// Anthropic API. It implements RelevanceOracle and is entirely optional:
// construction fails without an API key, and callers treat a nil oracle as
// "no external scores".
type SemanticMatcher struct {
	client anthropic.Client
	model  string
}

// NewSemanticMatcher creates a matcher from the ANTHROPIC_API_KEY
// environment variable. Returns an error when the key is absent; discovery
// then simply runs without semantic scoring.
func NewSemanticMatcher() (*SemanticMatcher, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	return &SemanticMatcher{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  semanticModel,
	}, nil
}

// semanticMatch is one scored entry in the model's JSON response.
type semanticMatch struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Score returns a name→relevance map for the given entries. Entries the
// model omits are left unscored. Any API or parse failure is returned as an
// error; callers degrade to unscored entries.
func (m *SemanticMatcher) Score(ctx context.Context, planText string, entries []RegistryEntry) (map[string]float64, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	prompt := m.buildPrompt(planText, entries)

	response, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: semanticMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var responseText string
	for _, block := range response.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	matches, err := parseSemanticResponse(responseText)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(matches))
	for _, match := range matches {
		if match.Score >= 0 && match.Score <= 1 {
			scores[match.Name] = match.Score
		}
	}
	return scores, nil
}

func (m *SemanticMatcher) buildPrompt(planText string, entries []RegistryEntry) string {
	if len(planText) > semanticPlanLimit {
		planText = planText[:semanticPlanLimit]
	}

	var list strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&list, "%d. %s", i+1, e.Name)
		if e.Description != "" {
			fmt.Fprintf(&list, ": %s", e.Description)
		}
		list.WriteString("\n")
	}

	return fmt.Sprintf(`You are a tool matching assistant. Given a project plan and a list of available tool packages, score how useful each package would be for executing the plan.

Project Plan:
%s

Available Packages:
%s
Score each package from 0 (not relevant) to 1 (highly relevant). Respond with ONLY a raw JSON array, no markdown fences:
[{"name": "package-name", "score": 0.8}]`, planText, list.String())
}

// parseSemanticResponse decodes the model's JSON array, tolerating markdown
// code fences around it.
func parseSemanticResponse(text string) ([]semanticMatch, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var matches []semanticMatch
	if err := json.Unmarshal([]byte(text), &matches); err != nil {
		return nil, fmt.Errorf("parsing relevance response: %w", err)
	}
	return matches, nil
}
