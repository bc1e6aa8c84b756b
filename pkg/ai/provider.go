package ai

import (
	"context"
	"encoding/json"
	"strings"
)

// Analysis is the model's structured read of a piece of content.
type Analysis struct {
	Summary    string   `json:"summary"`
	Topics     []string `json:"topics"`
	Sentiment  string   `json:"sentiment"`
	Complexity int      `json:"complexity"`
}

// Provider defines the contract for any AI backend used by the engine.
type Provider interface {
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Generate sends a single prompt to the model and returns the response.
	Generate(ctx context.Context, prompt string) (string, error)

	// Analyze produces a summary, topics, sentiment and complexity score
	// for the given content.
	Analyze(ctx context.Context, title, content string) (*Analysis, error)
}

const analysisPromptTemplate = `Analyze the following content and respond with a JSON object only, no prose.
The object must have these fields:
  "summary": one or two sentences summarizing the content,
  "topics": an array of up to 5 topic strings,
  "sentiment": one of "positive", "neutral", "negative",
  "complexity": an integer from 1 (trivial) to 10 (expert).

Title: %s

Content:
%s`

// parseAnalysis decodes a model response into an Analysis. Models often wrap
// JSON in markdown fences, so those are stripped first.
func parseAnalysis(raw string) (*Analysis, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Some models prepend text before the object. Cut to the first brace.
	if idx := strings.Index(cleaned, "{"); idx > 0 {
		cleaned = cleaned[idx:]
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, err
	}
	if analysis.Complexity < 1 {
		analysis.Complexity = 1
	}
	if analysis.Complexity > 10 {
		analysis.Complexity = 10
	}
	return &analysis, nil
}
