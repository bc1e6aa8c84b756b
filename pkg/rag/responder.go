package rag

import (
	"context"
	"fmt"
	"strings"

	"velto-memory-be/pkg/ai"
	"velto-memory-be/pkg/ranking"
)

// BudgetPolicy controls what happens when the ranked contexts exceed the
// token budget.
type BudgetPolicy int

const (
	// DropWholeContext drops any context that does not fit entirely.
	DropWholeContext BudgetPolicy = iota
	// TruncateLastContext cuts the last context mid-body to fill the budget.
	TruncateLastContext
)

// charsPerToken is the rough character-to-token ratio used for budgeting.
const charsPerToken = 4

type Responder struct {
	provider ai.Provider
	policy   BudgetPolicy
}

func NewResponder(provider ai.Provider, policy BudgetPolicy) *Responder {
	return &Responder{
		provider: provider,
		policy:   policy,
	}
}

// Answer produces a grounded answer for the query from the ranked contexts,
// fitting as many as the token budget allows, and returns the contexts that
// actually grounded it, in citation order. An empty result set yields a fixed
// fallback answer without calling the model.
func (r *Responder) Answer(ctx context.Context, query string, results []ranking.Result, maxTokens int) (string, []ranking.Result, error) {
	fitted := r.fitBudget(results, maxTokens)
	if len(fitted) == 0 {
		return "I could not find any stored context relevant to your question.", nil, nil
	}

	prompt := r.buildPrompt(query, fitted)

	answer, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("generate grounded answer: %w", err)
	}
	return strings.TrimSpace(answer), fitted, nil
}

// fitBudget selects a prefix of the ranked results whose combined content
// stays within maxTokens. Rank order is preserved, so the best matches are
// kept first.
func (r *Responder) fitBudget(results []ranking.Result, maxTokens int) []ranking.Result {
	if maxTokens <= 0 {
		return results
	}
	budget := maxTokens * charsPerToken

	fitted := make([]ranking.Result, 0, len(results))
	used := 0
	for _, res := range results {
		cost := len(res.Context.Title) + len(res.Context.Content)
		if used+cost > budget {
			if r.policy == TruncateLastContext && budget-used > len(res.Context.Title) {
				remaining := budget - used - len(res.Context.Title)
				truncated := *res.Context
				truncated.Content = truncated.Content[:remaining]
				fitted = append(fitted, ranking.Result{Context: &truncated, Relevance: res.Relevance})
			}
			break
		}
		used += cost
		fitted = append(fitted, res)
	}
	return fitted
}

func (r *Responder) buildPrompt(query string, results []ranking.Result) string {
	var prompt strings.Builder

	prompt.WriteString("<reference_material>\n")
	for i, res := range results {
		fmt.Fprintf(&prompt, "[%d] %s\n%s\n\n", i+1, res.Context.Title, res.Context.Content)
	}
	prompt.WriteString("</reference_material>\n\n")

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a memory assistant answering from the user's stored contexts.\n")
	prompt.WriteString("Answer the question using only the reference material above.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material provided\n")
	prompt.WriteString("2. Cite sources inline with their bracketed number, e.g. [1]\n")
	prompt.WriteString("3. If the material doesn't contain what's being asked, say so honestly\n")
	prompt.WriteString("4. Be concise and well-organized\n")
	prompt.WriteString("</guidelines>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your complete response based on the reference material:")

	return prompt.String()
}
