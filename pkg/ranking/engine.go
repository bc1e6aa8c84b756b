package ranking

import (
	"sort"
	"strings"

	"velto-memory-be/internal/entity"
)

// TextMatchScore is the fixed relevance assigned to literal substring matches.
const TextMatchScore = 0.8

// Result pairs a context with its relevance score for one query.
type Result struct {
	Context   *entity.Context
	Relevance float64
}

// TextRank keeps candidates whose title or content contains the query,
// case-insensitive. Input order is preserved.
func TextRank(query string, candidates []*entity.Context) []Result {
	needle := strings.ToLower(query)
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Title), needle) ||
			strings.Contains(strings.ToLower(c.Content), needle) {
			results = append(results, Result{Context: c, Relevance: TextMatchScore})
		}
	}
	return results
}

// SemanticRank scores every embedded candidate against the query embedding
// and returns the top limit, best first. Candidates without an embedding are
// skipped. The sort is stable, so equal scores keep input order.
func SemanticRank(queryEmbedding []float32, candidates []*entity.Context, limit int) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasEmbedding() {
			continue
		}
		results = append(results, Result{
			Context:   c,
			Relevance: CosineSimilarity(queryEmbedding, c.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// HybridRank unions literal matches with the semantic top ceil(limit/2).
// Duplicates are removed keeping the first occurrence, so a context found by
// both branches keeps the text-branch score.
func HybridRank(query string, queryEmbedding []float32, candidates []*entity.Context, limit int) []Result {
	textResults := TextRank(query, candidates)

	semanticLimit := (limit + 1) / 2
	semanticResults := SemanticRank(queryEmbedding, candidates, semanticLimit)

	seen := make(map[string]struct{}, len(textResults)+len(semanticResults))
	merged := make([]Result, 0, len(textResults)+len(semanticResults))
	for _, r := range append(textResults, semanticResults...) {
		key := r.Context.Id.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, r)
	}

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Paginate slices an already ranked list. Offsets past the end yield an
// empty page, never an error.
func Paginate(results []Result, offset, limit int) []Result {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []Result{}
	}
	end := offset + limit
	if limit <= 0 || end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
