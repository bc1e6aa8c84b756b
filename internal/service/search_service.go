package service

import (
	"context"
	"strings"
	"time"

	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/dto"
	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/repository/specification"
	"velto-memory-be/internal/repository/unitofwork"
	"velto-memory-be/pkg/ai"
	"velto-memory-be/pkg/ranking"
	"velto-memory-be/pkg/rag"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type ISearchService interface {
	Search(ctx context.Context, userId uuid.UUID, req *dto.SearchRequest) (*dto.SearchResponse, error)
	Suggestions(ctx context.Context, userId uuid.UUID, query string, limit int) (*dto.SuggestionsResponse, error)
}

const (
	defaultSearchLimit      = 10
	defaultSuggestionsLimit = 10
	embeddingCacheTTL       = 5 * time.Minute
)

type searchService struct {
	uowFactory     unitofwork.RepositoryFactory
	provider       ai.Provider
	responder      *rag.Responder
	embeddingCache *gocache.Cache
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	provider ai.Provider,
	responder *rag.Responder,
) ISearchService {
	return &searchService{
		uowFactory:     uowFactory,
		provider:       provider,
		responder:      responder,
		embeddingCache: gocache.New(embeddingCacheTTL, 10*time.Minute),
	}
}

func (s *searchService) Search(ctx context.Context, userId uuid.UUID, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	mode := req.Mode
	if mode == "" {
		mode = "semantic"
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	maxTokens := entity.DefaultProjectSettings().MaxTokens
	if req.ProjectId != nil {
		project, err := uow.ProjectRepository().FindOne(ctx,
			specification.ByID{ID: *req.ProjectId},
			specification.MemberOf{UserID: userId},
		)
		if err != nil {
			return nil, apperror.Internal("fetch project", err)
		}
		if project == nil {
			return nil, apperror.NotFound("project")
		}
		maxTokens = project.Settings.MaxTokens
	}

	candidates, err := s.fetchCandidates(ctx, uow, userId, req)
	if err != nil {
		return nil, err
	}

	var ranked []ranking.Result
	var ragResponse *string

	switch mode {
	case "text":
		ranked = ranking.TextRank(req.Query, candidates)
	case "semantic", "hybrid", "rag":
		queryEmbedding, err := s.queryEmbedding(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		if mode == "hybrid" {
			ranked = ranking.HybridRank(req.Query, queryEmbedding, candidates, limit)
		} else {
			ranked = ranking.SemanticRank(queryEmbedding, candidates, limit)
		}
		if mode == "rag" {
			// The grounded subset is computed by the responder; the response
			// keeps the full ranked list so citations stay resolvable.
			answer, _, err := s.responder.Answer(ctx, req.Query, ranked, maxTokens)
			if err != nil {
				return nil, apperror.Provider("generate rag answer", err)
			}
			ragResponse = &answer
		}
	default:
		return nil, apperror.Validation("request validation failed", map[string]string{
			"search_type": "must be one of: text semantic hybrid rag",
		})
	}

	// Pagination slices the ranked list; total counts the whole list, not
	// the raw candidate set.
	page := ranking.Paginate(ranked, req.Offset, limit)

	data := make([]*dto.SearchResultItem, 0, len(page))
	for _, result := range page {
		data = append(data, &dto.SearchResultItem{
			Id:        result.Context.Id,
			Title:     result.Context.Title,
			Content:   result.Context.Content,
			Type:      string(result.Context.Type),
			Tags:      result.Context.Tags,
			ProjectId: result.Context.ProjectId,
			Relevance: result.Relevance,
			CreatedAt: result.Context.CreatedAt,
			UpdatedAt: result.Context.UpdatedAt,
		})
	}

	return &dto.SearchResponse{
		Data:        data,
		RagResponse: ragResponse,
		Pagination: dto.Pagination{
			Page:  req.Offset/limit + 1,
			Limit: limit,
			Total: int64(len(ranked)),
		},
	}, nil
}

func (s *searchService) Suggestions(ctx context.Context, userId uuid.UUID, query string, limit int) (*dto.SuggestionsResponse, error) {
	if limit <= 0 {
		limit = defaultSuggestionsLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	contexts, err := uow.ContextRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.NotArchived{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Internal("fetch contexts", err)
	}

	needle := strings.ToLower(query)
	seen := map[string]struct{}{needle: {}}
	// The query itself always leads the list.
	suggestions := append(make([]string, 0, limit), query)

	add := func(candidate string) {
		if len(suggestions) >= limit {
			return
		}
		key := strings.ToLower(candidate)
		if _, ok := seen[key]; ok {
			return
		}
		if !strings.Contains(key, needle) {
			return
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, candidate)
	}

	for _, c := range contexts {
		add(c.Title)
		for _, tag := range c.Tags {
			add(tag)
		}
	}

	return &dto.SuggestionsResponse{
		Suggestions: suggestions,
		Query:       query,
	}, nil
}

// fetchCandidates loads the full filtered set, creation-time descending. The
// ranking modes see every candidate; truncation happens after scoring.
func (s *searchService) fetchCandidates(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req *dto.SearchRequest) ([]*entity.Context, error) {
	specs := []specification.Specification{
		specification.OwnedBy{UserID: userId},
		specification.NotArchived{},
	}
	if req.ProjectId != nil {
		specs = append(specs, specification.ByProjectID{ProjectID: *req.ProjectId})
	}
	if req.Filters != nil {
		if len(req.Filters.Types) > 0 {
			specs = append(specs, specification.ByContextTypes{Types: req.Filters.Types})
		}
		if len(req.Filters.Tags) > 0 {
			specs = append(specs, specification.TagsAnyOf{Tags: req.Filters.Tags})
		}
		if req.Filters.Start != nil || req.Filters.End != nil {
			specs = append(specs, specification.CreatedBetween{After: req.Filters.Start, Before: req.Filters.End})
		}
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	candidates, err := uow.ContextRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal("fetch search candidates", err)
	}
	return candidates, nil
}

// queryEmbedding memoizes provider embeddings for repeated queries.
func (s *searchService) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if cached, ok := s.embeddingCache.Get(query); ok {
		return cached.([]float32), nil
	}

	embedding, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, apperror.Provider("embed query", err)
	}

	s.embeddingCache.Set(query, embedding, gocache.DefaultExpiration)
	return embedding, nil
}
