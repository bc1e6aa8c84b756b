package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/dto"
	"velto-memory-be/internal/entity"
	"velto-memory-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newSearchServiceUnderTest(provider *stubProvider) (ISearchService, *memUow) {
	uow := newMemUow()
	responder := rag.NewResponder(provider, rag.DropWholeContext)
	svc := NewSearchService(&memFactory{uow: uow}, provider, responder)
	return svc, uow
}

func seedContext(uow *memUow, userId uuid.UUID, title, content string, provider *stubProvider, createdAt time.Time) *entity.Context {
	embedding, _ := provider.Embed(context.Background(), title+"\n\n"+content)
	c := &entity.Context{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		Content:   content,
		Type:      entity.TypeNote,
		Embedding: embedding,
		CreatedAt: createdAt,
	}
	_ = uow.contexts.Create(context.Background(), c)
	return c
}

func TestSearchSemantic(t *testing.T) {
	provider := &stubProvider{}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()
	now := time.Now()

	milk := seedContext(uow, userId, "Buy milk", "remember the milk", provider, now.Add(-time.Hour))
	grocery := seedContext(uow, userId, "Grocery list", "grocery milk eggs", provider, now.Add(-2*time.Hour))
	seedContext(uow, userId, "Standup notes", "discussed roadmap", provider, now)

	res, err := svc.Search(context.Background(), userId, &dto.SearchRequest{
		Query: "milk",
		Mode:  "semantic",
		Limit: 2,
	})

	assert.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, milk.Id, res.Data[0].Id, "closest match ranks first")
	assert.Equal(t, grocery.Id, res.Data[1].Id)
	assert.GreaterOrEqual(t, res.Data[0].Relevance, res.Data[1].Relevance)
	assert.Nil(t, res.RagResponse)
	assert.Equal(t, int64(2), res.Pagination.Total)
}

func TestSearchText(t *testing.T) {
	provider := &stubProvider{}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()
	now := time.Now()

	newest := seedContext(uow, userId, "Milk run", "buy two", provider, now)
	older := seedContext(uow, userId, "Groceries", "milk and eggs", provider, now.Add(-time.Hour))
	seedContext(uow, userId, "Unrelated", "roadmap", provider, now.Add(-2*time.Hour))

	res, err := svc.Search(context.Background(), userId, &dto.SearchRequest{
		Query: "milk",
		Mode:  "text",
	})

	assert.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, newest.Id, res.Data[0].Id, "text matches keep creation-descending order")
	assert.Equal(t, older.Id, res.Data[1].Id)
	for _, item := range res.Data {
		assert.Equal(t, 0.8, item.Relevance)
	}
	assert.Equal(t, 0, provider.embedCalls, "text mode never touches the provider")
}

func TestSearchHybridDedup(t *testing.T) {
	provider := &stubProvider{}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()
	now := time.Now()

	both := seedContext(uow, userId, "Buy milk", "remember the milk", provider, now)
	seedContext(uow, userId, "Groceries", "grocery eggs", provider, now.Add(-time.Hour))

	res, err := svc.Search(context.Background(), userId, &dto.SearchRequest{
		Query: "milk",
		Mode:  "hybrid",
		Limit: 4,
	})

	assert.NoError(t, err)

	occurrences := 0
	for _, item := range res.Data {
		if item.Id == both.Id {
			occurrences++
			assert.Equal(t, 0.8, item.Relevance, "text-branch score wins for duplicates")
		}
	}
	assert.Equal(t, 1, occurrences)
}

func TestSearchRag(t *testing.T) {
	provider := &stubProvider{generateAnswer: "You still need milk [1]."}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()

	seedContext(uow, userId, "Buy milk", "remember the milk", provider, time.Now())

	res, err := svc.Search(context.Background(), userId, &dto.SearchRequest{
		Query: "milk",
		Mode:  "rag",
	})

	assert.NoError(t, err)
	assert.NotNil(t, res.RagResponse)
	assert.Equal(t, "You still need milk [1].", *res.RagResponse)
	assert.NotEmpty(t, res.Data, "ranked contexts accompany the grounded answer")
}

func TestSearchPaginationConsistency(t *testing.T) {
	provider := &stubProvider{}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()
	now := time.Now()

	for i := 0; i < 5; i++ {
		seedContext(uow, userId, "milk note", "milk", provider, now.Add(-time.Duration(i)*time.Minute))
	}

	limit := 2
	var collected []uuid.UUID
	var total int64
	for offset := 0; ; offset += limit {
		res, err := svc.Search(context.Background(), userId, &dto.SearchRequest{
			Query:  "milk",
			Mode:   "text",
			Limit:  limit,
			Offset: offset,
		})
		assert.NoError(t, err)
		total = res.Pagination.Total

		expected := int(total) - offset
		if expected > limit {
			expected = limit
		}
		if expected < 0 {
			expected = 0
		}
		assert.Len(t, res.Data, expected, "result length is min(limit, total-offset)")

		for _, item := range res.Data {
			collected = append(collected, item.Id)
		}
		if len(res.Data) < limit {
			break
		}
	}

	assert.Equal(t, int64(5), total)
	assert.Len(t, collected, 5)
	seen := make(map[uuid.UUID]bool)
	for _, id := range collected {
		assert.False(t, seen[id], "no duplicates across pages")
		seen[id] = true
	}
}

func TestSearchOwnershipScoping(t *testing.T) {
	provider := &stubProvider{}
	svc, uow := newSearchServiceUnderTest(provider)
	owner := uuid.New()
	stranger := uuid.New()

	seedContext(uow, owner, "Buy milk", "remember the milk", provider, time.Now())

	res, err := svc.Search(context.Background(), stranger, &dto.SearchRequest{
		Query: "milk",
		Mode:  "text",
	})

	assert.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, int64(0), res.Pagination.Total)
}

func TestSearchUnknownProject(t *testing.T) {
	provider := &stubProvider{}
	svc, _ := newSearchServiceUnderTest(provider)
	missing := uuid.New()

	_, err := svc.Search(context.Background(), uuid.New(), &dto.SearchRequest{
		Query:     "milk",
		Mode:      "text",
		ProjectId: &missing,
	})

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSearchProviderFailure(t *testing.T) {
	provider := &stubProvider{embedErr: errors.New("quota exceeded")}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()

	c := &entity.Context{
		Id: uuid.New(), UserId: userId, Title: "a", Content: "b",
		Type: entity.TypeNote, Embedding: []float32{1, 0, 0}, CreatedAt: time.Now(),
	}
	_ = uow.contexts.Create(context.Background(), c)

	_, err := svc.Search(context.Background(), userId, &dto.SearchRequest{
		Query: "milk",
		Mode:  "semantic",
	})

	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
}

func TestSearchEmbeddingCache(t *testing.T) {
	provider := &stubProvider{}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()

	seedContext(uow, userId, "Buy milk", "remember the milk", provider, time.Now())
	seedCalls := provider.embedCalls

	for i := 0; i < 3; i++ {
		_, err := svc.Search(context.Background(), userId, &dto.SearchRequest{
			Query: "milk",
			Mode:  "semantic",
		})
		assert.NoError(t, err)
	}

	assert.Equal(t, seedCalls+1, provider.embedCalls, "repeated queries reuse the cached embedding")
}

func TestSuggestions(t *testing.T) {
	provider := &stubProvider{}
	svc, uow := newSearchServiceUnderTest(provider)
	userId := uuid.New()
	now := time.Now()

	milk := seedContext(uow, userId, "Buy milk", "remember the milk", provider, now)
	milk.Tags = []string{"milk-run", "errands"}
	_ = uow.contexts.Update(context.Background(), milk)
	seedContext(uow, userId, "Roadmap", "planning", provider, now.Add(-time.Hour))

	res, err := svc.Suggestions(context.Background(), userId, "milk", 5)

	assert.NoError(t, err)
	assert.Equal(t, "milk", res.Query)
	assert.Equal(t, "milk", res.Suggestions[0], "query itself leads the list")
	assert.Contains(t, res.Suggestions, "Buy milk")
	assert.Contains(t, res.Suggestions, "milk-run")
	assert.NotContains(t, res.Suggestions, "Roadmap")
}
