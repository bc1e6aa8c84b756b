package graph

import (
	"context"
	"testing"
	"time"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/repository/contract"
	"velto-memory-be/internal/repository/specification"
	"velto-memory-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeContextRepo struct {
	contexts []*entity.Context
}

func (f *fakeContextRepo) Create(ctx context.Context, c *entity.Context) error { return nil }
func (f *fakeContextRepo) Update(ctx context.Context, c *entity.Context) error { return nil }
func (f *fakeContextRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (f *fakeContextRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Context, error) {
	return nil, nil
}
func (f *fakeContextRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Context, error) {
	return f.contexts, nil
}
func (f *fakeContextRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.contexts)), nil
}

type fakeGraphRepo struct {
	deletes int
	graphs  []*entity.ContextGraph
}

func (f *fakeGraphRepo) FindByScope(ctx context.Context, projectId, userId uuid.UUID) (*entity.ContextGraph, error) {
	if len(f.graphs) == 0 {
		return nil, nil
	}
	return f.graphs[len(f.graphs)-1], nil
}
func (f *fakeGraphRepo) Create(ctx context.Context, g *entity.ContextGraph) error {
	f.graphs = append(f.graphs, g)
	return nil
}
func (f *fakeGraphRepo) DeleteByScope(ctx context.Context, projectId, userId uuid.UUID) error {
	f.deletes++
	return nil
}

type fakeUow struct {
	contextRepo *fakeContextRepo
	graphRepo   *fakeGraphRepo
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }
func (f *fakeUow) ContextRepository() contract.ContextRepository {
	return f.contextRepo
}
func (f *fakeUow) ProjectRepository() contract.ProjectRepository { return nil }
func (f *fakeUow) ContextGraphRepository() contract.ContextGraphRepository {
	return f.graphRepo
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func embeddedContext(embedding []float32) *entity.Context {
	return &entity.Context{
		Id:        uuid.New(),
		Title:     "ctx",
		Content:   "body",
		Type:      entity.TypeNote,
		Embedding: embedding,
		CreatedAt: time.Now(),
	}
}

func TestRebuildCreatesEdgesAboveThreshold(t *testing.T) {
	milk := embeddedContext([]float32{0.95, 0.05, 0})
	grocery := embeddedContext([]float32{0.9, 0.1, 0})
	unrelated := embeddedContext([]float32{0, 0, 1})
	noVector := embeddedContext(nil)

	uow := &fakeUow{
		contextRepo: &fakeContextRepo{contexts: []*entity.Context{milk, grocery, unrelated, noVector}},
		graphRepo:   &fakeGraphRepo{},
	}
	builder := NewBuilder(&fakeFactory{uow: uow}, 0.7)

	projectId, userId := uuid.New(), uuid.New()
	err := builder.Rebuild(context.Background(), projectId, userId)
	assert.NoError(t, err)

	assert.Equal(t, 1, uow.graphRepo.deletes, "previous graph is replaced wholesale")
	assert.Len(t, uow.graphRepo.graphs, 1)

	graph := uow.graphRepo.graphs[0]
	assert.Equal(t, projectId, graph.ProjectId)
	assert.Equal(t, userId, graph.UserId)
	assert.Len(t, graph.NodeIds, 4, "every context is a node, embedded or not")

	assert.Len(t, graph.Edges, 1, "only the similar pair crosses the threshold")
	edge := graph.Edges[0]
	assert.Equal(t, milk.Id, edge.SourceContextId)
	assert.Equal(t, grocery.Id, edge.TargetContextId)
	assert.Greater(t, edge.Weight, 0.7)
}

func TestRebuildDeterminism(t *testing.T) {
	a := embeddedContext([]float32{1, 0})
	b := embeddedContext([]float32{0.9, 0.1})
	c := embeddedContext([]float32{0.8, 0.2})

	uow := &fakeUow{
		contextRepo: &fakeContextRepo{contexts: []*entity.Context{a, b, c}},
		graphRepo:   &fakeGraphRepo{},
	}
	builder := NewBuilder(&fakeFactory{uow: uow}, 0.7)

	projectId, userId := uuid.New(), uuid.New()
	assert.NoError(t, builder.Rebuild(context.Background(), projectId, userId))
	assert.NoError(t, builder.Rebuild(context.Background(), projectId, userId))

	assert.Len(t, uow.graphRepo.graphs, 2)
	first, second := uow.graphRepo.graphs[0], uow.graphRepo.graphs[1]

	assert.Equal(t, first.NodeIds, second.NodeIds)
	assert.Len(t, second.Edges, len(first.Edges))
	for i := range first.Edges {
		assert.Equal(t, first.Edges[i].SourceContextId, second.Edges[i].SourceContextId)
		assert.Equal(t, first.Edges[i].TargetContextId, second.Edges[i].TargetContextId)
		assert.Equal(t, first.Edges[i].Weight, second.Edges[i].Weight)
	}
}

func TestRebuildEmptyProject(t *testing.T) {
	uow := &fakeUow{
		contextRepo: &fakeContextRepo{},
		graphRepo:   &fakeGraphRepo{},
	}
	builder := NewBuilder(&fakeFactory{uow: uow}, 0.7)

	err := builder.Rebuild(context.Background(), uuid.New(), uuid.New())

	assert.NoError(t, err)
	assert.Len(t, uow.graphRepo.graphs, 1)
	assert.Empty(t, uow.graphRepo.graphs[0].NodeIds)
	assert.Empty(t, uow.graphRepo.graphs[0].Edges)
}
