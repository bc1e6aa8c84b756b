package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/repository/specification"
	"velto-memory-be/internal/repository/unitofwork"
	"velto-memory-be/pkg/ranking"

	"github.com/google/uuid"
)

// DefaultThreshold is the minimum cosine similarity for a relationship edge.
const DefaultThreshold = 0.7

// Builder recomputes the relationship graph of a (project, owner) scope.
// Rebuilds of the same scope are serialized with a per-scope lock, so
// concurrent triggers cannot interleave their delete+insert pairs.
type Builder struct {
	repositoryFactory unitofwork.RepositoryFactory
	threshold         float64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBuilder(repositoryFactory unitofwork.RepositoryFactory, threshold float64) *Builder {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Builder{
		repositoryFactory: repositoryFactory,
		threshold:         threshold,
		locks:             make(map[string]*sync.Mutex),
	}
}

func (b *Builder) scopeLock(projectId, userId uuid.UUID) *sync.Mutex {
	key := projectId.String() + "|" + userId.String()
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[key] = lock
	}
	return lock
}

// Rebuild replaces the stored graph for (project, owner) wholesale. Nodes are
// the scope's non-archived contexts, edges the embedded pairs whose cosine
// similarity exceeds the threshold.
func (b *Builder) Rebuild(ctx context.Context, projectId, userId uuid.UUID) error {
	lock := b.scopeLock(projectId, userId)
	lock.Lock()
	defer lock.Unlock()

	uow := b.repositoryFactory.NewUnitOfWork(ctx)

	contexts, err := uow.ContextRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.ByProjectID{ProjectID: projectId},
		specification.NotArchived{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return fmt.Errorf("fetch contexts for graph: %w", err)
	}

	graph := b.compute(projectId, userId, contexts)

	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin graph transaction: %w", err)
	}

	if err := uow.ContextGraphRepository().DeleteByScope(ctx, projectId, userId); err != nil {
		_ = uow.Rollback()
		return fmt.Errorf("delete previous graph: %w", err)
	}

	if err := uow.ContextGraphRepository().Create(ctx, graph); err != nil {
		_ = uow.Rollback()
		return fmt.Errorf("persist graph: %w", err)
	}

	return uow.Commit()
}

// compute derives nodes and edges in memory. Iteration follows the fetch
// order, so the same inputs always produce the same edge list.
func (b *Builder) compute(projectId, userId uuid.UUID, contexts []*entity.Context) *entity.ContextGraph {
	nodeIds := make([]uuid.UUID, 0, len(contexts))
	for _, c := range contexts {
		nodeIds = append(nodeIds, c.Id)
	}

	var edges []entity.GraphEdge
	for i := 0; i < len(contexts); i++ {
		if !contexts[i].HasEmbedding() {
			continue
		}
		for j := i + 1; j < len(contexts); j++ {
			if !contexts[j].HasEmbedding() {
				continue
			}
			weight := ranking.CosineSimilarity(contexts[i].Embedding, contexts[j].Embedding)
			if weight > b.threshold {
				edges = append(edges, entity.GraphEdge{
					SourceContextId: contexts[i].Id,
					TargetContextId: contexts[j].Id,
					Weight:          weight,
				})
			}
		}
	}

	now := time.Now()
	return &entity.ContextGraph{
		Id:        uuid.New(),
		ProjectId: projectId,
		UserId:    userId,
		NodeIds:   nodeIds,
		Edges:     edges,
		CreatedAt: now,
		UpdatedAt: &now,
	}
}
