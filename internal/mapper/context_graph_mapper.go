package mapper

import (
	"encoding/json"
	"time"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/model"

	"github.com/google/uuid"
)

type ContextGraphMapper struct{}

func NewContextGraphMapper() *ContextGraphMapper {
	return &ContextGraphMapper{}
}

func (m *ContextGraphMapper) ToEntity(g *model.ContextGraph, edges []*model.ContextGraphEdge) *entity.ContextGraph {
	if g == nil {
		return nil
	}

	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}

	var nodeIds []uuid.UUID
	if len(g.NodeIds) > 0 {
		_ = json.Unmarshal(g.NodeIds, &nodeIds)
	}

	graphEdges := make([]entity.GraphEdge, len(edges))
	for i, e := range edges {
		graphEdges[i] = entity.GraphEdge{
			SourceContextId: e.SourceContextId,
			TargetContextId: e.TargetContextId,
			Weight:          e.Weight,
		}
	}

	return &entity.ContextGraph{
		Id:        g.Id,
		ProjectId: g.ProjectId,
		UserId:    g.UserId,
		NodeIds:   nodeIds,
		Edges:     graphEdges,
		CreatedAt: g.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ContextGraphMapper) ToModel(g *entity.ContextGraph) (*model.ContextGraph, []*model.ContextGraphEdge) {
	if g == nil {
		return nil, nil
	}

	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}

	graph := &model.ContextGraph{
		Id:        g.Id,
		ProjectId: g.ProjectId,
		UserId:    g.UserId,
		NodeIds:   toJSON(g.NodeIds, "[]"),
		CreatedAt: g.CreatedAt,
		UpdatedAt: updatedAt,
	}

	edges := make([]*model.ContextGraphEdge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = &model.ContextGraphEdge{
			Id:              uuid.New(),
			GraphId:         g.Id,
			SourceContextId: e.SourceContextId,
			TargetContextId: e.TargetContextId,
			Weight:          e.Weight,
		}
	}

	return graph, edges
}
