package entity

import (
	"time"

	"github.com/google/uuid"
)

// GraphEdge is an unordered relationship between two contexts, weighted by
// embedding similarity.
type GraphEdge struct {
	SourceContextId uuid.UUID
	TargetContextId uuid.UUID
	Weight          float64
}

// ContextGraph is the derived relationship graph of a project's contexts.
// Exactly one graph exists per (project, owner) pair and it is replaced
// wholesale on every rebuild.
type ContextGraph struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	UserId    uuid.UUID
	NodeIds   []uuid.UUID
	Edges     []GraphEdge
	CreatedAt time.Time
	UpdatedAt *time.Time
}
