package contract

import (
	"context"

	"velto-memory-be/internal/entity"

	"github.com/google/uuid"
)

type ContextGraphRepository interface {
	// FindByScope returns the graph for (project, owner) with its edges, or
	// nil when none has been built yet.
	FindByScope(ctx context.Context, projectId, userId uuid.UUID) (*entity.ContextGraph, error)

	// Create persists a graph and its edge rows.
	Create(ctx context.Context, g *entity.ContextGraph) error

	// DeleteByScope removes the stored graph and edges for (project, owner).
	// Used together with Create inside a transaction for wholesale
	// replacement.
	DeleteByScope(ctx context.Context, projectId, userId uuid.UUID) error
}
