package contract

import (
	"context"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ContextRepository interface {
	Create(ctx context.Context, c *entity.Context) error
	Update(ctx context.Context, c *entity.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Context, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Context, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
