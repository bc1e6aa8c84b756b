package unitofwork

import (
	"context"

	"velto-memory-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ContextRepository() contract.ContextRepository
	ProjectRepository() contract.ProjectRepository
	ContextGraphRepository() contract.ContextGraphRepository
}
