package implementation

import (
	"context"
	"errors"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/mapper"
	"velto-memory-be/internal/model"
	"velto-memory-be/internal/repository/contract"
	"velto-memory-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContextRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContextMapper
}

func NewContextRepository(db *gorm.DB) contract.ContextRepository {
	return &ContextRepositoryImpl{
		db:     db,
		mapper: mapper.NewContextMapper(),
	}
}

func (r *ContextRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContextRepositoryImpl) Create(ctx context.Context, c *entity.Context) error {
	m := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContextRepositoryImpl) Update(ctx context.Context, c *entity.Context) error {
	m := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContextRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Context{}, id).Error
}

func (r *ContextRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Context, error) {
	var m model.Context
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContextRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Context, error) {
	var models []*model.Context
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ContextRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Context{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
