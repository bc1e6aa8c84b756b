package implementation

import (
	"context"
	"errors"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/mapper"
	"velto-memory-be/internal/model"
	"velto-memory-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContextGraphRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContextGraphMapper
}

func NewContextGraphRepository(db *gorm.DB) contract.ContextGraphRepository {
	return &ContextGraphRepositoryImpl{
		db:     db,
		mapper: mapper.NewContextGraphMapper(),
	}
}

func (r *ContextGraphRepositoryImpl) FindByScope(ctx context.Context, projectId, userId uuid.UUID) (*entity.ContextGraph, error) {
	var g model.ContextGraph
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectId, userId).
		First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var edges []*model.ContextGraphEdge
	if err := r.db.WithContext(ctx).Where("graph_id = ?", g.Id).Find(&edges).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntity(&g, edges), nil
}

func (r *ContextGraphRepositoryImpl) Create(ctx context.Context, g *entity.ContextGraph) error {
	graphModel, edgeModels := r.mapper.ToModel(g)
	if err := r.db.WithContext(ctx).Create(graphModel).Error; err != nil {
		return err
	}
	if len(edgeModels) > 0 {
		for _, e := range edgeModels {
			e.GraphId = graphModel.Id
		}
		if err := r.db.WithContext(ctx).Create(edgeModels).Error; err != nil {
			return err
		}
	}
	*g = *r.mapper.ToEntity(graphModel, edgeModels)
	return nil
}

func (r *ContextGraphRepositoryImpl) DeleteByScope(ctx context.Context, projectId, userId uuid.UUID) error {
	subQuery := r.db.Table("context_graphs").Select("id").
		Where("project_id = ? AND user_id = ?", projectId, userId)
	if err := r.db.WithContext(ctx).
		Where("graph_id IN (?)", subQuery).
		Delete(&model.ContextGraphEdge{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectId, userId).
		Delete(&model.ContextGraph{}).Error
}
