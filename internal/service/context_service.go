package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/dto"
	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/pkg/logger"
	"velto-memory-be/internal/repository/specification"
	"velto-memory-be/internal/repository/unitofwork"
	"velto-memory-be/pkg/ai"
	"velto-memory-be/pkg/utils"

	"github.com/google/uuid"
)

type IContextService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateContextRequest) (*dto.CreateContextResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowContextResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateContextRequest) (*dto.UpdateContextResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, userId uuid.UUID, req *dto.ListContextsRequest) (*dto.ListContextsResponse, error)
}

// chunkOverlap is the rune overlap between consecutive content chunks.
const chunkOverlap = 100

var contextSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
}

type contextService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	provider         ai.Provider
	logger           logger.ILogger
}

func NewContextService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	provider ai.Provider,
	log logger.ILogger,
) IContextService {
	return &contextService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		provider:         provider,
		logger:           log,
	}
}

func (c *contextService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateContextRequest) (*dto.CreateContextResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if !entity.ValidContextType(entity.ContextType(req.Type)) {
		return nil, apperror.Validation("request validation failed", map[string]string{
			"type": "must be a valid context type",
		})
	}

	var project *entity.Project
	if req.ProjectId != nil {
		var err error
		project, err = c.requireProject(ctx, uow, userId, *req.ProjectId)
		if err != nil {
			return nil, err
		}
	}

	embedding, analysis, err := c.enrich(ctx, req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	source := entity.Source{Type: entity.SourceManual, Timestamp: time.Now()}
	if req.Source != nil {
		// Guarded here as well as at the boundary; the service is callable
		// without the HTTP layer.
		if !entity.ValidSourceType(entity.SourceType(req.Source.Type)) {
			return nil, apperror.Validation("request validation failed", map[string]string{
				"source.type": "must be a valid source type",
			})
		}
		source = entity.Source{
			Type:      entity.SourceType(req.Source.Type),
			AgentId:   req.Source.AgentId,
			SessionId: req.Source.SessionId,
			Timestamp: time.Now(),
		}
	}

	contextEntity := entity.Context{
		Id:        uuid.New(),
		UserId:    userId,
		ProjectId: req.ProjectId,
		Title:     req.Title,
		Content:   req.Content,
		Type:      entity.ContextType(req.Type),
		Tags:      req.Tags,
		Metadata:  req.Metadata,
		Source:    source,
		Embedding: embedding,
		Analysis:  analysis,
		CreatedAt: time.Now(),
	}

	// Content longer than the project chunk size is split into child
	// contexts so each piece stays within the embedding window.
	if project != nil && len([]rune(req.Content)) > project.Settings.ChunkSize {
		childIds, err := c.createChunks(ctx, uow, &contextEntity, project.Settings.ChunkSize)
		if err != nil {
			return nil, err
		}
		contextEntity.ChildContextIds = childIds
	}

	if err := uow.ContextRepository().Create(ctx, &contextEntity); err != nil {
		return nil, apperror.Internal("create context", err)
	}

	c.triggerGraphRebuild(ctx, contextEntity.ProjectId, userId)

	return &dto.CreateContextResponse{
		Id:        contextEntity.Id,
		Title:     contextEntity.Title,
		Content:   contextEntity.Content,
		Type:      string(contextEntity.Type),
		Tags:      contextEntity.Tags,
		ProjectId: contextEntity.ProjectId,
		Analysis:  contextEntity.Analysis,
		CreatedAt: contextEntity.CreatedAt,
	}, nil
}

func (c *contextService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowContextResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	contextEntity, err := uow.ContextRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("fetch context", err)
	}
	if contextEntity == nil {
		return nil, apperror.NotFound("context")
	}

	return &dto.ShowContextResponse{
		Id:        contextEntity.Id,
		Title:     contextEntity.Title,
		Content:   contextEntity.Content,
		Type:      string(contextEntity.Type),
		Tags:      contextEntity.Tags,
		ProjectId: contextEntity.ProjectId,
		Source: dto.SourceResponse{
			Type:      string(contextEntity.Source.Type),
			AgentId:   contextEntity.Source.AgentId,
			SessionId: contextEntity.Source.SessionId,
			Timestamp: contextEntity.Source.Timestamp,
		},
		Metadata:     contextEntity.Metadata,
		Analysis:     contextEntity.Analysis,
		HasEmbedding: contextEntity.HasEmbedding(),
		ChunkIndex:   contextEntity.ChunkIndex,
		ChildIds:     contextEntity.ChildContextIds,
		IsArchived:   contextEntity.IsArchived,
		CreatedAt:    contextEntity.CreatedAt,
		UpdatedAt:    contextEntity.UpdatedAt,
	}, nil
}

func (c *contextService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateContextRequest) (*dto.UpdateContextResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	contextEntity, err := uow.ContextRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("fetch context", err)
	}
	if contextEntity == nil {
		return nil, apperror.NotFound("context")
	}

	contentChanged := false
	if req.Title != nil && *req.Title != contextEntity.Title {
		contextEntity.Title = *req.Title
		contentChanged = true
	}
	if req.Content != nil && *req.Content != contextEntity.Content {
		contextEntity.Content = *req.Content
		contentChanged = true
	}
	if req.Type != nil {
		if !entity.ValidContextType(entity.ContextType(*req.Type)) {
			return nil, apperror.Validation("request validation failed", map[string]string{
				"type": "must be a valid context type",
			})
		}
		contextEntity.Type = entity.ContextType(*req.Type)
	}
	if req.Tags != nil {
		contextEntity.Tags = req.Tags
	}
	if req.Metadata != nil {
		contextEntity.Metadata = req.Metadata
	}
	if req.Source != nil {
		if !entity.ValidSourceType(entity.SourceType(req.Source.Type)) {
			return nil, apperror.Validation("request validation failed", map[string]string{
				"source.type": "must be a valid source type",
			})
		}
		contextEntity.Source = entity.Source{
			Type:      entity.SourceType(req.Source.Type),
			AgentId:   req.Source.AgentId,
			SessionId: req.Source.SessionId,
			Timestamp: contextEntity.Source.Timestamp,
		}
	}
	if req.Archived != nil {
		contextEntity.IsArchived = *req.Archived
	}
	if req.ProjectId != nil {
		if _, err := c.requireProject(ctx, uow, userId, *req.ProjectId); err != nil {
			return nil, err
		}
		contextEntity.ProjectId = req.ProjectId
	}

	// Re-derive the vector and analysis from the merged record, not the
	// request fragments, so an updated title alone still refreshes both.
	if contentChanged {
		embedding, analysis, err := c.enrich(ctx, contextEntity.Title, contextEntity.Content)
		if err != nil {
			return nil, err
		}
		contextEntity.Embedding = embedding
		contextEntity.Analysis = analysis
	}

	now := time.Now()
	contextEntity.UpdatedAt = &now

	if err := uow.ContextRepository().Update(ctx, contextEntity); err != nil {
		return nil, apperror.Internal("update context", err)
	}

	// The rebuild targets the resulting project, not the prior one.
	c.triggerGraphRebuild(ctx, contextEntity.ProjectId, userId)

	return &dto.UpdateContextResponse{Id: contextEntity.Id}, nil
}

func (c *contextService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	contextEntity, err := uow.ContextRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.Internal("fetch context", err)
	}
	if contextEntity == nil {
		return apperror.NotFound("context")
	}

	if err := uow.ContextRepository().Delete(ctx, id); err != nil {
		return apperror.Internal("delete context", err)
	}
	return nil
}

func (c *contextService) List(ctx context.Context, userId uuid.UUID, req *dto.ListContextsRequest) (*dto.ListContextsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OwnedBy{UserID: userId},
	}
	if req.ProjectId != nil {
		specs = append(specs, specification.ByProjectID{ProjectID: *req.ProjectId})
	}
	if req.Type != nil {
		// The type filter arrives as a raw query param, outside struct-tag
		// validation.
		if !entity.ValidContextType(entity.ContextType(*req.Type)) {
			return nil, apperror.Validation("request validation failed", map[string]string{
				"type": "must be a valid context type",
			})
		}
		specs = append(specs, specification.ByContextType{Type: *req.Type})
	}
	if len(req.Tags) > 0 {
		specs = append(specs, specification.TagsAnyOf{Tags: req.Tags})
	}
	if req.CreatedAfter != nil || req.CreatedBefore != nil {
		specs = append(specs, specification.CreatedBetween{After: req.CreatedAfter, Before: req.CreatedBefore})
	}

	total, err := uow.ContextRepository().Count(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal("count contexts", err)
	}

	sortBy := req.SortBy
	if !contextSortFields[sortBy] {
		sortBy = "created_at"
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	specs = append(specs,
		specification.OrderBy{Field: sortBy, Desc: req.SortDesc},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)

	contexts, err := uow.ContextRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal("list contexts", err)
	}

	data := make([]*dto.ContextSummaryResponse, 0, len(contexts))
	for _, ce := range contexts {
		data = append(data, &dto.ContextSummaryResponse{
			Id:        ce.Id,
			Title:     ce.Title,
			Content:   ce.Content,
			Type:      string(ce.Type),
			Tags:      ce.Tags,
			ProjectId: ce.ProjectId,
			Analysis:  ce.Analysis,
			Metadata:  ce.Metadata,
			CreatedAt: ce.CreatedAt,
			UpdatedAt: ce.UpdatedAt,
		})
	}

	return &dto.ListContextsResponse{
		Data: data,
		Pagination: dto.Pagination{
			Page:  req.Offset/limit + 1,
			Limit: limit,
			Total: total,
		},
	}, nil
}

// enrich computes the embedding and analysis for a title/content pair. Both
// calls are synchronous on the write path.
func (c *contextService) enrich(ctx context.Context, title, content string) ([]float32, *entity.Analysis, error) {
	embedding, err := c.provider.Embed(ctx, title+"\n\n"+content)
	if err != nil {
		return nil, nil, apperror.Provider("compute embedding", err)
	}

	analysis, err := c.provider.Analyze(ctx, title, content)
	if err != nil {
		return nil, nil, apperror.Provider("analyze content", err)
	}

	return embedding, &entity.Analysis{
		Summary:    analysis.Summary,
		Topics:     analysis.Topics,
		Sentiment:  analysis.Sentiment,
		Complexity: analysis.Complexity,
	}, nil
}

// requireProject resolves a project the user is a member of. Cross-user
// projects surface as not found, never as forbidden.
func (c *contextService) requireProject(ctx context.Context, uow unitofwork.UnitOfWork, userId, projectId uuid.UUID) (*entity.Project, error) {
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.MemberOf{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("fetch project", err)
	}
	if project == nil {
		return nil, apperror.NotFound("project")
	}
	return project, nil
}

// createChunks persists one child context per content chunk, each with its own
// embedding, and returns the child ids in chunk order.
func (c *contextService) createChunks(ctx context.Context, uow unitofwork.UnitOfWork, parent *entity.Context, chunkSize int) ([]uuid.UUID, error) {
	chunks := utils.ChunkContent(parent.Content, chunkSize, chunkOverlap)
	if len(chunks) < 2 {
		return nil, nil
	}

	childIds := make([]uuid.UUID, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := c.provider.Embed(ctx, parent.Title+"\n\n"+chunk)
		if err != nil {
			return nil, apperror.Provider("compute chunk embedding", err)
		}

		child := entity.Context{
			Id:         uuid.New(),
			UserId:     parent.UserId,
			ProjectId:  parent.ProjectId,
			Title:      fmt.Sprintf("%s (part %d)", parent.Title, i+1),
			Content:    chunk,
			Type:       parent.Type,
			Tags:       parent.Tags,
			Source:     parent.Source,
			Embedding:  embedding,
			ChunkIndex: i + 1,
			CreatedAt:  parent.CreatedAt,
		}
		if err := uow.ContextRepository().Create(ctx, &child); err != nil {
			return nil, apperror.Internal("create context chunk", err)
		}
		childIds = append(childIds, child.Id)
	}
	return childIds, nil
}

// triggerGraphRebuild publishes a rebuild message for the context's project.
// Failures are logged and swallowed so the write path never depends on the
// graph pipeline.
func (c *contextService) triggerGraphRebuild(ctx context.Context, projectId *uuid.UUID, userId uuid.UUID) {
	if projectId == nil {
		return
	}

	payload, err := json.Marshal(dto.RebuildGraphMessage{
		ProjectId: *projectId,
		UserId:    userId,
	})
	if err != nil {
		c.logger.Warn("context_service", "failed to marshal graph rebuild message", map[string]interface{}{
			"project_id": projectId.String(),
			"error":      err.Error(),
		})
		return
	}

	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Warn("context_service", "failed to publish graph rebuild message", map[string]interface{}{
			"project_id": projectId.String(),
			"error":      err.Error(),
		})
	}
}
