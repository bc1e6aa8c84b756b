package service

import (
	"context"
	"time"

	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/dto"
	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/repository/specification"
	"velto-memory-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProjectResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListProjectsRequest) (*dto.ListProjectsResponse, error)
}

var projectSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
	}
}

func (p *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()

	settings := entity.DefaultProjectSettings()
	if req.Settings != nil {
		if req.Settings.AutoCategorize != nil {
			settings.AutoCategorize = *req.Settings.AutoCategorize
		}
		if req.Settings.ChunkSize != nil {
			settings.ChunkSize = *req.Settings.ChunkSize
		}
		if req.Settings.MaxTokens != nil {
			settings.MaxTokens = *req.Settings.MaxTokens
		}
		if req.Settings.AiModel != nil {
			settings.AiModel = *req.Settings.AiModel
		}
	}

	// The owner always leads the collaborator list; requested collaborators
	// follow, skipping a duplicate owner entry.
	collaborators := []entity.Collaborator{
		{UserId: userId, Role: entity.RoleOwner, AddedAt: now},
	}
	for _, collab := range req.Collaborators {
		if collab.UserId == userId {
			continue
		}
		role := entity.CollaboratorRole(collab.Role)
		if !entity.ValidCollaboratorRole(role) {
			role = entity.RoleViewer
		}
		collaborators = append(collaborators, entity.Collaborator{
			UserId:  collab.UserId,
			Role:    role,
			AddedAt: now,
		})
	}

	project := entity.Project{
		Id:            uuid.New(),
		UserId:        userId,
		Name:          req.Name,
		Description:   req.Description,
		IsPublic:      req.IsPublic,
		Tags:          req.Tags,
		Settings:      settings,
		Collaborators: collaborators,
		CreatedAt:     now,
	}

	if err := uow.ProjectRepository().Create(ctx, &project); err != nil {
		return nil, apperror.Internal("create project", err)
	}

	return toProjectResponse(&project), nil
}

func (p *projectService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProjectResponse, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.MemberOf{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("fetch project", err)
	}
	if project == nil {
		return nil, apperror.NotFound("project")
	}
	return toProjectResponse(project), nil
}

func (p *projectService) List(ctx context.Context, userId uuid.UUID, req *dto.ListProjectsRequest) (*dto.ListProjectsResponse, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.MemberOf{UserID: userId},
	}
	if req.IsPublic != nil {
		specs = append(specs, specification.ByPublic{IsPublic: *req.IsPublic})
	}
	if len(req.Tags) > 0 {
		specs = append(specs, specification.TagsAnyOf{Tags: req.Tags})
	}

	total, err := uow.ProjectRepository().Count(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal("count projects", err)
	}

	sortBy := req.SortBy
	if !projectSortFields[sortBy] {
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

	projects, err := uow.ProjectRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal("list projects", err)
	}

	data := make([]*dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		data = append(data, toProjectResponse(project))
	}

	return &dto.ListProjectsResponse{
		Data: data,
		Pagination: dto.Pagination{
			Page:  req.Offset/limit + 1,
			Limit: limit,
			Total: total,
		},
	}, nil
}

func toProjectResponse(project *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		Id:            project.Id,
		Name:          project.Name,
		Description:   project.Description,
		IsPublic:      project.IsPublic,
		Tags:          project.Tags,
		Settings:      project.Settings,
		Collaborators: project.Collaborators,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}
