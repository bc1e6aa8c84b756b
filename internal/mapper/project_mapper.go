package mapper

import (
	"encoding/json"
	"time"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/model"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if len(p.Tags) > 0 {
		_ = json.Unmarshal(p.Tags, &tags)
	}

	settings := entity.DefaultProjectSettings()
	if len(p.Settings) > 0 {
		_ = json.Unmarshal(p.Settings, &settings)
	}

	var collaborators []entity.Collaborator
	if len(p.Collaborators) > 0 {
		_ = json.Unmarshal(p.Collaborators, &collaborators)
	}

	return &entity.Project{
		Id:            p.Id,
		UserId:        p.UserId,
		Name:          p.Name,
		Description:   p.Description,
		IsPublic:      p.IsPublic,
		Tags:          tags,
		Settings:      settings,
		Collaborators: collaborators,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Project{
		Id:            p.Id,
		UserId:        p.UserId,
		Name:          p.Name,
		Description:   p.Description,
		IsPublic:      p.IsPublic,
		Tags:          toJSON(p.Tags, "[]"),
		Settings:      toJSON(p.Settings, "{}"),
		Collaborators: toJSON(p.Collaborators, "[]"),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *ProjectMapper) ToEntities(projects []*model.Project) []*entity.Project {
	entities := make([]*entity.Project, len(projects))
	for i, p := range projects {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
