package dto

import (
	"time"

	"velto-memory-be/internal/entity"

	"github.com/google/uuid"
)

type ProjectSettingsRequest struct {
	AutoCategorize *bool   `json:"auto_categorize"`
	ChunkSize      *int    `json:"chunk_size" validate:"omitempty,min=100,max=10000"`
	MaxTokens      *int    `json:"max_tokens" validate:"omitempty,min=1000,max=100000"`
	AiModel        *string `json:"ai_model"`
}

type CollaboratorRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"omitempty,oneof=owner admin editor viewer"`
}

type CreateProjectRequest struct {
	Name          string                  `json:"name" validate:"required,min=1,max=100"`
	Description   string                  `json:"description"`
	IsPublic      bool                    `json:"is_public"`
	Tags          []string                `json:"tags"`
	Settings      *ProjectSettingsRequest `json:"settings" validate:"omitempty"`
	Collaborators []CollaboratorRequest   `json:"collaborators" validate:"omitempty,dive"`
}

type ProjectResponse struct {
	Id            uuid.UUID               `json:"id"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	IsPublic      bool                    `json:"is_public"`
	Tags          []string                `json:"tags"`
	Settings      entity.ProjectSettings  `json:"settings"`
	Collaborators []entity.Collaborator   `json:"collaborators"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     *time.Time              `json:"updated_at,omitempty"`
}

// ListProjectsRequest filters projects where the requester is owner or
// collaborator.
type ListProjectsRequest struct {
	IsPublic *bool
	Tags     []string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

type ListProjectsResponse struct {
	Data       []*ProjectResponse `json:"data"`
	Pagination Pagination         `json:"pagination"`
}
