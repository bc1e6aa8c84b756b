package dto

import (
	"time"

	"velto-memory-be/internal/entity"

	"github.com/google/uuid"
)

type SourceRequest struct {
	Type      string `json:"type" validate:"required,oneof=manual api webhook claude cursor copilot windsurf"`
	AgentId   string `json:"agent_id"`
	SessionId string `json:"session_id"`
}

type CreateContextRequest struct {
	Title     string                 `json:"title" validate:"required,min=1,max=200"`
	Content   string                 `json:"content" validate:"required,min=1"`
	Type      string                 `json:"type" validate:"required,oneof=conversation code documentation research idea task note meeting email webpage file image audio video"`
	Tags      []string               `json:"tags"`
	ProjectId *uuid.UUID             `json:"project_id"`
	Source    *SourceRequest         `json:"source"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type CreateContextResponse struct {
	Id        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Type      string           `json:"type"`
	Tags      []string         `json:"tags"`
	ProjectId *uuid.UUID       `json:"project_id,omitempty"`
	Analysis  *entity.Analysis `json:"ai_analysis,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type ShowContextResponse struct {
	Id           uuid.UUID              `json:"id"`
	Title        string                 `json:"title"`
	Content      string                 `json:"content"`
	Type         string                 `json:"type"`
	Tags         []string               `json:"tags"`
	ProjectId    *uuid.UUID             `json:"project_id,omitempty"`
	Source       SourceResponse         `json:"source"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Analysis     *entity.Analysis       `json:"ai_analysis,omitempty"`
	HasEmbedding bool                   `json:"has_embedding"` // presence flag, never the vector
	ChunkIndex   int                    `json:"chunk_index,omitempty"`
	ChildIds     []uuid.UUID            `json:"child_context_ids,omitempty"`
	IsArchived   bool                   `json:"is_archived"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at,omitempty"`
}

type SourceResponse struct {
	Type      string    `json:"type"`
	AgentId   string    `json:"agent_id,omitempty"`
	SessionId string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UpdateContextRequest carries partial fields; nil means "leave unchanged".
type UpdateContextRequest struct {
	Id        uuid.UUID              `json:"-"`
	Title     *string                `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string                `json:"content" validate:"omitempty,min=1"`
	Type      *string                `json:"type" validate:"omitempty,oneof=conversation code documentation research idea task note meeting email webpage file image audio video"`
	Tags      []string               `json:"tags"`
	ProjectId *uuid.UUID             `json:"project_id"`
	Source    *SourceRequest         `json:"source"`
	Metadata  map[string]interface{} `json:"metadata"`
	Archived  *bool                  `json:"is_archived"`
}

type UpdateContextResponse struct {
	Id uuid.UUID `json:"id"`
}

// ListContextsRequest is the typed filter for listing: exactly the supported
// predicates, unknown query keys are rejected at the controller.
type ListContextsRequest struct {
	ProjectId     *uuid.UUID
	Type          *string
	Tags          []string // any-of membership
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SortBy        string
	SortDesc      bool
	Limit         int
	Offset        int
}

type ContextSummaryResponse struct {
	Id        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Type      string                 `json:"type"`
	Tags      []string               `json:"tags"`
	ProjectId *uuid.UUID             `json:"project_id,omitempty"`
	Analysis  *entity.Analysis       `json:"ai_analysis,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type ListContextsResponse struct {
	Data       []*ContextSummaryResponse `json:"data"`
	Pagination Pagination                `json:"pagination"`
}

// RebuildGraphMessage is the payload published to the graph rebuild topic
// after a qualifying context write.
type RebuildGraphMessage struct {
	ProjectId uuid.UUID `json:"project_id"`
	UserId    uuid.UUID `json:"user_id"`
}
