package dto

import (
	"time"

	"github.com/google/uuid"
)

type SearchFilters struct {
	Types []string   `json:"types" validate:"omitempty,dive,oneof=conversation code documentation research idea task note meeting email webpage file image audio video"`
	Tags  []string   `json:"tags"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type SearchRequest struct {
	Query     string         `json:"query" validate:"required,min=1"`
	ProjectId *uuid.UUID     `json:"project_id"`
	Mode      string         `json:"search_type" validate:"omitempty,oneof=text semantic hybrid rag"`
	Filters   *SearchFilters `json:"filters"`
	Limit     int            `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int            `json:"offset" validate:"omitempty,min=0"`
}

type SearchResultItem struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`
	Tags      []string   `json:"tags"`
	ProjectId *uuid.UUID `json:"project_id,omitempty"`
	Relevance float64    `json:"relevance"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type SearchResponse struct {
	Data        []*SearchResultItem `json:"data"`
	RagResponse *string             `json:"ragResponse,omitempty"` // present only for mode=rag
	Pagination  Pagination          `json:"pagination"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Query       string   `json:"query"`
}
