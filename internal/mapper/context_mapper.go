package mapper

import (
	"encoding/json"
	"time"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContextMapper struct{}

func NewContextMapper() *ContextMapper {
	return &ContextMapper{}
}

func (m *ContextMapper) ToEntity(c *model.Context) *entity.Context {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if len(c.Tags) > 0 {
		_ = json.Unmarshal(c.Tags, &tags)
	}

	var metadata map[string]interface{}
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &metadata)
	}

	var analysis *entity.Analysis
	if len(c.Analysis) > 0 {
		analysis = &entity.Analysis{}
		if err := json.Unmarshal(c.Analysis, analysis); err != nil {
			analysis = nil
		}
	}

	var childIds []uuid.UUID
	if len(c.ChildContextIds) > 0 {
		_ = json.Unmarshal(c.ChildContextIds, &childIds)
	}

	var embedding []float32
	if c.Embedding != nil {
		embedding = c.Embedding.Slice()
	}

	return &entity.Context{
		Id:        c.Id,
		UserId:    c.UserId,
		ProjectId: c.ProjectId,
		Title:     c.Title,
		Content:   c.Content,
		Type:      entity.ContextType(c.Type),
		Tags:      tags,
		Metadata:  metadata,
		Source: entity.Source{
			Type:      entity.SourceType(c.SourceType),
			AgentId:   c.SourceAgentId,
			SessionId: c.SourceSessionId,
			Timestamp: c.SourceTimestamp,
		},
		Embedding:       embedding,
		Analysis:        analysis,
		ChunkIndex:      c.ChunkIndex,
		ChildContextIds: childIds,
		IsArchived:      c.IsArchived,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *ContextMapper) ToModel(c *entity.Context) *model.Context {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(c.Embedding) > 0 {
		v := pgvector.NewVector(c.Embedding)
		embedding = &v
	}

	return &model.Context{
		Id:              c.Id,
		UserId:          c.UserId,
		ProjectId:       c.ProjectId,
		Title:           c.Title,
		Content:         c.Content,
		Type:            string(c.Type),
		Tags:            toJSON(c.Tags, "[]"),
		Metadata:        toJSON(c.Metadata, "{}"),
		SourceType:      string(c.Source.Type),
		SourceAgentId:   c.Source.AgentId,
		SourceSessionId: c.Source.SessionId,
		SourceTimestamp: c.Source.Timestamp,
		Embedding:       embedding,
		Analysis:        toJSON(c.Analysis, ""),
		ChunkIndex:      c.ChunkIndex,
		ChildContextIds: toJSON(c.ChildContextIds, "[]"),
		IsArchived:      c.IsArchived,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *ContextMapper) ToEntities(contexts []*model.Context) []*entity.Context {
	entities := make([]*entity.Context, len(contexts))
	for i, c := range contexts {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

// toJSON marshals v into a JSONB payload, falling back to the given literal
// when v is nil or unmarshalable. An empty fallback yields a NULL column.
func toJSON(v interface{}, fallback string) datatypes.JSON {
	if v == nil {
		if fallback == "" {
			return nil
		}
		return datatypes.JSON(fallback)
	}
	b, err := json.Marshal(v)
	if err != nil {
		if fallback == "" {
			return nil
		}
		return datatypes.JSON(fallback)
	}
	if string(b) == "null" {
		if fallback == "" {
			return nil
		}
		return datatypes.JSON(fallback)
	}
	return datatypes.JSON(b)
}
