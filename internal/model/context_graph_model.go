package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContextGraph struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId uuid.UUID      `gorm:"type:uuid;not null;index:idx_context_graphs_scope,unique"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_context_graphs_scope,unique"`
	NodeIds   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (ContextGraph) TableName() string {
	return "context_graphs"
}

type ContextGraphEdge struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GraphId         uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceContextId uuid.UUID `gorm:"type:uuid;not null"`
	TargetContextId uuid.UUID `gorm:"type:uuid;not null"`
	Weight          float64   `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (ContextGraphEdge) TableName() string {
	return "context_graph_edges"
}
