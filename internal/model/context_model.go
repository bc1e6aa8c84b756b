package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Context struct {
	Id              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProjectId       *uuid.UUID       `gorm:"type:uuid;index"`
	Title           string           `gorm:"type:varchar(200);not null"`
	Content         string           `gorm:"type:text;not null"`
	Type            string           `gorm:"type:varchar(32);not null;index"`
	Tags            datatypes.JSON   `gorm:"type:jsonb"`
	Metadata        datatypes.JSON   `gorm:"type:jsonb"`
	SourceType      string           `gorm:"type:varchar(32);not null;default:'manual'"`
	SourceAgentId   string           `gorm:"type:varchar(255)"`
	SourceSessionId string           `gorm:"type:varchar(255)"`
	SourceTimestamp time.Time        ``
	Embedding       *pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 dimensionality
	Analysis        datatypes.JSON   `gorm:"type:jsonb"`
	ChunkIndex      int              `gorm:"default:0"`
	ChildContextIds datatypes.JSON   `gorm:"type:jsonb"`
	IsArchived      bool             `gorm:"default:false"`
	CreatedAt       time.Time        `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime"`
}

func (Context) TableName() string {
	return "contexts"
}
