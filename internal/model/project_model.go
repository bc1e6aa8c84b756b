package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Project struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name          string         `gorm:"type:varchar(100);not null"`
	Description   string         `gorm:"type:text"`
	IsPublic      bool           `gorm:"default:false"`
	Tags          datatypes.JSON `gorm:"type:jsonb"`
	Settings      datatypes.JSON `gorm:"type:jsonb"`
	Collaborators datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
