package entity

import (
	"time"

	"github.com/google/uuid"
)

type CollaboratorRole string

const (
	RoleOwner  CollaboratorRole = "owner"
	RoleAdmin  CollaboratorRole = "admin"
	RoleEditor CollaboratorRole = "editor"
	RoleViewer CollaboratorRole = "viewer"
)

var collaboratorRoles = map[CollaboratorRole]bool{
	RoleOwner: true, RoleAdmin: true, RoleEditor: true, RoleViewer: true,
}

func ValidCollaboratorRole(r CollaboratorRole) bool {
	return collaboratorRoles[r]
}

type Collaborator struct {
	UserId  uuid.UUID        `json:"user_id"`
	Role    CollaboratorRole `json:"role"`
	AddedAt time.Time        `json:"added_at"`
}

// ProjectSettings bounds are enforced at the boundary:
// ChunkSize in [100,10000], MaxTokens in [1000,100000].
type ProjectSettings struct {
	AutoCategorize bool   `json:"auto_categorize"`
	ChunkSize      int    `json:"chunk_size"`
	MaxTokens      int    `json:"max_tokens"`
	AiModel        string `json:"ai_model"`
}

func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{
		AutoCategorize: true,
		ChunkSize:      1000,
		MaxTokens:      8000,
		AiModel:        "gpt-4",
	}
}

// Project is a named collection grouping contexts. The owner is always a
// collaborator with role "owner", added at creation time.
type Project struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Name          string
	Description   string
	IsPublic      bool
	Tags          []string
	Settings      ProjectSettings
	Collaborators []Collaborator
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// IsMember reports whether userId owns the project or appears in its
// collaborator list.
func (p *Project) IsMember(userId uuid.UUID) bool {
	if p.UserId == userId {
		return true
	}
	for _, c := range p.Collaborators {
		if c.UserId == userId {
			return true
		}
	}
	return false
}
