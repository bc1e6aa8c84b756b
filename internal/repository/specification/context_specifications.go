package specification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByProjectID struct {
	ProjectID uuid.UUID
}

func (s ByProjectID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectID)
}

type ByContextType struct {
	Type string
}

func (s ByContextType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

type ByContextTypes struct {
	Types []string
}

func (s ByContextTypes) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Types) == 0 {
		return db
	}
	return db.Where("type IN ?", s.Types)
}

// TagsAnyOf matches rows whose JSONB tag array contains at least one of the
// given tags (any-of membership, not all-of).
type TagsAnyOf struct {
	Tags []string
}

func (s TagsAnyOf) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Tags) == 0 {
		return db
	}
	cond := db.Session(&gorm.Session{NewDB: true})
	for _, tag := range s.Tags {
		element, _ := json.Marshal([]string{tag})
		cond = cond.Or("tags @> ?", string(element))
	}
	return db.Where(cond)
}

// CreatedBetween is a free-form date range on creation time; either bound may
// be nil.
type CreatedBetween struct {
	After  *time.Time
	Before *time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.After != nil {
		db = db.Where("created_at >= ?", *s.After)
	}
	if s.Before != nil {
		db = db.Where("created_at <= ?", *s.Before)
	}
	return db
}

type NotArchived struct{}

func (s NotArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_archived = false")
}
