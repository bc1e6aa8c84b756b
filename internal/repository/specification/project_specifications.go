package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberOf matches projects the user owns or collaborates on. Collaborators
// are stored as a JSONB array of {user_id, role, added_at} objects.
type MemberOf struct {
	UserID uuid.UUID
}

func (s MemberOf) Apply(db *gorm.DB) *gorm.DB {
	membership := fmt.Sprintf(`[{"user_id": %q}]`, s.UserID.String())
	return db.Where("user_id = ? OR collaborators @> ?", s.UserID, membership)
}

type ByPublic struct {
	IsPublic bool
}

func (s ByPublic) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_public = ?", s.IsPublic)
}
