package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByProjectID filters rows belonging to one project.
type ByProjectID struct {
	ProjectID uuid.UUID
}

func (s ByProjectID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectID)
}

// ByNameIgnoreCase matches a document name case-insensitively, the same rule
// the duplicate-name correction uses.
type ByNameIgnoreCase struct {
	Name string
}

func (s ByNameIgnoreCase) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(s.Name)))
}
