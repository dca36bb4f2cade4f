package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is a living document: content is wholly replaced on each accepted
// edit, never appended to. StandingInstruction persists across edits and
// constrains every rewrite.
type Document struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string
	StandingInstruction string
	Content             string
	ProjectId           uuid.UUID `gorm:"type:uuid;index"`
	UserId              uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	DeletedAt           *time.Time
	IsDeleted           bool
}
