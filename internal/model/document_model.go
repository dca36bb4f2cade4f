package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id                  uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_documents_project_name"`
	StandingInstruction string         `gorm:"type:text"`
	Content             string         `gorm:"type:text"`
	ProjectId           uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_documents_project_name"`
	UserId              uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
