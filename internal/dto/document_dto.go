package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	ProjectId           uuid.UUID `json:"project_id" validate:"required"`
	Name                string    `json:"name" validate:"required,min=1,max=200"`
	StandingInstruction string    `json:"standing_instruction" validate:"max=2000"`
	Content             string    `json:"content"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateDocumentRequest struct {
	Id                  uuid.UUID `json:"-"`
	Name                string    `json:"name" validate:"required,min=1,max=200"`
	StandingInstruction string    `json:"standing_instruction" validate:"max=2000"`
}

type UpdateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowDocumentResponse struct {
	Id                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	StandingInstruction string     `json:"standing_instruction"`
	Content             string     `json:"content"`
	ProjectId           uuid.UUID  `json:"project_id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}

type GetAllDocumentResponse struct {
	Id            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	ContentLength int        `json:"content_length"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}
