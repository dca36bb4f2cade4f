package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

type CreateProjectResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateProjectRequest struct {
	Id          uuid.UUID `json:"-"`
	Name        string    `json:"name" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"max=2000"`
}

type UpdateProjectResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowProjectResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type GetAllProjectResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
