package dto

import (
	"time"

	"github.com/google/uuid"
)

type GetAllChatResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	ProjectId uuid.UUID  `json:"project_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id       uuid.UUID              `json:"id"`
	Title    string                 `json:"title"`
	Messages []*ChatMessageResponse `json:"messages"`
}
