package dto

import (
	"time"

	"github.com/google/uuid"

	"canon-be/pkg/agent"
)

type ActRequest struct {
	ProjectId   uuid.UUID  `json:"project_id" validate:"required"`
	Instruction string     `json:"instruction" validate:"required,min=1,max=8000"`
	DocumentId  *uuid.UUID `json:"document_id,omitempty"`
	ChatId      *uuid.UUID `json:"chat_id,omitempty"`
}

type ActResponse struct {
	ChatId   uuid.UUID           `json:"chat_id"`
	Action   string              `json:"action"`
	Message  string              `json:"message"`
	Document *ActDocument        `json:"document,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
	Trace    agent.DecisionTrace `json:"trace"`
}

type ActDocument struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContentLength int       `json:"content_length"`
}

type GetTraceResponse struct {
	ChatId uuid.UUID           `json:"chat_id"`
	Trace  agent.DecisionTrace `json:"trace"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
