package agent

import (
	"context"

	"github.com/google/uuid"
)

// DocumentStore is the persistence collaborator for documents.
// GetSnapshot may return a truncated view; GetLive always returns full content.
type DocumentStore interface {
	GetSnapshot(ctx context.Context, id uuid.UUID) (*DocumentSnapshot, error)
	GetLive(ctx context.Context, id uuid.UUID) (*DocumentSnapshot, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error

	// Create persists a new document. Returns ErrDuplicateName when the name
	// already exists within the project.
	Create(ctx context.Context, projectID uuid.UUID, name, standingInstruction, content string) (*DocumentSnapshot, error)

	ListByProject(ctx context.Context, projectID uuid.UUID) ([]DocumentSnapshot, error)
}

// ProjectStore resolves project metadata. Returns ErrNotFound when the
// project is missing or not owned by the user.
type ProjectStore interface {
	Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectContext, error)
}

// ChatStore is read-only from the core; the caller persists outcome messages.
type ChatStore interface {
	GetRecentTurns(ctx context.Context, chatID uuid.UUID, limit int) ([]ChatTurn, error)
}

// ModelCapability abstracts the two model calls the core makes per action.
type ModelCapability interface {
	// CompleteStructured requests a reply constrained to the given JSON schema
	// and returns the raw reply text. Parsing belongs to the caller.
	CompleteStructured(ctx context.Context, prompt string, schema []byte) (string, error)

	// CompleteText requests a free-text reply.
	CompleteText(ctx context.Context, prompt string) (string, error)
}

// WebSearch fetches findings for a query. Returns ErrSearchUnavailable when
// the backend is unreachable; callers degrade rather than fail.
type WebSearch interface {
	Search(ctx context.Context, query string) (string, error)
}
