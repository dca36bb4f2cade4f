package contract

import (
	"context"

	"canon-be/internal/entity"
	"canon-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	// Create returns apperror.ErrDuplicateName when the (project, name) pair
	// already exists.
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error

	// UpdateContent replaces the stored content in one statement.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error

	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
}
