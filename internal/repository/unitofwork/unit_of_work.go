package unitofwork

import (
	"context"

	"canon-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProjectRepository() contract.ProjectRepository
	DocumentRepository() contract.DocumentRepository
	ChatRepository() contract.ChatRepository
	ChatMessageRepository() contract.ChatMessageRepository
	SystemLogRepository() contract.SystemLogRepository
}
