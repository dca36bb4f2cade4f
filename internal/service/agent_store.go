package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"canon-be/internal/entity"
	"canon-be/internal/pkg/apperror"
	"canon-be/internal/repository/specification"
	"canon-be/internal/repository/unitofwork"
	"canon-be/pkg/agent"
)

// agentStores adapts the repository layer to the agent ports, scoped to one
// user for the lifetime of a single action. Snapshots carry full content;
// truncation happens in the context assembler.
type agentStores struct {
	uowFactory unitofwork.RepositoryFactory
	userId     uuid.UUID
}

func newAgentStores(uowFactory unitofwork.RepositoryFactory, userId uuid.UUID) *agentStores {
	return &agentStores{
		uowFactory: uowFactory,
		userId:     userId,
	}
}

// ProjectStore

func (s *agentStores) Get(ctx context.Context, userId, projectId uuid.UUID) (*agent.ProjectContext, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", projectId, agent.ErrNotFound)
	}

	return &agent.ProjectContext{
		ID:          project.Id,
		Name:        project.Name,
		Description: project.Description,
	}, nil
}

// DocumentStore

func (s *agentStores) GetSnapshot(ctx context.Context, id uuid.UUID) (*agent.DocumentSnapshot, error) {
	return s.fetchDocument(ctx, id)
}

func (s *agentStores) GetLive(ctx context.Context, id uuid.UUID) (*agent.DocumentSnapshot, error) {
	return s.fetchDocument(ctx, id)
}

func (s *agentStores) fetchDocument(ctx context.Context, id uuid.UUID) (*agent.DocumentSnapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: s.userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document %s: %w", id, agent.ErrNotFound)
	}

	snapshot := toSnapshot(document)
	return &snapshot, nil
}

func (s *agentStores) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Ownership check before the blind single-statement update.
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: s.userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document %s: %w", id, agent.ErrNotFound)
	}

	return uow.DocumentRepository().UpdateContent(ctx, id, content)
}

func (s *agentStores) Create(ctx context.Context, projectId uuid.UUID, name, standingInstruction, content string) (*agent.DocumentSnapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The unique index is exact-case; duplicate names are rejected
	// case-insensitively like everywhere else.
	existing, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.ByNameIgnoreCase{Name: name},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("document %q: %w", name, agent.ErrDuplicateName)
	}

	document := entity.Document{
		Id:                  uuid.New(),
		Name:                name,
		StandingInstruction: standingInstruction,
		Content:             content,
		ProjectId:           projectId,
		UserId:              s.userId,
		CreatedAt:           time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		if errors.Is(err, apperror.ErrDuplicateName) {
			return nil, fmt.Errorf("document %q: %w", name, agent.ErrDuplicateName)
		}
		return nil, err
	}

	snapshot := toSnapshot(&document)
	return &snapshot, nil
}

func (s *agentStores) ListByProject(ctx context.Context, projectId uuid.UUID) ([]agent.DocumentSnapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.UserOwnedBy{UserID: s.userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	snapshots := make([]agent.DocumentSnapshot, 0, len(documents))
	for _, document := range documents {
		snapshots = append(snapshots, toSnapshot(document))
	}
	return snapshots, nil
}

// ChatStore

func (s *agentStores) GetRecentTurns(ctx context.Context, chatId uuid.UUID, limit int) ([]agent.ChatTurn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: limit},
	)
	if err != nil {
		return nil, err
	}

	// Repo returns newest first; the prompt wants oldest first.
	turns := make([]agent.ChatTurn, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		turns = append(turns, agent.ChatTurn{
			Role:    messages[i].Role,
			Content: messages[i].Content,
		})
	}
	return turns, nil
}

func toSnapshot(document *entity.Document) agent.DocumentSnapshot {
	return agent.DocumentSnapshot{
		ID:                  document.Id,
		Name:                document.Name,
		StandingInstruction: document.StandingInstruction,
		Content:             document.Content,
		ContentLength:       len(document.Content),
	}
}
