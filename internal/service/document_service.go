package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"canon-be/internal/dto"
	"canon-be/internal/entity"
	"canon-be/internal/pkg/apperror"
	"canon-be/internal/repository/specification"
	"canon-be/internal/repository/unitofwork"
)

type IDocumentService interface {
	GetAll(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.GetAllDocumentResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
	}
}

func (c *documentService) GetAll(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.GetAllDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Verify project ownership before listing.
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", projectId, apperror.ErrNotFound)
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllDocumentResponse, 0, len(documents))
	for _, document := range documents {
		result = append(result, &dto.GetAllDocumentResponse{
			Id:            document.Id,
			Name:          document.Name,
			ContentLength: len(document.Content),
			CreatedAt:     document.CreatedAt,
			UpdatedAt:     document.UpdatedAt,
		})
	}

	return result, nil
}

func (c *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.ProjectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", req.ProjectId, apperror.ErrNotFound)
	}

	// Names are unique per project case-insensitively; the DB index only
	// catches exact-case collisions.
	existing, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: req.ProjectId},
		specification.ByNameIgnoreCase{Name: req.Name},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("document %q: %w", req.Name, apperror.ErrDuplicateName)
	}

	document := entity.Document{
		Id:                  uuid.New(),
		Name:                req.Name,
		StandingInstruction: req.StandingInstruction,
		Content:             req.Content,
		ProjectId:           req.ProjectId,
		UserId:              userId,
		CreatedAt:           time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	return &dto.CreateDocumentResponse{
		Id: document.Id,
	}, nil
}

func (c *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document %s: %w", id, apperror.ErrNotFound)
	}

	return &dto.ShowDocumentResponse{
		Id:                  document.Id,
		Name:                document.Name,
		StandingInstruction: document.StandingInstruction,
		Content:             document.Content,
		ProjectId:           document.ProjectId,
		CreatedAt:           document.CreatedAt,
		UpdatedAt:           document.UpdatedAt,
	}, nil
}

func (c *documentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document %s: %w", req.Id, apperror.ErrNotFound)
	}

	now := time.Now()
	document.Name = req.Name
	document.StandingInstruction = req.StandingInstruction
	document.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, err
	}

	return &dto.UpdateDocumentResponse{
		Id: document.Id,
	}, nil
}

func (c *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document %s: %w", id, apperror.ErrNotFound)
	}

	return uow.DocumentRepository().Delete(ctx, id)
}
