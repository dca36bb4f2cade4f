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

type IProjectService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllProjectResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProjectResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.UpdateProjectResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
	}
}

func (c *projectService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllProjectResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllProjectResponse, 0, len(projects))
	for _, project := range projects {
		result = append(result, &dto.GetAllProjectResponse{
			Id:          project.Id,
			Name:        project.Name,
			Description: project.Description,
			CreatedAt:   project.CreatedAt,
			UpdatedAt:   project.UpdatedAt,
		})
	}

	return result, nil
}

func (c *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	project := entity.Project{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}

	if err := uow.ProjectRepository().Create(ctx, &project); err != nil {
		return nil, err
	}

	return &dto.CreateProjectResponse{
		Id: project.Id,
	}, nil
}

func (c *projectService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProjectResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", id, apperror.ErrNotFound)
	}

	return &dto.ShowProjectResponse{
		Id:          project.Id,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}, nil
}

func (c *projectService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.UpdateProjectResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", req.Id, apperror.ErrNotFound)
	}

	now := time.Now()
	project.Name = req.Name
	project.Description = req.Description
	project.UpdatedAt = &now

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}

	return &dto.UpdateProjectResponse{
		Id: project.Id,
	}, nil
}

func (c *projectService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %s: %w", id, apperror.ErrNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ProjectRepository().Delete(ctx, id); err != nil {
		return err
	}

	// Documents go with the project.
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: id},
	)
	if err != nil {
		return err
	}
	for _, document := range documents {
		if err := uow.DocumentRepository().Delete(ctx, document.Id); err != nil {
			return err
		}
	}

	return uow.Commit()
}
