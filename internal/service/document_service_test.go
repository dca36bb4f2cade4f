package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canon-be/internal/dto"
	"canon-be/internal/entity"
	"canon-be/internal/pkg/apperror"
	"canon-be/internal/repository/contract"
	"canon-be/internal/repository/specification"
	"canon-be/internal/repository/unitofwork"
)

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUnitOfWork struct {
	projects  *fakeProjectRepo
	documents *fakeDocumentRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) ProjectRepository() contract.ProjectRepository   { return u.projects }
func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return u.documents }
func (u *fakeUnitOfWork) ChatRepository() contract.ChatRepository         { return nil }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return nil
}
func (u *fakeUnitOfWork) SystemLogRepository() contract.SystemLogRepository { return nil }

type fakeProjectRepo struct {
	project *entity.Project
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *entity.Project) error { return nil }
func (r *fakeProjectRepo) Update(ctx context.Context, project *entity.Project) error { return nil }
func (r *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

func (r *fakeProjectRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	return r.project, nil
}

func (r *fakeProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	return nil, nil
}

type fakeDocumentRepo struct {
	docs    []*entity.Document
	created []*entity.Document
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.created = append(r.created, document)
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error { return nil }
func (r *fakeDocumentRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	return nil
}
func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, spec := range specs {
		if byName, ok := spec.(specification.ByNameIgnoreCase); ok {
			want := strings.ToLower(strings.TrimSpace(byName.Name))
			for _, doc := range r.docs {
				if strings.ToLower(doc.Name) == want {
					return doc, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return r.docs, nil
}

func TestDocumentServiceCreateRejectsCaseInsensitiveDuplicate(t *testing.T) {
	userId := uuid.New()
	projectId := uuid.New()

	documents := &fakeDocumentRepo{
		docs: []*entity.Document{
			{Id: uuid.New(), Name: "Budget", ProjectId: projectId, UserId: userId},
		},
	}
	svc := NewDocumentService(&fakeUowFactory{uow: &fakeUnitOfWork{
		projects:  &fakeProjectRepo{project: &entity.Project{Id: projectId, UserId: userId}},
		documents: documents,
	}})

	_, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{
		ProjectId: projectId,
		Name:      "budget",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrDuplicateName)
	assert.Empty(t, documents.created, "duplicate must be rejected before insert")
}

func TestDocumentServiceCreateUniqueName(t *testing.T) {
	userId := uuid.New()
	projectId := uuid.New()

	documents := &fakeDocumentRepo{
		docs: []*entity.Document{
			{Id: uuid.New(), Name: "Budget", ProjectId: projectId, UserId: userId},
		},
	}
	svc := NewDocumentService(&fakeUowFactory{uow: &fakeUnitOfWork{
		projects:  &fakeProjectRepo{project: &entity.Project{Id: projectId, UserId: userId}},
		documents: documents,
	}})

	resp, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{
		ProjectId: projectId,
		Name:      "Roadmap",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.Id)
	require.Len(t, documents.created, 1)
	assert.Equal(t, "Roadmap", documents.created[0].Name)
}
