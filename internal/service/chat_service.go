package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"canon-be/internal/dto"
	"canon-be/internal/pkg/apperror"
	"canon-be/internal/repository/specification"
	"canon-be/internal/repository/unitofwork"
)

type IChatService interface {
	GetAll(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.GetAllChatResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) (*dto.GetChatHistoryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChatService(uowFactory unitofwork.RepositoryFactory) IChatService {
	return &chatService{
		uowFactory: uowFactory,
	}
}

func (c *chatService) GetAll(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.GetAllChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllChatResponse, 0, len(chats))
	for _, chat := range chats {
		result = append(result, &dto.GetAllChatResponse{
			Id:        chat.Id,
			Title:     chat.Title,
			ProjectId: chat.ProjectId,
			CreatedAt: chat.CreatedAt,
			UpdatedAt: chat.UpdatedAt,
		})
	}

	return result, nil
}

func (c *chatService) GetHistory(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) (*dto.GetChatHistoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s: %w", chatId, apperror.ErrNotFound)
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := dto.GetChatHistoryResponse{
		Id:       chat.Id,
		Title:    chat.Title,
		Messages: make([]*dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, message := range messages {
		res.Messages = append(res.Messages, &dto.ChatMessageResponse{
			Id:        message.Id,
			Role:      message.Role,
			Content:   message.Content,
			Metadata:  message.Metadata,
			CreatedAt: message.CreatedAt,
		})
	}

	return &res, nil
}

func (c *chatService) Delete(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat %s: %w", chatId, apperror.ErrNotFound)
	}

	return uow.ChatRepository().Delete(ctx, chatId)
}
