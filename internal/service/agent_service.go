package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"canon-be/internal/constant"
	"canon-be/internal/dto"
	"canon-be/internal/entity"
	"canon-be/internal/pkg/apperror"
	"canon-be/internal/pkg/logger"
	"canon-be/internal/repository/memory"
	"canon-be/internal/repository/specification"
	"canon-be/internal/repository/unitofwork"
	"canon-be/pkg/agent"
	"canon-be/pkg/agent/compose"
	agentcontext "canon-be/pkg/agent/context"
	"canon-be/pkg/agent/decision"
	"canon-be/pkg/agent/dispatch"
	"canon-be/pkg/agent/generate"
	"canon-be/pkg/events"
)

type IAgentService interface {
	Act(ctx context.Context, userId uuid.UUID, req *dto.ActRequest) (*dto.ActResponse, error)
	GetTrace(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) (*dto.GetTraceResponse, error)
}

type agentService struct {
	uowFactory       unitofwork.RepositoryFactory
	engine           *decision.Engine
	generator        *generate.Generator
	composer         *compose.Composer
	search           agent.WebSearch
	traceRepo        *memory.TraceRepository
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewAgentService(
	uowFactory unitofwork.RepositoryFactory,
	engine *decision.Engine,
	generator *generate.Generator,
	composer *compose.Composer,
	search agent.WebSearch,
	traceRepo *memory.TraceRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) IAgentService {
	return &agentService{
		uowFactory:       uowFactory,
		engine:           engine,
		generator:        generator,
		composer:         composer,
		search:           search,
		traceRepo:        traceRepo,
		publisherService: publisherService,
		logger:           log,
	}
}

// Act runs one instruction through the full decision pipeline: assemble
// context, decide, correct, dispatch, compose. Exactly one user-facing
// message comes back regardless of path.
func (s *agentService) Act(ctx context.Context, userId uuid.UUID, req *dto.ActRequest) (*dto.ActResponse, error) {
	chat, isNewChat, err := s.resolveChat(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	// History is assembled before the current instruction is stored so the
	// prompt window holds prior turns only.
	historyChatId := chat.Id
	if isNewChat {
		historyChatId = uuid.Nil
	}

	stores := newAgentStores(s.uowFactory, userId)
	assembler := agentcontext.NewAssembler(stores, stores, stores)
	actx, err := assembler.Assemble(ctx, userId, req.ProjectId, historyChatId)
	if err != nil {
		return nil, err
	}

	if err := s.persistUserTurn(ctx, chat, isNewChat, req.Instruction); err != nil {
		return nil, err
	}

	targetDocumentId := ""
	if req.DocumentId != nil {
		targetDocumentId = req.DocumentId.String()
	}

	dec, err := s.engine.Decide(ctx, actx, req.Instruction, targetDocumentId)
	if err != nil {
		return nil, err
	}

	corrected, corrections := decision.Correct(*dec, actx.Documents, req.Instruction)
	dec = &corrected

	dispatcher := dispatch.NewDispatcher(stores, s.search, s.generator, s.logger)
	outcome, err := dispatcher.Dispatch(ctx, actx, dec, req.Instruction, req.ProjectId)
	if err != nil {
		return nil, err
	}

	event := s.composer.Compose(dec, outcome, corrections)

	if err := s.persistAssistantTurn(ctx, chat.Id, outcome); err != nil {
		return nil, err
	}
	s.traceRepo.Save(chat.Id.String(), outcome.Trace)
	s.publishEvent(ctx, event)

	return s.toActResponse(chat.Id, outcome), nil
}

func (s *agentService) GetTrace(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) (*dto.GetTraceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
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

	if trace, found := s.traceRepo.Get(chatId.String()); found {
		return &dto.GetTraceResponse{ChatId: chatId, Trace: trace}, nil
	}

	// Cache miss: recover the trace from the latest assistant message.
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	for _, msg := range messages {
		if msg.Role != constant.ChatMessageRoleAssistant || msg.Metadata == nil {
			continue
		}
		raw, ok := msg.Metadata["trace"]
		if !ok {
			continue
		}
		rawJson, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var trace agent.DecisionTrace
		if err := json.Unmarshal(rawJson, &trace); err != nil {
			continue
		}
		s.traceRepo.Save(chatId.String(), trace)
		return &dto.GetTraceResponse{ChatId: chatId, Trace: trace}, nil
	}

	return nil, fmt.Errorf("trace for chat %s: %w", chatId, apperror.ErrNotFound)
}

// resolveChat returns the target chat, creating a fresh (unpersisted) one
// when no chat id is given, the chat is unknown, or the chat belongs to a
// different project. A project switch never continues an old thread.
func (s *agentService) resolveChat(ctx context.Context, userId uuid.UUID, req *dto.ActRequest) (*entity.Chat, bool, error) {
	if req.ChatId != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		chat, err := uow.ChatRepository().FindOne(ctx,
			specification.ByID{ID: *req.ChatId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, false, err
		}
		if chat != nil && chat.ProjectId == req.ProjectId {
			return chat, false, nil
		}
		if chat != nil {
			s.logger.Warn("agent_service", "Chat belongs to another project, starting fresh", map[string]interface{}{
				"chat_id":            chat.Id.String(),
				"chat_project_id":    chat.ProjectId.String(),
				"request_project_id": req.ProjectId.String(),
			})
		}
	}

	chat := &entity.Chat{
		Id:        uuid.New(),
		Title:     deriveChatTitle(req.Instruction),
		ProjectId: req.ProjectId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	return chat, true, nil
}

// persistUserTurn writes the chat row (when fresh) and the user message in
// one transaction.
func (s *agentService) persistUserTurn(ctx context.Context, chat *entity.Chat, isNewChat bool, instruction string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if isNewChat {
		if err := uow.ChatRepository().Create(ctx, chat); err != nil {
			return err
		}
	}

	message := entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.ChatMessageRoleUser,
		Content:   instruction,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *agentService) persistAssistantTurn(ctx context.Context, chatId uuid.UUID, outcome *agent.ActionOutcome) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	metadata := map[string]interface{}{
		"action": string(outcome.Kind),
		"trace":  outcome.Trace,
	}
	if outcome.Document != nil {
		metadata["document_id"] = outcome.Document.ID.String()
	}

	message := entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    chatId,
		Role:      constant.ChatMessageRoleAssistant,
		Content:   outcome.Message,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	return uow.ChatMessageRepository().Create(ctx, &message)
}

// publishEvent hands the action event to the bus; delivery failures are
// logged, never surfaced to the user.
func (s *agentService) publishEvent(ctx context.Context, event events.Event) {
	envelope := map[string]interface{}{
		"event_type": event.EventType(),
		"payload":    event.Payload(),
		"timestamp":  event.Timestamp().Format(time.RFC3339),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Error("agent_service", "Failed to marshal action event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("agent_service", "Failed to publish action event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *agentService) toActResponse(chatId uuid.UUID, outcome *agent.ActionOutcome) *dto.ActResponse {
	res := &dto.ActResponse{
		ChatId:   chatId,
		Action:   string(outcome.Kind),
		Message:  outcome.Message,
		Warnings: outcome.Warnings,
		Trace:    outcome.Trace,
	}
	if outcome.Document != nil {
		res.Document = &dto.ActDocument{
			Id:            outcome.Document.ID,
			Name:          outcome.Document.Name,
			ContentLength: outcome.Document.ContentLength,
		}
	}
	return res
}

func deriveChatTitle(instruction string) string {
	title := strings.TrimSpace(instruction)
	if len(title) > constant.DefaultChatTitleLength {
		title = strings.TrimSpace(title[:constant.DefaultChatTitleLength]) + "..."
	}
	if title == "" {
		title = "New chat"
	}
	return title
}
