package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"canon-be/internal/model"
	"canon-be/internal/repository/unitofwork"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the action-event topic into the system_logs table
// so completed actions stay auditable outside chat history.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

type actionEventEnvelope struct {
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp string                 `json:"timestamp"`
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope actionEventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal action event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details, err := json.Marshal(envelope.Payload)
	if err != nil {
		log.Printf("[ERROR] Failed to remarshal event payload: %v", err)
		msg.Ack()
		return
	}

	module := "agent"
	detailsStr := string(details)
	entry := model.SystemLog{
		Level:     "info",
		Module:    &module,
		Message:   envelope.EventType,
		Details:   &detailsStr,
		CreatedAt: time.Now(),
	}
	if occurredAt, err := time.Parse(time.RFC3339, envelope.Timestamp); err == nil {
		entry.CreatedAt = occurredAt
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SystemLogRepository().Create(ctx, &entry); err != nil {
		log.Printf("[ERROR] Failed to record action event: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
