package service

import (
	"context"
	"encoding/json"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the usage topic and maintains per-user daily
// counters.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		log:        log,
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

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishUsageMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("usage", "failed to unmarshal usage message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UsageRepository().Increment(ctx, payload.UserId, time.Now(), payload.Type); err != nil {
		cs.log.Error("usage", "failed to increment usage counter", map[string]interface{}{
			"user_id": payload.UserId,
			"type":    payload.Type,
			"error":   err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.log.Info("usage", "usage counter incremented", map[string]interface{}{
		"user_id":   payload.UserId,
		"type":      payload.Type,
		"record_id": payload.RecordId,
	})
	msg.Ack()
}
