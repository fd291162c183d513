package service

import (
	"context"
	"time"

	"symptom-checker-be/internal/constant"
	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/apperror"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/repository/memory"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/events"
	pktNats "symptom-checker-be/pkg/nats"

	"github.com/google/uuid"
)

type IHistoryService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.HistoryRecordResponse, error)
	UpdateSymptoms(ctx context.Context, userId uuid.UUID, req *dto.UpdateSymptomsRequest) (*dto.HistoryRecordResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Usage(ctx context.Context, userId uuid.UUID) ([]*dto.UsageCounterResponse, error)
}

type historyService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	imageCache     *memory.ImageCache
	log            logger.ILogger
}

func NewHistoryService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	imageCache *memory.ImageCache,
	log logger.ILogger,
) IHistoryService {
	return &historyService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		imageCache:     imageCache,
		log:            log,
	}
}

func (s *historyService) List(ctx context.Context, userId uuid.UUID) ([]*dto.HistoryRecordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	records, err := uow.DiagnosisRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to load history", err)
	}

	res := make([]*dto.HistoryRecordResponse, len(records))
	for i, r := range records {
		res[i] = &dto.HistoryRecordResponse{
			Id:                 r.Id,
			Type:               r.Type,
			Symptoms:           r.Symptoms,
			ImageName:          r.ImageName,
			AudioTranscription: r.AudioTranscription,
			Answer:             r.Answer,
			CreatedAt:          r.CreatedAt,
			UpdatedAt:          r.UpdatedAt,
		}
	}
	return res, nil
}

func (s *historyService) UpdateSymptoms(ctx context.Context, userId uuid.UUID, req *dto.UpdateSymptomsRequest) (*dto.HistoryRecordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.DiagnosisRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to load record", err)
	}
	if record == nil {
		return nil, apperror.NotFound("history record not found")
	}
	if record.Type != constant.DiagnosisTypeText {
		return nil, apperror.Validation("symptoms", "only text records can be edited")
	}

	record.Symptoms = req.Symptoms
	now := time.Now()
	record.UpdatedAt = &now

	if err := uow.DiagnosisRepository().Update(ctx, record); err != nil {
		return nil, apperror.Persistence("failed to update record", err)
	}

	s.publishHistoryEvent(ctx, events.TypeHistoryUpdated, userId, HistoryRecordPayload(record))

	return &dto.HistoryRecordResponse{
		Id:        record.Id,
		Type:      record.Type,
		Symptoms:  record.Symptoms,
		Answer:    record.Answer,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

// Delete is idempotent: deleting a record that is already gone succeeds.
func (s *historyService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.DiagnosisRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.Persistence("failed to load record", err)
	}
	if record == nil {
		return nil
	}

	if err := uow.DiagnosisRepository().Delete(ctx, id); err != nil {
		return apperror.Persistence("failed to delete record", err)
	}

	if record.ImageName != "" {
		s.imageCache.Delete(userId, record.ImageName)
	}

	s.publishHistoryEvent(ctx, events.TypeHistoryDeleted, userId, map[string]interface{}{
		"id": id.String(),
	})

	return nil
}

func (s *historyService) Usage(ctx context.Context, userId uuid.UUID) ([]*dto.UsageCounterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	counters, err := uow.UsageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "day", Desc: true},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to load usage counters", err)
	}

	res := make([]*dto.UsageCounterResponse, len(counters))
	for i, c := range counters {
		res[i] = &dto.UsageCounterResponse{
			Day:   c.Day,
			Type:  c.Type,
			Count: c.Count,
		}
	}
	return res, nil
}

func (s *historyService) publishHistoryEvent(ctx context.Context, eventType string, userId uuid.UUID, payload map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewHistoryEvent(eventType, userId.String(), payload)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("history", "failed to publish history event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
