package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"symptom-checker-be/internal/constant"
	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/pkg/apperror"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/repository/memory"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/ai"
	"symptom-checker-be/pkg/events"
	pktNats "symptom-checker-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	chatTimeout          = 60 * time.Second
	transcriptionTimeout = 120 * time.Second

	answerMaxTokens = 500
)

type IDiagnosisService interface {
	AnalyzeText(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeTextRequest) (*dto.AnalyzeTextResponse, error)
	AnalyzeImage(ctx context.Context, userId uuid.UUID, filename, contentType string, data []byte) (*dto.AnalyzeImageResponse, error)
	GetImageRecord(ctx context.Context, userId uuid.UUID, imageName string) (*dto.ImageRecordResponse, error)
	TranscribeAudio(ctx context.Context, userId uuid.UUID, filename string, data []byte) (*dto.TranscribeAudioResponse, error)
}

type diagnosisService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          ai.CompletionGateway
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	imageCache       *memory.ImageCache
	log              logger.ILogger
}

func NewDiagnosisService(
	uowFactory unitofwork.RepositoryFactory,
	gateway ai.CompletionGateway,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	imageCache *memory.ImageCache,
	log logger.ILogger,
) IDiagnosisService {
	return &diagnosisService{
		uowFactory:       uowFactory,
		gateway:          gateway,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		imageCache:       imageCache,
		log:              log,
	}
}

func (s *diagnosisService) analyzeSymptoms(ctx context.Context, symptoms string) (string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	prompt := fmt.Sprintf(constant.SymptomUserPromptTemplate, symptoms)

	start := time.Now()
	answer, err := s.gateway.Complete(ctx, constant.SymptomSystemPrompt, prompt,
		ai.WithMaxTokens(answerMaxTokens),
		ai.WithTemperature(0.5),
	)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return "", latency, err
	}
	return answer, latency, nil
}

func (s *diagnosisService) AnalyzeText(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeTextRequest) (*dto.AnalyzeTextResponse, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, apperror.Validation("symptoms", "symptoms are required")
	}

	answer, latency, err := s.analyzeSymptoms(ctx, req.Symptoms)
	if err != nil {
		s.log.Error("diagnosis", "symptom analysis failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, apperror.UpstreamGateway("failed to analyze symptoms", err)
	}

	record := &entity.DiagnosisRecord{
		Id:       uuid.New(),
		UserId:   userId,
		Type:     constant.DiagnosisTypeText,
		Symptoms: req.Symptoms,
		Answer:   answer,
		GatewayMeta: map[string]interface{}{
			"latency_ms": latency,
		},
		CreatedAt: time.Now(),
	}

	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	s.announce(ctx, events.TypeHistoryCreated, record)

	return &dto.AnalyzeTextResponse{Diagnosis: answer}, nil
}

func (s *diagnosisService) AnalyzeImage(ctx context.Context, userId uuid.UUID, filename, contentType string, data []byte) (*dto.AnalyzeImageResponse, error) {
	if len(data) == 0 {
		return nil, apperror.Validation("image", "image file required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	callCtx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	start := time.Now()
	answer, err := s.gateway.CompleteWithImage(callCtx, constant.ImageSystemPrompt, constant.ImageUserPrompt, dataURI,
		ai.WithMaxTokens(answerMaxTokens),
		ai.WithTemperature(0.7),
	)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		s.log.Error("diagnosis", "image analysis failed", map[string]interface{}{
			"user_id":    userId,
			"image_name": filename,
			"error":      err.Error(),
		})
		return nil, apperror.UpstreamGateway("failed to analyze image", err)
	}

	record := &entity.DiagnosisRecord{
		Id:        uuid.New(),
		UserId:    userId,
		Type:      constant.DiagnosisTypeImage,
		ImageName: filename,
		Answer:    answer,
		ImageData: dataURI,
		GatewayMeta: map[string]interface{}{
			"latency_ms": latency,
		},
		CreatedAt: time.Now(),
	}

	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	s.imageCache.Save(record)
	s.announce(ctx, events.TypeHistoryCreated, record)

	return &dto.AnalyzeImageResponse{
		Diagnosis: answer,
		ImageData: dataURI,
	}, nil
}

func (s *diagnosisService) GetImageRecord(ctx context.Context, userId uuid.UUID, imageName string) (*dto.ImageRecordResponse, error) {
	if strings.TrimSpace(imageName) == "" {
		return nil, apperror.Validation("imageName", "imageName is required")
	}

	record, found := s.imageCache.Get(userId, imageName)
	if !found {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		record, err = uow.DiagnosisRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByImageName{ImageName: imageName},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return nil, apperror.Persistence("failed to load image record", err)
		}
		if record == nil {
			return nil, apperror.NotFound("image record not found")
		}
		s.imageCache.Save(record)
	}

	return &dto.ImageRecordResponse{
		Success:   true,
		ImageData: record.ImageData,
		Diagnosis: record.Answer,
		ImageName: record.ImageName,
		CreatedAt: record.CreatedAt,
		MessageId: record.Id,
	}, nil
}

func (s *diagnosisService) TranscribeAudio(ctx context.Context, userId uuid.UUID, filename string, data []byte) (*dto.TranscribeAudioResponse, error) {
	if len(data) == 0 {
		return nil, apperror.Validation("audio", "audio file required")
	}

	callCtx, cancel := context.WithTimeout(ctx, transcriptionTimeout)
	defer cancel()

	start := time.Now()
	transcription, err := s.gateway.Transcribe(callCtx, filename, data)
	transcribeLatency := time.Since(start).Milliseconds()
	if err != nil {
		s.log.Error("diagnosis", "transcription failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, apperror.UpstreamGateway("could not transcribe audio", err)
	}
	transcription = strings.TrimSpace(transcription)
	if transcription == "" {
		return nil, apperror.UpstreamGateway("could not transcribe audio", nil)
	}

	// Second stage is best effort: a failed analysis still yields a record
	// with the transcription and an empty answer.
	var diagnosis *string
	answer, _, analyzeErr := s.analyzeSymptoms(ctx, transcription)
	if analyzeErr != nil {
		s.log.Warn("diagnosis", "analysis of transcription failed", map[string]interface{}{
			"user_id": userId,
			"error":   analyzeErr.Error(),
		})
		answer = ""
	} else {
		diagnosis = &answer
	}

	record := &entity.DiagnosisRecord{
		Id:                 uuid.New(),
		UserId:             userId,
		Type:               constant.DiagnosisTypeAudio,
		AudioTranscription: transcription,
		Answer:             answer,
		GatewayMeta: map[string]interface{}{
			"transcribe_latency_ms": transcribeLatency,
		},
		CreatedAt: time.Now(),
	}

	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	s.announce(ctx, events.TypeHistoryCreated, record)

	return &dto.TranscribeAudioResponse{
		Transcription: transcription,
		Diagnosis:     diagnosis,
	}, nil
}

func (s *diagnosisService) persist(ctx context.Context, record *entity.DiagnosisRecord) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DiagnosisRepository().Create(ctx, record); err != nil {
		s.log.Error("diagnosis", "failed to persist record", map[string]interface{}{
			"user_id": record.UserId,
			"type":    record.Type,
			"error":   err.Error(),
		})
		return apperror.Persistence("failed to save diagnosis record", err)
	}
	return nil
}

// announce publishes the history change event and the usage message. Both are
// auxiliary; failures are logged and never fail the request.
func (s *diagnosisService) announce(ctx context.Context, eventType string, record *entity.DiagnosisRecord) {
	if s.eventPublisher != nil {
		evt := events.NewHistoryEvent(eventType, record.UserId.String(), HistoryRecordPayload(record))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("diagnosis", "failed to publish history event", map[string]interface{}{
				"record_id": record.Id,
				"error":     err.Error(),
			})
		}
	}

	if s.publisherService != nil && eventType == events.TypeHistoryCreated {
		msg := dto.PublishUsageMessage{
			RecordId: record.Id,
			UserId:   record.UserId,
			Type:     record.Type,
		}
		msgJson, err := json.Marshal(msg)
		if err == nil {
			err = s.publisherService.Publish(ctx, msgJson)
		}
		if err != nil {
			s.log.Warn("diagnosis", "failed to publish usage message", map[string]interface{}{
				"record_id": record.Id,
				"error":     err.Error(),
			})
		}
	}
}

// HistoryRecordPayload is the wire form of a record inside history events and
// WebSocket pushes.
func HistoryRecordPayload(record *entity.DiagnosisRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":                 record.Id.String(),
		"type":               record.Type,
		"symptoms":           record.Symptoms,
		"imageName":          record.ImageName,
		"audioTranscription": record.AudioTranscription,
		"answer":             record.Answer,
		"createdAt":          record.CreatedAt.Format(time.RFC3339),
	}
}
