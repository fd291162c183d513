package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"symptom-checker-be/internal/constant"
	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/pkg/apperror"
	"symptom-checker-be/internal/repository/contract"
	"symptom-checker-be/internal/repository/memory"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/ai"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeGateway struct {
	completeCalls   int
	transcribeCalls int

	completeFn   func(systemPrompt, userPrompt string) (string, error)
	imageFn      func(systemPrompt, userPrompt, dataURI string) (string, error)
	transcribeFn func(filename string, audio []byte) (string, error)
}

func (g *fakeGateway) Complete(_ context.Context, systemPrompt, userPrompt string, _ ...ai.Option) (string, error) {
	g.completeCalls++
	if g.completeFn != nil {
		return g.completeFn(systemPrompt, userPrompt)
	}
	return "", errors.New("not configured")
}

func (g *fakeGateway) CompleteWithImage(_ context.Context, systemPrompt, userPrompt, dataURI string, _ ...ai.Option) (string, error) {
	if g.imageFn != nil {
		return g.imageFn(systemPrompt, userPrompt, dataURI)
	}
	return "", errors.New("not configured")
}

func (g *fakeGateway) Transcribe(_ context.Context, filename string, audio []byte) (string, error) {
	g.transcribeCalls++
	if g.transcribeFn != nil {
		return g.transcribeFn(filename, audio)
	}
	return "", errors.New("not configured")
}

type fakeDiagnosisRepo struct {
	records   []*entity.DiagnosisRecord
	createErr error
	findOne   *entity.DiagnosisRecord
}

func (r *fakeDiagnosisRepo) Create(_ context.Context, record *entity.DiagnosisRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeDiagnosisRepo) Update(_ context.Context, record *entity.DiagnosisRecord) error {
	return nil
}

func (r *fakeDiagnosisRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeDiagnosisRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.DiagnosisRecord, error) {
	return r.findOne, nil
}

func (r *fakeDiagnosisRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.DiagnosisRecord, error) {
	return r.records, nil
}

func (r *fakeDiagnosisRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.records)), nil
}

type fakeUow struct {
	diagRepo *fakeDiagnosisRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository           { return nil }
func (u *fakeUow) DiagnosisRepository() contract.DiagnosisRepository { return u.diagRepo }
func (u *fakeUow) UsageRepository() contract.UsageRepository         { return nil }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newTestDiagnosisService(gateway *fakeGateway, repo *fakeDiagnosisRepo) (IDiagnosisService, *memory.ImageCache) {
	cache := memory.NewImageCache()
	svc := NewDiagnosisService(
		&fakeFactory{uow: &fakeUow{diagRepo: repo}},
		gateway,
		nil,
		nil,
		cache,
		nopLogger{},
	)
	return svc, cache
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
}

func TestAnalyzeText(t *testing.T) {
	userId := uuid.New()

	t.Run("success persists record before responding", func(t *testing.T) {
		gateway := &fakeGateway{
			completeFn: func(systemPrompt, userPrompt string) (string, error) {
				assert.Equal(t, constant.SymptomSystemPrompt, systemPrompt)
				assert.Contains(t, userPrompt, "fever and chills")
				return "Possible flu (70% confidence).", nil
			},
		}
		repo := &fakeDiagnosisRepo{}
		svc, _ := newTestDiagnosisService(gateway, repo)

		res, err := svc.AnalyzeText(context.Background(), userId, &dto.AnalyzeTextRequest{Symptoms: "fever and chills"})
		require.NoError(t, err)
		assert.Equal(t, "Possible flu (70% confidence).", res.Diagnosis)

		require.Len(t, repo.records, 1)
		record := repo.records[0]
		assert.Equal(t, constant.DiagnosisTypeText, record.Type)
		assert.Equal(t, "fever and chills", record.Symptoms)
		assert.Equal(t, "Possible flu (70% confidence).", record.Answer)
		assert.Equal(t, userId, record.UserId)
		assert.Contains(t, record.GatewayMeta, "latency_ms")
	})

	t.Run("empty symptoms rejected without gateway call", func(t *testing.T) {
		gateway := &fakeGateway{}
		repo := &fakeDiagnosisRepo{}
		svc, _ := newTestDiagnosisService(gateway, repo)

		_, err := svc.AnalyzeText(context.Background(), userId, &dto.AnalyzeTextRequest{Symptoms: "   "})
		assertKind(t, err, apperror.KindValidationFailed)
		assert.Equal(t, 0, gateway.completeCalls)
		assert.Empty(t, repo.records)
	})

	t.Run("gateway failure persists nothing", func(t *testing.T) {
		gateway := &fakeGateway{
			completeFn: func(string, string) (string, error) {
				return "", errors.New("upstream 503")
			},
		}
		repo := &fakeDiagnosisRepo{}
		svc, _ := newTestDiagnosisService(gateway, repo)

		_, err := svc.AnalyzeText(context.Background(), userId, &dto.AnalyzeTextRequest{Symptoms: "fever"})
		assertKind(t, err, apperror.KindUpstreamGateway)
		assert.Empty(t, repo.records)
	})

	t.Run("persist failure surfaces as persistence error", func(t *testing.T) {
		gateway := &fakeGateway{
			completeFn: func(string, string) (string, error) { return "ok", nil },
		}
		repo := &fakeDiagnosisRepo{createErr: errors.New("db down")}
		svc, _ := newTestDiagnosisService(gateway, repo)

		_, err := svc.AnalyzeText(context.Background(), userId, &dto.AnalyzeTextRequest{Symptoms: "fever"})
		assertKind(t, err, apperror.KindPersistence)
	})
}

func TestAnalyzeImage(t *testing.T) {
	userId := uuid.New()

	t.Run("success embeds data uri and caches the record", func(t *testing.T) {
		gateway := &fakeGateway{
			imageFn: func(_, _, dataURI string) (string, error) {
				assert.True(t, strings.HasPrefix(dataURI, "data:image/png;base64,"))
				return "Looks like a rash.", nil
			},
		}
		repo := &fakeDiagnosisRepo{}
		svc, cache := newTestDiagnosisService(gateway, repo)

		res, err := svc.AnalyzeImage(context.Background(), userId, "rash.png", "image/png", []byte{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, "Looks like a rash.", res.Diagnosis)
		assert.True(t, strings.HasPrefix(res.ImageData, "data:image/png;base64,"))

		require.Len(t, repo.records, 1)
		assert.Equal(t, constant.DiagnosisTypeImage, repo.records[0].Type)
		assert.Equal(t, "rash.png", repo.records[0].ImageName)

		cached, found := cache.Get(userId, "rash.png")
		require.True(t, found)
		assert.Equal(t, repo.records[0].Id, cached.Id)
	})

	t.Run("missing payload rejected", func(t *testing.T) {
		svc, _ := newTestDiagnosisService(&fakeGateway{}, &fakeDiagnosisRepo{})

		_, err := svc.AnalyzeImage(context.Background(), userId, "x.png", "image/png", nil)
		assertKind(t, err, apperror.KindValidationFailed)
	})
}

func TestGetImageRecord(t *testing.T) {
	userId := uuid.New()

	t.Run("cache miss falls through to repository", func(t *testing.T) {
		stored := &entity.DiagnosisRecord{
			Id:        uuid.New(),
			UserId:    userId,
			Type:      constant.DiagnosisTypeImage,
			ImageName: "rash.png",
			ImageData: "data:image/png;base64,AAAA",
			Answer:    "Contact dermatitis.",
		}
		repo := &fakeDiagnosisRepo{findOne: stored}
		svc, _ := newTestDiagnosisService(&fakeGateway{}, repo)

		res, err := svc.GetImageRecord(context.Background(), userId, "rash.png")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "rash.png", res.ImageName)
		assert.Equal(t, "Contact dermatitis.", res.Diagnosis)
		assert.Equal(t, stored.Id, res.MessageId)
	})

	t.Run("unknown image yields not found", func(t *testing.T) {
		svc, _ := newTestDiagnosisService(&fakeGateway{}, &fakeDiagnosisRepo{})

		_, err := svc.GetImageRecord(context.Background(), userId, "missing.png")
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		svc, _ := newTestDiagnosisService(&fakeGateway{}, &fakeDiagnosisRepo{})

		_, err := svc.GetImageRecord(context.Background(), userId, " ")
		assertKind(t, err, apperror.KindValidationFailed)
	})
}

func TestTranscribeAudio(t *testing.T) {
	userId := uuid.New()

	t.Run("transcription failure persists nothing", func(t *testing.T) {
		gateway := &fakeGateway{
			transcribeFn: func(string, []byte) (string, error) {
				return "", errors.New("whisper down")
			},
		}
		repo := &fakeDiagnosisRepo{}
		svc, _ := newTestDiagnosisService(gateway, repo)

		_, err := svc.TranscribeAudio(context.Background(), userId, "recording.wav", []byte{1})
		assertKind(t, err, apperror.KindUpstreamGateway)
		assert.Empty(t, repo.records)
	})

	t.Run("empty transcription treated as gateway failure", func(t *testing.T) {
		gateway := &fakeGateway{
			transcribeFn: func(string, []byte) (string, error) { return "  \n", nil },
		}
		repo := &fakeDiagnosisRepo{}
		svc, _ := newTestDiagnosisService(gateway, repo)

		_, err := svc.TranscribeAudio(context.Background(), userId, "recording.wav", []byte{1})
		assertKind(t, err, apperror.KindUpstreamGateway)
		assert.Empty(t, repo.records)
	})

	t.Run("analysis failure degrades to null diagnosis", func(t *testing.T) {
		gateway := &fakeGateway{
			transcribeFn: func(string, []byte) (string, error) {
				return "I have a headache", nil
			},
			completeFn: func(string, string) (string, error) {
				return "", errors.New("chat model down")
			},
		}
		repo := &fakeDiagnosisRepo{}
		svc, _ := newTestDiagnosisService(gateway, repo)

		res, err := svc.TranscribeAudio(context.Background(), userId, "recording.wav", []byte{1})
		require.NoError(t, err)
		assert.Equal(t, "I have a headache", res.Transcription)
		assert.Nil(t, res.Diagnosis)

		require.Len(t, repo.records, 1)
		record := repo.records[0]
		assert.Equal(t, constant.DiagnosisTypeAudio, record.Type)
		assert.Equal(t, "I have a headache", record.AudioTranscription)
		assert.Equal(t, "", record.Answer)
	})

	t.Run("full chain persists transcription and answer", func(t *testing.T) {
		gateway := &fakeGateway{
			transcribeFn: func(filename string, _ []byte) (string, error) {
				assert.Equal(t, "recording.wav", filename)
				return "I have a headache", nil
			},
			completeFn: func(_, userPrompt string) (string, error) {
				assert.Contains(t, userPrompt, "I have a headache")
				return "Likely tension headache.", nil
			},
		}
		repo := &fakeDiagnosisRepo{}
		svc, _ := newTestDiagnosisService(gateway, repo)

		res, err := svc.TranscribeAudio(context.Background(), userId, "recording.wav", []byte{1})
		require.NoError(t, err)
		assert.Equal(t, "I have a headache", res.Transcription)
		require.NotNil(t, res.Diagnosis)
		assert.Equal(t, "Likely tension headache.", *res.Diagnosis)

		require.Len(t, repo.records, 1)
		assert.Equal(t, "Likely tension headache.", repo.records[0].Answer)
	})
}
