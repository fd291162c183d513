package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.DiagnosisRepository())
	assert.NotNil(t, uow.UsageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	ctx := context.Background()
	userId := uuid.New()

	user := &entity.User{
		Id:       userId,
		Email:    "test-integration-" + uuid.New().String() + "@example.com",
		FullName: "Integration Test User",
		Status:   entity.UserStatusActive,
	}
	err = uow.UserRepository().Create(ctx, user)
	require.NoError(t, err)

	t.Run("Diagnosis record round trip", func(t *testing.T) {
		record := &entity.DiagnosisRecord{
			Id:       uuid.New(),
			UserId:   userId,
			Type:     "text",
			Symptoms: "integration test symptoms",
			Answer:   "integration test answer",
			GatewayMeta: map[string]interface{}{
				"latency_ms": int64(42),
			},
			CreatedAt: time.Now(),
		}

		err := uow.DiagnosisRepository().Create(ctx, record)
		require.NoError(t, err)

		found, err := uow.DiagnosisRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, record.Id, found.Id)
		assert.Equal(t, "integration test symptoms", found.Symptoms)
	})

	t.Run("Usage counter upsert increments", func(t *testing.T) {
		day := time.Now().UTC()

		err := uow.UsageRepository().Increment(ctx, userId, day, "text")
		require.NoError(t, err)
		err = uow.UsageRepository().Increment(ctx, userId, day, "text")
		require.NoError(t, err)

		counters, err := uow.UsageRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
		require.NoError(t, err)
		require.Len(t, counters, 1)
		assert.Equal(t, 2, counters[0].Count)
	})

	t.Run("Transactional create rolls back", func(t *testing.T) {
		txUow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, txUow.Begin(ctx))

		recordId := uuid.New()
		record := &entity.DiagnosisRecord{
			Id:       recordId,
			UserId:   userId,
			Type:     "text",
			Symptoms: "rolled back",
			Answer:   "rolled back",
		}
		require.NoError(t, txUow.DiagnosisRepository().Create(ctx, record))
		require.NoError(t, txUow.Rollback())

		found, err := uow.DiagnosisRepository().FindOne(ctx, specification.ByID{ID: recordId})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
