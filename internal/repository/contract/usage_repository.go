package contract

import (
	"context"
	"time"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UsageRepository interface {
	// Increment bumps the counter for (userId, day, diagnosisType), creating
	// the row when missing.
	Increment(ctx context.Context, userId uuid.UUID, day time.Time, diagnosisType string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageCounter, error)
}
