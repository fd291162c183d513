package contract

import (
	"context"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DiagnosisRepository interface {
	Create(ctx context.Context, record *entity.DiagnosisRecord) error
	Update(ctx context.Context, record *entity.DiagnosisRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiagnosisRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiagnosisRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
