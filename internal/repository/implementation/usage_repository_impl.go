package implementation

import (
	"context"
	"time"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/mapper"
	"symptom-checker-be/internal/model"
	"symptom-checker-be/internal/repository/contract"
	"symptom-checker-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageRepository(db *gorm.DB) contract.UsageRepository {
	return &UsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *UsageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageRepositoryImpl) Increment(ctx context.Context, userId uuid.UUID, day time.Time, diagnosisType string) error {
	counter := model.UsageCounter{
		Id:     uuid.New(),
		UserId: userId,
		Day:    day.UTC().Truncate(24 * time.Hour),
		Type:   diagnosisType,
		Count:  1,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}, {Name: "type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("usage_counters.count + 1")}),
	}).Create(&counter).Error
}

func (r *UsageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageCounter, error) {
	var models []*model.UsageCounter
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
