package implementation

import (
	"context"
	"errors"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/mapper"
	"symptom-checker-be/internal/model"
	"symptom-checker-be/internal/repository/contract"
	"symptom-checker-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiagnosisRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DiagnosisMapper
}

func NewDiagnosisRepository(db *gorm.DB) contract.DiagnosisRepository {
	return &DiagnosisRepositoryImpl{
		db:     db,
		mapper: mapper.NewDiagnosisMapper(),
	}
}

func (r *DiagnosisRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DiagnosisRepositoryImpl) Create(ctx context.Context, record *entity.DiagnosisRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *DiagnosisRepositoryImpl) Update(ctx context.Context, record *entity.DiagnosisRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *DiagnosisRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DiagnosisRecord{}, id).Error
}

func (r *DiagnosisRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiagnosisRecord, error) {
	var m model.DiagnosisRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DiagnosisRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiagnosisRecord, error) {
	var models []*model.DiagnosisRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DiagnosisRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DiagnosisRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
