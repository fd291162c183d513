package mapper

import (
	"encoding/json"
	"time"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DiagnosisMapper struct{}

func NewDiagnosisMapper() *DiagnosisMapper {
	return &DiagnosisMapper{}
}

func (m *DiagnosisMapper) ToEntity(r *model.DiagnosisRecord) *entity.DiagnosisRecord {
	if r == nil {
		return nil
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	var meta map[string]interface{}
	if len(r.GatewayMeta) > 0 {
		// invalid stored metadata is dropped rather than failing the read
		_ = json.Unmarshal(r.GatewayMeta, &meta)
	}

	return &entity.DiagnosisRecord{
		Id:                 r.Id,
		UserId:             r.UserId,
		Type:               r.Type,
		Symptoms:           r.Symptoms,
		ImageName:          r.ImageName,
		AudioTranscription: r.AudioTranscription,
		Answer:             r.Answer,
		ImageData:          r.ImageData,
		GatewayMeta:        meta,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
		IsDeleted:          r.DeletedAt.Valid,
	}
}

func (m *DiagnosisMapper) ToModel(r *entity.DiagnosisRecord) *model.DiagnosisRecord {
	if r == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	} else if r.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	var meta datatypes.JSON
	if r.GatewayMeta != nil {
		if raw, err := json.Marshal(r.GatewayMeta); err == nil {
			meta = datatypes.JSON(raw)
		}
	}

	return &model.DiagnosisRecord{
		Id:                 r.Id,
		UserId:             r.UserId,
		Type:               r.Type,
		Symptoms:           r.Symptoms,
		ImageName:          r.ImageName,
		AudioTranscription: r.AudioTranscription,
		Answer:             r.Answer,
		ImageData:          r.ImageData,
		GatewayMeta:        meta,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
	}
}

func (m *DiagnosisMapper) ToEntities(records []*model.DiagnosisRecord) []*entity.DiagnosisRecord {
	entities := make([]*entity.DiagnosisRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *DiagnosisMapper) ToModels(records []*entity.DiagnosisRecord) []*model.DiagnosisRecord {
	models := make([]*model.DiagnosisRecord, len(records))
	for i, r := range records {
		models[i] = m.ToModel(r)
	}
	return models
}
