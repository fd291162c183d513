package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DiagnosisRecord struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type               string         `gorm:"type:varchar(20);not null;index"`
	Symptoms           string         `gorm:"type:text"`
	ImageName          string         `gorm:"type:varchar(255);index"`
	AudioTranscription string         `gorm:"type:text"`
	Answer             string         `gorm:"type:text"`
	ImageData          string         `gorm:"type:text"`
	GatewayMeta        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (DiagnosisRecord) TableName() string {
	return "diagnosis_records"
}
