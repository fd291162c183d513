package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiagnosisRecord is one completed analysis exchange. Exactly one of
// Symptoms, ImageName or AudioTranscription is populated depending on Type.
type DiagnosisRecord struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	Type               string // text | image | audio
	Symptoms           string
	ImageName          string
	AudioTranscription string
	Answer             string
	ImageData          string // data URI, image records only
	GatewayMeta        map[string]interface{}
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
	IsDeleted          bool
}
