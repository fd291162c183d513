package dto

import (
	"time"

	"github.com/google/uuid"
)

type HistoryRecordResponse struct {
	Id                 uuid.UUID  `json:"id"`
	Type               string     `json:"type"`
	Symptoms           string     `json:"symptoms,omitempty"`
	ImageName          string     `json:"imageName,omitempty"`
	AudioTranscription string     `json:"audioTranscription,omitempty"`
	Answer             string     `json:"answer"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

type UpdateSymptomsRequest struct {
	Id       uuid.UUID
	Symptoms string `json:"symptoms" validate:"required"`
}

type UsageCounterResponse struct {
	Day   time.Time `json:"day"`
	Type  string    `json:"type"`
	Count int       `json:"count"`
}
