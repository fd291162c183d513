package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalyzeTextRequest struct {
	Symptoms string `json:"symptoms" validate:"required"`
}

type AnalyzeTextResponse struct {
	Diagnosis string `json:"diagnosis"`
}

type AnalyzeImageResponse struct {
	Diagnosis string `json:"diagnosis"`
	ImageData string `json:"imageData"`
}

type ImageRecordResponse struct {
	Success   bool      `json:"success"`
	ImageData string    `json:"imageData"`
	Diagnosis string    `json:"diagnosis"`
	ImageName string    `json:"imageName"`
	CreatedAt time.Time `json:"createdAt"`
	MessageId uuid.UUID `json:"messageId"`
}

// Diagnosis is null when transcription succeeded but the follow-up analysis
// did not.
type TranscribeAudioResponse struct {
	Transcription string  `json:"transcription"`
	Diagnosis     *string `json:"diagnosis"`
}

// PublishUsageMessage rides the in-process bus to the usage counter consumer.
type PublishUsageMessage struct {
	RecordId uuid.UUID `json:"record_id"`
	UserId   uuid.UUID `json:"user_id"`
	Type     string    `json:"type"`
}
