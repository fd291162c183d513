// Package chat implements the client-side chat session: the ordered message
// sequence, the single in-flight submit gate, and the audio recording state
// machine that feeds it.
package chat

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
	ModalityAudio Modality = "audio"
)

const (
	// FallbackAnswer is shown when a handler responds without a diagnosis.
	FallbackAnswer = "Sorry, I couldn't process your request."
	// ErrorAnswer is the synthetic assistant message for any failed exchange.
	ErrorAnswer = "Sorry, there was an error processing your request. Please try again."
	// PendingTranscription marks an audio message whose transcription has not settled.
	PendingTranscription = "pending"
)

type ImageState string

const (
	ImagePending   ImageState = "pending"
	ImageConfirmed ImageState = "confirmed"
)

// ImageRef tracks an image attachment from its optimistic local reference to
// the server-confirmed one.
type ImageRef struct {
	State ImageState
	Ref   string
}

type Message struct {
	ID            string
	Role          Role
	Modality      Modality
	Content       string
	Transcription string
	Image         *ImageRef
	CreatedAt     time.Time
}

// timeNow is swappable in tests.
var timeNow = time.Now

func messageID(seq int64) string {
	return fmt.Sprintf("%d-%d", timeNow().UnixMilli(), seq)
}

// HistoryRecord is a persisted exchange as returned by the history API,
// used to rebuild a session when the user selects a past entry.
type HistoryRecord struct {
	ID                 string
	Type               Modality
	Symptoms           string
	ImageName          string
	AudioTranscription string
	Answer             string
	CreatedAt          time.Time
}
