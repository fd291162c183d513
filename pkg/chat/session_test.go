package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	mu         sync.Mutex
	textCalls  int
	imageCalls int
	audioCalls int

	textFn  func(symptoms string) (string, error)
	imageFn func(att Attachment) (string, string, error)
	audioFn func(att Attachment) (string, *string, error)
}

func (f *fakeHandler) AnalyzeText(_ context.Context, symptoms string) (string, error) {
	f.mu.Lock()
	f.textCalls++
	f.mu.Unlock()
	if f.textFn != nil {
		return f.textFn(symptoms)
	}
	return "", nil
}

func (f *fakeHandler) AnalyzeImage(_ context.Context, att Attachment) (string, string, error) {
	f.mu.Lock()
	f.imageCalls++
	f.mu.Unlock()
	if f.imageFn != nil {
		return f.imageFn(att)
	}
	return "", "", nil
}

func (f *fakeHandler) TranscribeAudio(_ context.Context, att Attachment) (string, *string, error) {
	f.mu.Lock()
	f.audioCalls++
	f.mu.Unlock()
	if f.audioFn != nil {
		return f.audioFn(att)
	}
	return "", nil, nil
}

func (f *fakeHandler) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textCalls + f.imageCalls + f.audioCalls
}

func TestSubmitTextAppendsUserThenAssistant(t *testing.T) {
	handler := &fakeHandler{
		textFn: func(symptoms string) (string, error) {
			return "Possible flu (70% confidence). Rest and hydrate.", nil
		},
	}
	session := NewSession(handler)

	err := session.Submit(context.Background(), "fever and chills", ModalityText, nil)
	require.NoError(t, err)

	messages := session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, RoleUser, messages[0].Role)
	assert.Equal(t, "fever and chills", messages[0].Content)
	assert.Equal(t, RoleAssistant, messages[1].Role)
	assert.Equal(t, "Possible flu (70% confidence). Rest and hydrate.", messages[1].Content)
	assert.False(t, session.InFlight())
}

func TestSubmitEmptyTextIsNoOp(t *testing.T) {
	tests := []string{"", "   ", "\n\t "}

	for _, symptoms := range tests {
		handler := &fakeHandler{}
		session := NewSession(handler)

		err := session.Submit(context.Background(), symptoms, ModalityText, nil)
		assert.NoError(t, err)
		assert.Empty(t, session.Messages())
		assert.Equal(t, 0, handler.calls())
	}
}

func TestSubmitMissingAttachment(t *testing.T) {
	session := NewSession(&fakeHandler{})

	err := session.Submit(context.Background(), "Image: x.png", ModalityImage, nil)
	assert.ErrorIs(t, err, ErrMissingAttachment)

	err = session.Submit(context.Background(), "Voice recording", ModalityAudio, &Attachment{Name: "a.wav"})
	assert.ErrorIs(t, err, ErrMissingAttachment)

	assert.Empty(t, session.Messages())
}

func TestSubmitFailureAppendsApology(t *testing.T) {
	handler := &fakeHandler{
		textFn: func(string) (string, error) {
			return "", errors.New("gateway down")
		},
	}
	session := NewSession(handler)

	err := session.Submit(context.Background(), "fever", ModalityText, nil)
	require.NoError(t, err)

	messages := session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, RoleAssistant, messages[1].Role)
	assert.Equal(t, ErrorAnswer, messages[1].Content)
	assert.False(t, session.InFlight())
}

func TestSubmitEmptyDiagnosisFallsBack(t *testing.T) {
	handler := &fakeHandler{
		textFn: func(string) (string, error) { return "", nil },
	}
	session := NewSession(handler)

	require.NoError(t, session.Submit(context.Background(), "fever", ModalityText, nil))

	messages := session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, FallbackAnswer, messages[1].Content)
}

func TestSubmitImageConfirmsReference(t *testing.T) {
	handler := &fakeHandler{
		imageFn: func(att Attachment) (string, string, error) {
			return "Looks like a rash.", "data:image/png;base64,AAAA", nil
		},
	}
	session := NewSession(handler)

	att := &Attachment{Name: "rash.png", Data: []byte{1, 2, 3}}
	require.NoError(t, session.Submit(context.Background(), "Image: rash.png", ModalityImage, att))

	messages := session.Messages()
	require.Len(t, messages, 2)
	require.NotNil(t, messages[0].Image)
	assert.Equal(t, ImageConfirmed, messages[0].Image.State)
	assert.Equal(t, "data:image/png;base64,AAAA", messages[0].Image.Ref)
}

func TestSubmitAudioSettlesTranscription(t *testing.T) {
	t.Run("with diagnosis", func(t *testing.T) {
		diagnosis := "Likely tension headache."
		handler := &fakeHandler{
			audioFn: func(Attachment) (string, *string, error) {
				return "I have a headache", &diagnosis, nil
			},
		}
		session := NewSession(handler)

		att := &Attachment{Name: "recording.wav", Data: []byte{1}}
		require.NoError(t, session.Submit(context.Background(), "Voice recording", ModalityAudio, att))

		messages := session.Messages()
		require.Len(t, messages, 2)
		assert.Equal(t, "I have a headache", messages[0].Transcription)
		assert.Equal(t, diagnosis, messages[1].Content)
	})

	t.Run("downstream analysis failed", func(t *testing.T) {
		handler := &fakeHandler{
			audioFn: func(Attachment) (string, *string, error) {
				return "I have a headache", nil, nil
			},
		}
		session := NewSession(handler)

		att := &Attachment{Name: "recording.wav", Data: []byte{1}}
		require.NoError(t, session.Submit(context.Background(), "Voice recording", ModalityAudio, att))

		messages := session.Messages()
		require.Len(t, messages, 2)
		assert.Equal(t, "I have a headache", messages[0].Transcription)
		assert.Equal(t, FallbackAnswer, messages[1].Content)
	})
}

func TestSubmitReleasesGateWhenHandlerPanics(t *testing.T) {
	handler := &fakeHandler{
		textFn: func(string) (string, error) {
			panic("handler blew up")
		},
	}
	session := NewSession(handler)

	err := session.Submit(context.Background(), "fever", ModalityText, nil)
	require.NoError(t, err)

	messages := session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, RoleAssistant, messages[1].Role)
	assert.Equal(t, ErrorAnswer, messages[1].Content)
	assert.False(t, session.InFlight())

	// The submit surface must still be usable afterwards.
	handler.textFn = func(string) (string, error) { return "recovered", nil }
	require.NoError(t, session.Submit(context.Background(), "chills", ModalityText, nil))
	messages = session.Messages()
	require.Len(t, messages, 4)
	assert.Equal(t, "recovered", messages[3].Content)
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	handler := &fakeHandler{
		textFn: func(string) (string, error) {
			close(started)
			<-release
			return "done", nil
		},
	}
	session := NewSession(handler)

	doneFirst := make(chan error, 1)
	go func() {
		doneFirst <- session.Submit(context.Background(), "fever", ModalityText, nil)
	}()

	<-started
	err := session.Submit(context.Background(), "chills", ModalityText, nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-doneFirst)

	assert.Equal(t, 1, handler.calls())
	assert.Len(t, session.Messages(), 2)
	assert.False(t, session.InFlight())
}

func TestSelectRecordIsIdempotent(t *testing.T) {
	session := NewSession(&fakeHandler{})
	record := HistoryRecord{
		ID:        "abc",
		Type:      ModalityText,
		Symptoms:  "fever and chills",
		Answer:    "Possible flu.",
		CreatedAt: time.Now(),
	}

	session.SelectRecord(record)
	first := session.Messages()

	session.SelectRecord(record)
	second := session.Messages()

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].Role, second[i].Role)
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.Equal(t, first[i].Modality, second[i].Modality)
	}
}

func TestSelectRecordModalities(t *testing.T) {
	session := NewSession(&fakeHandler{})

	t.Run("audio uses transcription", func(t *testing.T) {
		session.SelectRecord(HistoryRecord{
			Type:               ModalityAudio,
			AudioTranscription: "I have a headache",
			Answer:             "Hydrate and rest.",
		})
		messages := session.Messages()
		require.Len(t, messages, 2)
		assert.Equal(t, "I have a headache", messages[0].Content)
		assert.Equal(t, "I have a headache", messages[0].Transcription)
	})

	t.Run("image uses name with confirmed ref", func(t *testing.T) {
		session.SelectRecord(HistoryRecord{
			Type:      ModalityImage,
			ImageName: "rash.png",
			Answer:    "Contact dermatitis.",
		})
		messages := session.Messages()
		require.Len(t, messages, 2)
		assert.Equal(t, "rash.png", messages[0].Content)
		require.NotNil(t, messages[0].Image)
		assert.Equal(t, ImageConfirmed, messages[0].Image.State)
	})

	t.Run("empty fields fall back to placeholders", func(t *testing.T) {
		session.SelectRecord(HistoryRecord{Type: ModalityText})
		messages := session.Messages()
		require.Len(t, messages, 2)
		assert.Equal(t, "(no symptoms provided)", messages[0].Content)
		assert.Equal(t, "(no diagnosis)", messages[1].Content)
	})
}

func TestStaleCompletionIsDiscardedAfterSelect(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	handler := &fakeHandler{
		textFn: func(string) (string, error) {
			close(started)
			<-release
			return "late answer", nil
		},
	}
	session := NewSession(handler)

	done := make(chan error, 1)
	go func() {
		done <- session.Submit(context.Background(), "fever", ModalityText, nil)
	}()

	<-started
	session.SelectRecord(HistoryRecord{
		Type:     ModalityText,
		Symptoms: "old entry",
		Answer:   "old answer",
	})

	close(release)
	require.NoError(t, <-done)

	messages := session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "old entry", messages[0].Content)
	assert.Equal(t, "old answer", messages[1].Content)
	assert.False(t, session.InFlight())
}

func TestResetClearsSequence(t *testing.T) {
	handler := &fakeHandler{
		textFn: func(string) (string, error) { return "ok", nil },
	}
	session := NewSession(handler)
	require.NoError(t, session.Submit(context.Background(), "fever", ModalityText, nil))
	require.Len(t, session.Messages(), 2)

	session.Reset()
	assert.Empty(t, session.Messages())
}
