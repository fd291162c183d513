package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrBusy              = errors.New("a submission is already in flight")
	ErrMissingAttachment = errors.New("attachment is required for this modality")
)

// Attachment is the binary payload of an image or audio submission.
type Attachment struct {
	Name string
	Data []byte
}

// Handler is the boundary to the request handlers. Implementations must be
// safe for use from a single session at a time.
type Handler interface {
	AnalyzeText(ctx context.Context, symptoms string) (diagnosis string, err error)
	AnalyzeImage(ctx context.Context, att Attachment) (diagnosis string, imageRef string, err error)
	TranscribeAudio(ctx context.Context, att Attachment) (transcription string, diagnosis *string, err error)
}

// Session holds the ordered message sequence for the active view. At most one
// submission is in flight at a time; selecting a history record bumps the
// session version so a stale completion cannot clobber the new sequence.
type Session struct {
	mu       sync.Mutex
	handler  Handler
	messages []Message
	inFlight bool
	version  uint64
	seq      int64
}

func NewSession(handler Handler) *Session {
	return &Session{handler: handler}
}

// Messages returns a snapshot of the current sequence.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// InFlight reports whether a submission is awaiting its settle.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Submit appends an optimistic user message, dispatches exactly one handler
// call for the modality, and settles with exactly one assistant message.
// Empty text is a no-op. Gateway failures never surface as errors; they
// collapse into the fixed apology assistant message. The in-flight gate is
// released on every path.
func (s *Session) Submit(ctx context.Context, content string, modality Modality, att *Attachment) error {
	if modality == ModalityText && strings.TrimSpace(content) == "" {
		return nil
	}
	if modality != ModalityText && (att == nil || len(att.Data) == 0) {
		return ErrMissingAttachment
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	s.inFlight = true
	version := s.version

	userMsg := s.newMessage(RoleUser, modality, content)
	switch modality {
	case ModalityAudio:
		userMsg.Transcription = PendingTranscription
	case ModalityImage:
		userMsg.Image = &ImageRef{State: ImagePending, Ref: att.Name}
	}
	s.messages = append(s.messages, userMsg)
	userID := userMsg.ID
	s.mu.Unlock()

	// A panicking handler must not leave the in-flight gate stuck; treat it
	// like any other failed exchange.
	defer func() {
		if r := recover(); r != nil {
			s.settle(version, userID, modality, "", "", "", fmt.Errorf("handler panic: %v", r))
		}
	}()

	answer, transcription, imageRef, err := s.dispatch(ctx, content, modality, att)

	s.settle(version, userID, modality, answer, transcription, imageRef, err)
	return nil
}

func (s *Session) dispatch(ctx context.Context, content string, modality Modality, att *Attachment) (answer, transcription, imageRef string, err error) {
	switch modality {
	case ModalityText:
		answer, err = s.handler.AnalyzeText(ctx, content)
	case ModalityImage:
		answer, imageRef, err = s.handler.AnalyzeImage(ctx, *att)
	case ModalityAudio:
		var diagnosis *string
		transcription, diagnosis, err = s.handler.TranscribeAudio(ctx, *att)
		if diagnosis != nil {
			answer = *diagnosis
		}
	default:
		err = errors.New("unknown modality")
	}
	return answer, transcription, imageRef, err
}

func (s *Session) settle(version uint64, userID string, modality Modality, answer, transcription, imageRef string, callErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	// The sequence was replaced while this call was in flight; drop the result.
	if s.version != version {
		return
	}

	if callErr == nil {
		for i := range s.messages {
			if s.messages[i].ID != userID {
				continue
			}
			switch modality {
			case ModalityAudio:
				s.messages[i].Transcription = transcription
			case ModalityImage:
				s.messages[i].Image = &ImageRef{State: ImageConfirmed, Ref: imageRef}
			}
			break
		}
	}

	content := answer
	if callErr != nil {
		content = ErrorAnswer
	} else if content == "" {
		content = FallbackAnswer
	}
	s.messages = append(s.messages, s.newMessage(RoleAssistant, ModalityText, content))
}

// SelectRecord replaces the sequence wholesale with the two messages
// reconstructed from a past exchange. Any in-flight submission settling after
// this point is discarded.
func (s *Session) SelectRecord(record HistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++

	userContent := record.Symptoms
	switch record.Type {
	case ModalityImage:
		if record.ImageName != "" {
			userContent = record.ImageName
		}
	case ModalityAudio:
		if record.AudioTranscription != "" {
			userContent = record.AudioTranscription
		}
	}
	if userContent == "" {
		userContent = "(no symptoms provided)"
	}

	answer := record.Answer
	if answer == "" {
		answer = "(no diagnosis)"
	}

	userMsg := s.newMessage(RoleUser, record.Type, userContent)
	if record.Type == ModalityAudio {
		userMsg.Transcription = record.AudioTranscription
	}
	if record.Type == ModalityImage && record.ImageName != "" {
		userMsg.Image = &ImageRef{State: ImageConfirmed, Ref: record.ImageName}
	}

	s.messages = []Message{userMsg, s.newMessage(RoleAssistant, ModalityText, answer)}
}

// Reset clears the sequence for a fresh conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.messages = nil
}

// newMessage must be called with s.mu held.
func (s *Session) newMessage(role Role, modality Modality, content string) Message {
	s.seq++
	return Message{
		ID:        messageID(s.seq),
		Role:      role,
		Modality:  modality,
		Content:   content,
		CreatedAt: timeNow(),
	}
}
