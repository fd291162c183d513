package chat

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

type RecorderState string

const (
	RecorderIdle      RecorderState = "idle"
	RecorderRecording RecorderState = "recording"
)

var ErrDeviceUnavailable = errors.New("audio capture device unavailable")

// Device is an audio capture source. Open acquires the device and returns a
// stream of audio bytes; closing the stream releases the device.
type Device interface {
	Open() (io.ReadCloser, error)
}

// Recorder buffers audio from a capture device and delivers the finished clip
// to a sink exactly once per recording. Only one recording can be active;
// Start while already recording is a no-op so a second device handle is never
// acquired.
type Recorder struct {
	mu     sync.Mutex
	device Device
	sink   func(Attachment)

	state  RecorderState
	stream io.ReadCloser
	buf    *bytes.Buffer
	done   chan struct{}
}

func NewRecorder(device Device, sink func(Attachment)) *Recorder {
	return &Recorder{
		device: device,
		sink:   sink,
		state:  RecorderIdle,
	}
}

func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start acquires the device and begins buffering. From any state other than
// Idle it is a no-op. On acquisition failure the state stays Idle.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecorderIdle {
		return nil
	}

	stream, err := r.device.Open()
	if err != nil {
		return err
	}
	if stream == nil {
		return ErrDeviceUnavailable
	}

	r.stream = stream
	r.buf = &bytes.Buffer{}
	r.done = make(chan struct{})
	r.state = RecorderRecording

	go func(stream io.Reader, buf *bytes.Buffer, done chan struct{}) {
		io.Copy(buf, stream)
		close(done)
	}(stream, r.buf, r.done)

	return nil
}

// Stop finalizes the buffered audio into one payload, releases the device and
// hands the clip to the sink. A Stop while Idle is a no-op.
func (r *Recorder) Stop() {
	r.mu.Lock()
	payload, ok := r.release()
	r.mu.Unlock()

	if ok && r.sink != nil {
		r.sink(Attachment{Name: "recording.wav", Data: payload})
	}
}

// Close force-releases the device without delivering anything. Safe to call
// from any state, including after Stop.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.release()
}

// release must be called with r.mu held. Returns the captured payload and
// whether a recording was actually finalized.
func (r *Recorder) release() ([]byte, bool) {
	if r.state != RecorderRecording {
		return nil, false
	}

	r.stream.Close()
	<-r.done

	payload := r.buf.Bytes()
	r.stream = nil
	r.buf = nil
	r.done = nil
	r.state = RecorderIdle
	return payload, true
}
