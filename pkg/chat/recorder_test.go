package chat

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	mu      sync.Mutex
	opens   int
	openErr error
	reader  *io.PipeReader
	writer  *io.PipeWriter
}

func (d *fakeDevice) Open() (io.ReadCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opens++
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.reader, d.writer = io.Pipe()
	return d.reader, nil
}

func (d *fakeDevice) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

func TestRecorderStartStopDeliversClip(t *testing.T) {
	device := &fakeDevice{}
	var delivered []Attachment
	recorder := NewRecorder(device, func(att Attachment) {
		delivered = append(delivered, att)
	})

	require.NoError(t, recorder.Start())
	assert.Equal(t, RecorderRecording, recorder.State())

	_, err := device.writer.Write([]byte("audio-bytes"))
	require.NoError(t, err)

	recorder.Stop()
	assert.Equal(t, RecorderIdle, recorder.State())

	require.Len(t, delivered, 1)
	assert.Equal(t, "recording.wav", delivered[0].Name)
	assert.Equal(t, []byte("audio-bytes"), delivered[0].Data)
}

func TestRecorderStopWhileIdleIsNoOp(t *testing.T) {
	device := &fakeDevice{}
	sinkCalls := 0
	recorder := NewRecorder(device, func(Attachment) { sinkCalls++ })

	recorder.Stop()

	assert.Equal(t, RecorderIdle, recorder.State())
	assert.Equal(t, 0, sinkCalls)
	assert.Equal(t, 0, device.openCount())
}

func TestRecorderStartWhileRecordingIsNoOp(t *testing.T) {
	device := &fakeDevice{}
	recorder := NewRecorder(device, nil)

	require.NoError(t, recorder.Start())
	require.NoError(t, recorder.Start())

	assert.Equal(t, 1, device.openCount())
	recorder.Close()
}

func TestRecorderStartFailureStaysIdle(t *testing.T) {
	device := &fakeDevice{openErr: errors.New("permission denied")}
	recorder := NewRecorder(device, nil)

	err := recorder.Start()
	assert.Error(t, err)
	assert.Equal(t, RecorderIdle, recorder.State())

	// The device can be retried after a failed acquisition.
	device.mu.Lock()
	device.openErr = nil
	device.mu.Unlock()
	require.NoError(t, recorder.Start())
	assert.Equal(t, RecorderRecording, recorder.State())
	recorder.Close()
}

func TestRecorderCloseReleasesWithoutSink(t *testing.T) {
	device := &fakeDevice{}
	sinkCalls := 0
	recorder := NewRecorder(device, func(Attachment) { sinkCalls++ })

	require.NoError(t, recorder.Start())
	recorder.Close()

	assert.Equal(t, RecorderIdle, recorder.State())
	assert.Equal(t, 0, sinkCalls)

	// Close is safe to call again once idle.
	recorder.Close()
	assert.Equal(t, 0, sinkCalls)
}

func TestRecorderCanRecordAgainAfterStop(t *testing.T) {
	device := &fakeDevice{}
	var delivered []Attachment
	recorder := NewRecorder(device, func(att Attachment) {
		delivered = append(delivered, att)
	})

	require.NoError(t, recorder.Start())
	_, err := device.writer.Write([]byte("first"))
	require.NoError(t, err)
	recorder.Stop()

	require.NoError(t, recorder.Start())
	_, err = device.writer.Write([]byte("second"))
	require.NoError(t, err)
	recorder.Stop()

	require.Len(t, delivered, 2)
	assert.Equal(t, []byte("first"), delivered[0].Data)
	assert.Equal(t, []byte("second"), delivered[1].Data)
	assert.Equal(t, 2, device.openCount())
}
