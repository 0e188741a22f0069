package audio

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/futig/exam-practice/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice serves scripted reads; a nil entry blocks until Close
type fakeDevice struct {
	supported []string
	openErr   error
	reads     [][]byte
	failAfter error
	opened    string
}

func (d *fakeDevice) Supports(mimeType string) bool {
	for _, m := range d.supported {
		if m == mimeType {
			return true
		}
	}
	return false
}

func (d *fakeDevice) Open(_ context.Context, mimeType string) (io.ReadCloser, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened = mimeType
	return &fakeStream{reads: d.reads, failAfter: d.failAfter, closed: make(chan struct{})}, nil
}

type fakeStream struct {
	reads     [][]byte
	failAfter error
	closed    chan struct{}
	once      sync.Once
}

func (s *fakeStream) Read(p []byte) (int, error) {
	if len(s.reads) > 0 {
		n := copy(p, s.reads[0])
		s.reads = s.reads[1:]
		return n, nil
	}
	if s.failAfter != nil {
		return 0, s.failAfter
	}
	<-s.closed
	return 0, io.EOF
}

func (s *fakeStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func testConfig() config.AudioConfig {
	return config.AudioConfig{Timeslice: 5 * time.Millisecond}
}

func TestSelectEncoding(t *testing.T) {
	assert.Equal(t, "audio/webm;codecs=opus", SelectEncoding(&fakeDevice{supported: []string{"audio/wav", "audio/webm;codecs=opus"}}))
	assert.Equal(t, "audio/mp4", SelectEncoding(&fakeDevice{supported: []string{"audio/wav", "audio/mp4"}}))
	assert.Equal(t, "audio/wav", SelectEncoding(&fakeDevice{supported: []string{"audio/wav"}}))
	assert.Equal(t, FallbackEncoding, SelectEncoding(&fakeDevice{}))
}

func TestRecordCollectsChunks(t *testing.T) {
	device := &fakeDevice{
		supported: []string{"audio/mp4"},
		reads:     [][]byte{[]byte("abc"), []byte("def")},
	}
	rec := NewRecorder(device, testConfig())
	ctx := context.Background()

	session, err := rec.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "audio/mp4", session.MIMEType)
	assert.True(t, rec.Active())

	time.Sleep(20 * time.Millisecond)

	clip, err := rec.Stop(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "audio/mp4", clip.MIMEType)
	assert.Equal(t, []byte("abcdef"), clip.Data)
	assert.False(t, rec.Active())
}

func TestOnlyOneSessionAtATime(t *testing.T) {
	rec := NewRecorder(&fakeDevice{reads: [][]byte{[]byte("x")}}, testConfig())
	ctx := context.Background()

	session, err := rec.Start(ctx)
	require.NoError(t, err)

	_, err = rec.Start(ctx)
	assert.ErrorIs(t, err, ErrSessionActive)

	_, err = rec.Stop(ctx, session)
	require.NoError(t, err)

	_, err = rec.Stop(ctx, session)
	assert.ErrorIs(t, err, ErrNoSession)

	again, err := rec.Start(ctx)
	require.NoError(t, err)
	_, _ = rec.Stop(ctx, again)
}

func TestPermissionDenied(t *testing.T) {
	rec := NewRecorder(&fakeDevice{openErr: ErrPermissionDenied}, testConfig())

	_, err := rec.Start(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, rec.Active())
}

func TestFailureKeepsPartialAudio(t *testing.T) {
	device := &fakeDevice{
		reads:     [][]byte{[]byte("partial")},
		failAfter: errors.New("device unplugged"),
	}
	rec := NewRecorder(device, testConfig())
	ctx := context.Background()

	session, err := rec.Start(ctx)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	clip, err := rec.Stop(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, []byte("partial"), clip.Data)
}

func TestEmptyRecordingFails(t *testing.T) {
	rec := NewRecorder(&fakeDevice{failAfter: errors.New("device unplugged")}, testConfig())
	ctx := context.Background()

	session, err := rec.Start(ctx)
	require.NoError(t, err)

	_, err = rec.Stop(ctx, session)
	assert.ErrorContains(t, err, "device unplugged")
}

func TestFrequencyLevel(t *testing.T) {
	silence := make([]float64, analyserSize)
	assert.Less(t, frequencyLevel(silence), quietLevel)

	tone := make([]float64, analyserSize)
	for i := range tone {
		tone[i] = 0.5 * math.Sin(2*math.Pi*16*float64(i)/analyserSize)
	}
	assert.Greater(t, frequencyLevel(tone), quietLevel)
}

func TestSyntheticDeviceProducesWAV(t *testing.T) {
	rec := NewRecorder(NewSyntheticDevice(), config.AudioConfig{Timeslice: 50 * time.Millisecond, LevelMonitor: true})
	ctx := context.Background()

	session, err := rec.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", session.MIMEType)

	time.Sleep(250 * time.Millisecond)

	clip, err := rec.Stop(ctx, session)
	require.NoError(t, err)
	require.Greater(t, len(clip.Data), 44)
	assert.Equal(t, "RIFF", string(clip.Data[:4]))
}
