package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// PreferredEncodings is tried in order; the first one the device supports wins
var PreferredEncodings = []string{
	"audio/webm;codecs=opus",
	"audio/mp4",
	"audio/wav",
}

const FallbackEncoding = "audio/webm"

// Recorder captures one response at a time from a Device
type Recorder struct {
	device       Device
	timeslice    time.Duration
	levelMonitor bool

	mu     sync.Mutex
	active *Session
}

func NewRecorder(device Device, cfg config.AudioConfig) *Recorder {
	timeslice := cfg.Timeslice
	if timeslice <= 0 {
		timeslice = time.Second
	}
	return &Recorder{
		device:       device,
		timeslice:    timeslice,
		levelMonitor: cfg.LevelMonitor,
	}
}

// SelectEncoding picks the capture encoding for device
func SelectEncoding(device Device) string {
	for _, mime := range PreferredEncodings {
		if device.Supports(mime) {
			return mime
		}
	}
	return FallbackEncoding
}

// Session is a live recording. Data is collected in timeslice chunks so a
// failure mid-recording keeps what was captured.
type Session struct {
	MIMEType  string
	StartedAt time.Time

	stream  io.ReadCloser
	stop    chan struct{}
	readers sync.WaitGroup

	mu      sync.Mutex
	pending []byte
	chunks  [][]byte
	readErr error
}

// Start opens the device and begins capturing
func (r *Recorder) Start(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return nil, ErrSessionActive
	}

	mime := SelectEncoding(r.device)
	stream, err := r.device.Open(ctx, mime)
	if err != nil {
		return nil, err
	}

	s := &Session{
		MIMEType:  mime,
		StartedAt: time.Now(),
		stream:    stream,
		stop:      make(chan struct{}),
	}

	s.readers.Add(2)
	go s.read()
	go s.slice(ctx, r.timeslice, r.levelMonitor && mime == "audio/wav")

	r.active = s

	ctxzap.Info(ctx, "recording started", zap.String("mime_type", mime))

	return s, nil
}

// Stop ends capture and returns everything recorded so far
func (r *Recorder) Stop(ctx context.Context, s *Session) (*entity.AudioClip, error) {
	r.mu.Lock()
	if s == nil || r.active != s {
		r.mu.Unlock()
		return nil, ErrNoSession
	}
	r.active = nil
	r.mu.Unlock()

	closeErr := s.stream.Close()
	close(s.stop)
	s.readers.Wait()
	s.flush()

	data := bytes.Join(s.chunks, nil)

	ctxzap.Info(ctx, "recording stopped",
		zap.String("mime_type", s.MIMEType),
		zap.Int("chunks", len(s.chunks)),
		zap.Int("size", len(data)),
		zap.Duration("duration", time.Since(s.StartedAt)),
	)

	if len(data) == 0 {
		err := s.readErr
		if err == nil {
			err = closeErr
		}
		if err == nil {
			err = errors.New("no audio captured")
		}
		return nil, fmt.Errorf("recording: %w", err)
	}
	if s.readErr != nil {
		ctxzap.Warn(ctx, "recording interrupted, keeping partial audio", zap.Error(s.readErr))
	}

	return &entity.AudioClip{MIMEType: s.MIMEType, Data: data}, nil
}

// Active reports whether a session is live
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

func (s *Session) read() {
	defer s.readers.Done()

	buf := make([]byte, 4096)
	for {
		n, err := s.stream.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.pending = append(s.pending, buf[:n]...)
			s.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				s.mu.Lock()
				s.readErr = err
				s.mu.Unlock()
			}
			return
		}
	}
}

func (s *Session) slice(ctx context.Context, every time.Duration, monitor bool) {
	defer s.readers.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			chunk := s.flush()
			if monitor && len(chunk) > 0 {
				logLevel(ctx, frequencyLevel(pcm16Samples(chunk)))
			}
		}
	}
}

// flush moves pending bytes into a new chunk and returns it
func (s *Session) flush() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	chunk := s.pending
	s.chunks = append(s.chunks, chunk)
	s.pending = nil
	return chunk
}

func logLevel(ctx context.Context, level float64) {
	if level < quietLevel {
		ctxzap.Warn(ctx, "very low input level, check the microphone", zap.Float64("level", level))
		return
	}
	ctxzap.Debug(ctx, "input level", zap.Float64("level", level))
}
