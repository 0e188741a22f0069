package audio

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"time"
)

const (
	syntheticRate  = 16000
	syntheticFrame = 100 * time.Millisecond
)

// SyntheticDevice produces a quiet 16 kHz mono WAV tone in real time. It
// stands in for a microphone when mocks are enabled.
type SyntheticDevice struct {
	Frequency float64
	Amplitude float64
}

func NewSyntheticDevice() *SyntheticDevice {
	return &SyntheticDevice{Frequency: 220, Amplitude: 0.1}
}

func (d *SyntheticDevice) Supports(mimeType string) bool {
	return mimeType == "audio/wav"
}

func (d *SyntheticDevice) Open(ctx context.Context, mimeType string) (io.ReadCloser, error) {
	s := &toneStream{
		device: d,
		closed: make(chan struct{}),
		ticker: time.NewTicker(syntheticFrame),
	}
	s.pending = wavHeader()
	return s, nil
}

type toneStream struct {
	device  *SyntheticDevice
	ticker  *time.Ticker
	closed  chan struct{}
	once    sync.Once
	pending []byte
	sample  int
}

func (s *toneStream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		select {
		case <-s.closed:
			return 0, io.EOF
		case <-s.ticker.C:
			s.pending = s.frame()
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *toneStream) frame() []byte {
	count := int(syntheticRate * syntheticFrame / time.Second)
	out := make([]byte, 2*count)
	for i := 0; i < count; i++ {
		t := float64(s.sample) / syntheticRate
		v := s.device.Amplitude * math.Sin(2*math.Pi*s.device.Frequency*t)
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v*32767)))
		s.sample++
	}
	return out
}

func (s *toneStream) Close() error {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.closed)
	})
	return nil
}

// wavHeader describes an open-ended 16-bit mono stream
func wavHeader() []byte {
	h := make([]byte, 44)
	copy(h[0:], "RIFF")
	binary.LittleEndian.PutUint32(h[4:], 0xFFFFFFFF)
	copy(h[8:], "WAVE")
	copy(h[12:], "fmt ")
	binary.LittleEndian.PutUint32(h[16:], 16)
	binary.LittleEndian.PutUint16(h[20:], 1)
	binary.LittleEndian.PutUint16(h[22:], 1)
	binary.LittleEndian.PutUint32(h[24:], syntheticRate)
	binary.LittleEndian.PutUint32(h[28:], syntheticRate*2)
	binary.LittleEndian.PutUint16(h[32:], 2)
	binary.LittleEndian.PutUint16(h[34:], 16)
	copy(h[36:], "data")
	binary.LittleEndian.PutUint32(h[40:], 0xFFFFFFFF)
	return h
}
