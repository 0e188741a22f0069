package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	// ErrPermissionDenied means the capture device refused access
	ErrPermissionDenied = errors.New("microphone access denied")
	// ErrDeviceUnavailable means no capture or playback command is configured or installed
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	ErrSessionActive     = errors.New("a recording session is already active")
	ErrNoSession         = errors.New("no active recording session")
)

// Device is an audio input able to produce one or more encodings
type Device interface {
	Supports(mimeType string) bool
	Open(ctx context.Context, mimeType string) (io.ReadCloser, error)
}

// CommandDevice captures audio by running a command that writes the
// encoded stream to stdout (arecord, ffmpeg, sox...).
type CommandDevice struct {
	command   []string
	mimeTypes []string
}

func NewCommandDevice(command string, mimeTypes []string) *CommandDevice {
	return &CommandDevice{
		command:   strings.Fields(command),
		mimeTypes: mimeTypes,
	}
}

func (d *CommandDevice) Supports(mimeType string) bool {
	return slices.Contains(d.mimeTypes, mimeType)
}

func (d *CommandDevice) Open(ctx context.Context, mimeType string) (io.ReadCloser, error) {
	if len(d.command) == 0 {
		return nil, fmt.Errorf("%w: no capture command configured", ErrDeviceUnavailable)
	}

	cmd := exec.CommandContext(ctx, d.command[0], d.command[1:]...)

	// The pipe is ours rather than StdoutPipe's, so Wait never closes the
	// read end and the reader drains everything the encoder writes on exit.
	stdout, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("capture pipe: %w", err)
	}
	cmd.Stdout = pw

	err = cmd.Start()
	_ = pw.Close()
	if err != nil {
		_ = stdout.Close()
		switch {
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		case errors.Is(err, exec.ErrNotFound):
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		default:
			return nil, fmt.Errorf("start capture command: %w", err)
		}
	}

	return &processStream{cmd: cmd, stdout: stdout}, nil
}

// processStream stops the capture process on Close. Reads keep going
// until the process and its pipe are done, so trailers written on
// interrupt are not lost.
type processStream struct {
	cmd    *exec.Cmd
	stdout *os.File
	once   sync.Once
}

const stopGrace = 2 * time.Second

func (s *processStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if errors.Is(err, io.EOF) {
		_ = s.stdout.Close()
	}
	return n, err
}

// Close interrupts the process and waits for it to exit. It does not close
// the read end: the reader sees EOF once the output is drained. A child
// that keeps the pipe open is cut off after stopGrace.
func (s *processStream) Close() error {
	s.once.Do(func() {
		_ = s.cmd.Process.Signal(os.Interrupt)

		done := make(chan error, 1)
		go func() { done <- s.cmd.Wait() }()

		select {
		case <-done:
		case <-time.After(stopGrace):
			_ = s.cmd.Process.Kill()
			<-done
		}

		time.AfterFunc(stopGrace, func() { _ = s.stdout.Close() })
	})
	return nil
}
