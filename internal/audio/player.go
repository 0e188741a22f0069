package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Player plays prompt and lecture audio. Play blocks until the clip ends
// and returns ctx.Err() when playback was skipped.
type Player interface {
	Play(ctx context.Context, clip *entity.AudioClip) error
}

// CommandPlayer pipes the clip into a player command such as
// "ffplay -nodisp -autoexit -loglevel quiet -"
type CommandPlayer struct {
	command []string
}

func NewCommandPlayer(command string) *CommandPlayer {
	return &CommandPlayer{command: strings.Fields(command)}
}

func (p *CommandPlayer) Play(ctx context.Context, clip *entity.AudioClip) error {
	if len(p.command) == 0 {
		return fmt.Errorf("%w: no playback command configured", ErrDeviceUnavailable)
	}

	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Stdin = bytes.NewReader(clip.Data)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	ctxzap.Debug(ctx, "playing audio", zap.String("file", clip.Filename), zap.Int("size", len(clip.Data)))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		return fmt.Errorf("playback exited with error: %w\nstderr: %s", err, stderr.String())
	}
	return nil
}

// SilentPlayer pretends to play for a fixed duration
type SilentPlayer struct {
	Duration time.Duration
}

func (p *SilentPlayer) Play(ctx context.Context, clip *entity.AudioClip) error {
	ctxzap.Info(ctx, "[MOCK] playing audio", zap.String("file", clip.Filename), zap.String("mime_type", clip.MIMEType))

	if p.Duration <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
