package asr

import (
	"context"
	"fmt"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns a canned transcript for offline runs
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Transcribe(ctx context.Context, clip *entity.AudioClip) (*entity.Transcription, error) {
	if clip == nil || len(clip.Data) == 0 {
		return nil, fmt.Errorf("%w: empty recording", entity.ErrTranscriptionFailed)
	}

	ctxzap.Info(ctx, "[MOCK] transcribing recording",
		zap.String("mime_type", clip.MIMEType),
		zap.Int("size", len(clip.Data)),
	)

	transcript := `I think the best place to study is the library, for two reasons.
First, it is quiet, so I can focus for a long time without distractions.
Second, I can find reference books right away when I need them.`

	return &entity.Transcription{Transcript: transcript, WordCount: CountWords(transcript)}, nil
}
