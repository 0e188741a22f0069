package tts

import (
	"context"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Synthesize returns the text itself as a plain-text "clip"; the mock
// player prints it instead of playing it.
func (m *MockConnector) Synthesize(ctx context.Context, text string) (*entity.AudioClip, error) {
	ctxzap.Info(ctx, "[MOCK] synthesizing prompt audio", zap.Int("text_length", len(text)))
	return &entity.AudioClip{MIMEType: "text/plain", Data: []byte(text), Filename: "prompt.txt"}, nil
}
