package vocabulary

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
	return &MockConnector{logger: logger}
}

func (m *MockConnector) SaveCard(ctx context.Context, card *entity.VocabularyCard) error {
	ctxzap.Info(ctx, "[MOCK] vocabulary card saved",
		zap.String("title", card.Title),
		zap.Int("content_length", len(card.Content)),
	)
	return nil
}
