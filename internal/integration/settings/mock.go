package settings

import (
	"context"
	"fmt"
	"strings"

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

func (m *MockConnector) SaveAPIKey(ctx context.Context, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: api key", entity.ErrMissingField)
	}
	ctxzap.Info(ctx, "[MOCK] api key saved", zap.Int("length", len(apiKey)))
	return nil
}
