package llm

import (
	"context"
	"fmt"

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

func (m *MockConnector) Evaluate(ctx context.Context, req *entity.EvaluateRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] evaluating response",
		zap.String("task_type", req.TaskType),
		zap.Int("task_number", req.TaskNumber),
		zap.Int("word_count", req.WordCount),
	)

	feedback := fmt.Sprintf(`<h3>Estimated score: 3/4</h3>
<h4>Delivery</h4>
<p>Generally clear speech with minor pauses. %d words in the response.</p>
<h4>Language Use</h4>
<p>Good range of vocabulary; some repetition.</p>
<h4>Useful Vocabulary</h4>
<ul><li><b>conducive</b>: making a situation likely to happen</li><li><b>distraction</b>: something that takes attention away</li></ul>
<h4>Topic Development</h4>
<p>Ideas are connected but the second reason needs an example.</p>`, req.WordCount)

	return feedback, nil
}

func (m *MockConnector) EvaluateCombined(ctx context.Context, req *entity.CombinedEvaluationRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] combined evaluation requested", zap.Int("results", len(req.Results)))
	return "", fmt.Errorf("combined evaluation: %w", entity.ErrNotImplemented)
}
