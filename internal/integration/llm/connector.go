package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/integration/common"
	pkghttp "github.com/futig/exam-practice/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	evaluateEndpoint = "/evaluate"

	// shown when the backend answers without feedback or evaluation
	NoEvaluation = "Evaluation not available"
)

type Connector struct {
	config    config.BackendConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.BackendConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Evaluate asks the backend to grade a single response and returns the
// feedback HTML
func (c *Connector) Evaluate(ctx context.Context, req *entity.EvaluateRequest) (string, error) {
	ctxzap.Info(ctx, "evaluating response",
		zap.String("task_type", req.TaskType),
		zap.Int("task_number", req.TaskNumber),
		zap.Int("word_count", req.WordCount),
	)

	var resp entity.EvaluateResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, evaluateEndpoint, req, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrEvaluationFailed, err)
	}

	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", entity.ErrEvaluationFailed, resp.Error)
	}

	feedback := FeedbackText(&resp)

	ctxzap.Info(ctx, "response evaluated", zap.Int("feedback_length", len(feedback)))

	return feedback, nil
}

// EvaluateCombined grades a whole run at once. The backend has no such
// endpoint yet.
func (c *Connector) EvaluateCombined(ctx context.Context, req *entity.CombinedEvaluationRequest) (string, error) {
	ctxzap.Debug(ctx, "combined evaluation requested", zap.Int("results", len(req.Results)))
	return "", fmt.Errorf("combined evaluation: %w", entity.ErrNotImplemented)
}

// FeedbackText picks feedback, then evaluation, then a placeholder
func FeedbackText(resp *entity.EvaluateResponse) string {
	switch {
	case resp.Feedback != "":
		return resp.Feedback
	case resp.Evaluation != "":
		return resp.Evaluation
	default:
		return NoEvaluation
	}
}
