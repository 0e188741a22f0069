package settings

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/integration/common"
	pkghttp "github.com/futig/exam-practice/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const saveConfigEndpoint = "/save_config"

// Connector stores user settings on the backend
type Connector struct {
	connector *pkghttp.Connector
}

func NewConnector(cfg config.BackendConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
	}
}

// SaveAPIKey persists the evaluation API key server-side
func (c *Connector) SaveAPIKey(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: api key", entity.ErrMissingField)
	}

	var resp entity.BaseResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, saveConfigEndpoint, &entity.SaveConfigRequest{APIKey: apiKey}, &resp); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("save config: %w: %s", entity.ErrBackendRejected, resp.Error)
	}

	ctxzap.Info(ctx, "api key saved")
	return nil
}
