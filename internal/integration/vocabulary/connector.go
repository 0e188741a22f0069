package vocabulary

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

const cardsEndpoint = "/api/vocabulary_cards"

// Connector saves vocabulary flashcards built from evaluation feedback
type Connector struct {
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.BackendConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		logger:    logger,
	}
}

func (c *Connector) SaveCard(ctx context.Context, card *entity.VocabularyCard) error {
	if card.Content == "" {
		return fmt.Errorf("%w: card content", entity.ErrMissingField)
	}

	var resp entity.BaseResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, cardsEndpoint, card, &resp); err != nil {
		return fmt.Errorf("save vocabulary card: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("save vocabulary card: %w: %s", entity.ErrBackendRejected, resp.Error)
	}

	ctxzap.Info(ctx, "vocabulary card saved", zap.String("title", card.Title))
	return nil
}
