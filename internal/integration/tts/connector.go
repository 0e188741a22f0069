package tts

import (
	"context"
	"encoding/base64"
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

const createAudioEndpoint = "/create_audio"

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

// Synthesize reads text aloud through the backend and returns an mp3 clip
func (c *Connector) Synthesize(ctx context.Context, text string) (*entity.AudioClip, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", entity.ErrSynthesisFailed)
	}

	ctxzap.Info(ctx, "synthesizing prompt audio", zap.Int("text_length", len(text)))

	var resp entity.CreateAudioResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, createAudioEndpoint, &entity.CreateAudioRequest{Text: text}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrSynthesisFailed, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", entity.ErrSynthesisFailed, resp.Error)
	}
	if resp.Audio == "" {
		return nil, fmt.Errorf("%w: empty audio in response", entity.ErrSynthesisFailed)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: decode audio: %w", entity.ErrSynthesisFailed, err)
	}

	ctxzap.Info(ctx, "prompt audio synthesized", zap.Int("size", len(data)))

	return &entity.AudioClip{MIMEType: "audio/mpeg", Data: data, Filename: "prompt.mp3"}, nil
}
