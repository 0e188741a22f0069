package asr

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/integration/common"
	pkghttp "github.com/futig/exam-practice/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const transcribeEndpoint = "/transcribe"

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

// Transcribe uploads a finished recording and returns the transcript.
// Uploads are sent once and never retried.
func (c *Connector) Transcribe(ctx context.Context, clip *entity.AudioClip) (*entity.Transcription, error) {
	if clip == nil || len(clip.Data) == 0 {
		return nil, fmt.Errorf("%w: empty recording", entity.ErrTranscriptionFailed)
	}

	filename := RecordingFilename(clip.MIMEType)

	ctxzap.Info(ctx, "transcribing recording",
		zap.String("filename", filename),
		zap.String("mime_type", clip.MIMEType),
		zap.Int("size", len(clip.Data)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile("audio", filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(clip.Data); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}

		return nil
	}

	var resp entity.TranscribeResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, transcribeEndpoint, prepareBody, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTranscriptionFailed, err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", entity.ErrTranscriptionFailed, resp.Error)
	}

	words := resp.WordCount
	if words == 0 {
		words = CountWords(resp.Transcript)
	}

	ctxzap.Info(ctx, "recording transcribed", zap.Int("word_count", words))

	return &entity.Transcription{Transcript: resp.Transcript, WordCount: words}, nil
}

// RecordingFilename names the upload after the container of the recording
func RecordingFilename(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "audio/mp4":
		return "recording.mp4"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "recording.wav"
	case "audio/ogg":
		return "recording.ogg"
	default:
		return "recording.webm"
	}
}

func CountWords(text string) int {
	return len(strings.Fields(text))
}
