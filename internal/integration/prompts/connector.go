package prompts

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/integration/common"
	pkgRetry "github.com/futig/exam-practice/internal/pkg/retry"
	pkghttp "github.com/futig/exam-practice/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the prompt collections of the practice backend.
// Writes and uploads are sent once; only reads of audio go through retry.
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

func storeOf(kind entity.TaskKind) (string, error) {
	store := kind.PromptStore()
	if store == "" {
		return "", fmt.Errorf("%w: %s", entity.ErrNoPromptStore, kind)
	}
	return store, nil
}

// audioStore returns the store for kinds that carry prompt audio (TOEFL 2..5)
func audioStore(kind entity.TaskKind) (string, error) {
	n := kind.TOEFLNumber()
	if n < 2 || n > 5 {
		return "", fmt.Errorf("%w: %s has no audio files", entity.ErrUnsupportedKind, kind)
	}
	return storeOf(kind)
}

func rejected(op string, resp entity.BaseResponse) error {
	if resp.Success {
		return nil
	}
	if resp.Error != "" {
		return fmt.Errorf("%s: %w: %s", op, entity.ErrBackendRejected, resp.Error)
	}
	return fmt.Errorf("%s: %w", op, entity.ErrBackendRejected)
}

// List returns every prompt of the collection backing kind
func (c *Connector) List(ctx context.Context, kind entity.TaskKind) ([]entity.Prompt, error) {
	store, err := storeOf(kind)
	if err != nil {
		return nil, err
	}

	var resp entity.ListPromptsResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, "/api/"+store+"/prompts/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s prompts: %w", store, err)
	}

	ctxzap.Debug(ctx, "prompts listed", zap.String("store", store), zap.Int("count", len(resp.Prompts)))

	return resp.Prompts, nil
}

// Get finds a single prompt by id. The backend has no per-id read, so the
// list is fetched and filtered.
func (c *Connector) Get(ctx context.Context, kind entity.TaskKind, id int) (*entity.Prompt, error) {
	list, err := c.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s #%d", entity.ErrPromptNotFound, kind, id)
}

// Create stores a new prompt and returns the id the backend assigned
func (c *Connector) Create(ctx context.Context, kind entity.TaskKind, fields *entity.PromptFields) (int, error) {
	store, err := storeOf(kind)
	if err != nil {
		return 0, err
	}

	ctxzap.Info(ctx, "creating prompt", zap.String("store", store))

	var resp entity.CreatePromptResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, "/api/"+store+"/prompts", fields, &resp); err != nil {
		return 0, fmt.Errorf("create %s prompt: %w", store, err)
	}
	if err := rejected("create prompt", resp.BaseResponse); err != nil {
		return 0, err
	}

	ctxzap.Info(ctx, "prompt created", zap.String("store", store), zap.Int("prompt_id", resp.PromptID))

	return resp.PromptID, nil
}

func (c *Connector) Update(ctx context.Context, kind entity.TaskKind, id int, fields *entity.PromptFields) error {
	store, err := storeOf(kind)
	if err != nil {
		return err
	}

	var resp entity.BaseResponse
	endpoint := fmt.Sprintf("/api/%s/prompts/%d", store, id)
	if err := c.connector.DoRequest(ctx, http.MethodPut, endpoint, fields, &resp); err != nil {
		return fmt.Errorf("update %s prompt %d: %w", store, id, err)
	}
	if err := rejected("update prompt", resp); err != nil {
		return err
	}

	ctxzap.Info(ctx, "prompt updated", zap.String("store", store), zap.Int("prompt_id", id))
	return nil
}

func (c *Connector) Delete(ctx context.Context, kind entity.TaskKind, id int) error {
	store, err := storeOf(kind)
	if err != nil {
		return err
	}

	var resp entity.BaseResponse
	endpoint := fmt.Sprintf("/api/%s/prompts/%d", store, id)
	if err := c.connector.DoRequest(ctx, http.MethodDelete, endpoint, nil, &resp); err != nil {
		return fmt.Errorf("delete %s prompt %d: %w", store, id, err)
	}
	if err := rejected("delete prompt", resp); err != nil {
		return err
	}

	ctxzap.Info(ctx, "prompt deleted", zap.String("store", store), zap.Int("prompt_id", id))
	return nil
}

func (c *Connector) upload(ctx context.Context, endpoint, field, filename string, data []byte) (string, error) {
	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile(field, filepath.Base(filename))
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp entity.UploadResponse
	if err := c.connector.DoMultipartRequest(ctx, http.MethodPost, endpoint, prepareBody, &resp); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if err := rejected("upload "+field, resp.BaseResponse); err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "file uploaded",
		zap.String("endpoint", endpoint),
		zap.String("stored_as", resp.StoredName()),
		zap.Int("size", len(data)),
	)

	return resp.StoredName(), nil
}

// UploadAudio attaches an audio file to a TOEFL collection and returns the stored name
func (c *Connector) UploadAudio(ctx context.Context, kind entity.TaskKind, filename string, data []byte) (string, error) {
	store, err := audioStore(kind)
	if err != nil {
		return "", err
	}
	return c.upload(ctx, "/api/"+store+"/upload_audio", "audio", filename, data)
}

// UploadDiagram stores a Writing Task 1 chart and returns the stored name
func (c *Connector) UploadDiagram(ctx context.Context, filename string, data []byte) (string, error) {
	return c.upload(ctx, "/api/writing_task1/upload_diagram", "diagram", filename, data)
}

func (c *Connector) ListAudio(ctx context.Context, kind entity.TaskKind) ([]string, error) {
	store, err := audioStore(kind)
	if err != nil {
		return nil, err
	}

	return pkgRetry.Do(ctx, &c.config.Retry, func() ([]string, error) {
		var resp entity.AudioListResponse
		if err := c.connector.DoRequest(ctx, http.MethodGet, "/api/"+store+"/audio/list", nil, &resp); err != nil {
			return nil, fmt.Errorf("list %s audio: %w", store, err)
		}
		return resp.AudioFiles, nil
	})
}

// Content returns the collection-level content (the most recent upload)
func (c *Connector) Content(ctx context.Context, kind entity.TaskKind) (*entity.TaskContent, error) {
	store, err := audioStore(kind)
	if err != nil {
		return nil, err
	}

	return pkgRetry.Do(ctx, &c.config.Retry, func() (*entity.TaskContent, error) {
		var resp entity.TaskContent
		if err := c.connector.DoRequest(ctx, http.MethodGet, "/api/"+store+"/content", nil, &resp); err != nil {
			return nil, fmt.Errorf("get %s content: %w", store, err)
		}
		return &resp, nil
	})
}

// FetchAudio downloads a stored prompt audio file
func (c *Connector) FetchAudio(ctx context.Context, kind entity.TaskKind, filename string) (*entity.AudioClip, error) {
	store, err := audioStore(kind)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: audio filename", entity.ErrMissingField)
	}

	endpoint := "/api/" + store + "/audio/" + url.PathEscape(filename)

	clip, err := pkgRetry.Do(ctx, &c.config.Retry, func() (*entity.AudioClip, error) {
		data, contentType, err := c.connector.Download(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		if contentType == "" {
			contentType = "audio/mpeg"
		}
		return &entity.AudioClip{MIMEType: contentType, Data: data, Filename: filename}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch audio %s: %w", filename, err)
	}

	ctxzap.Debug(ctx, "prompt audio fetched", zap.String("file", filename), zap.Int("size", len(clip.Data)))

	return clip, nil
}
