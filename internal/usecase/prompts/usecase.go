package prompts

import (
	"context"
	"fmt"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Attachment is a local file sent along with a prompt
type Attachment struct {
	Filename string
	Data     []byte
}

// PromptUsecase manages the prompt collections: validation, uploads and
// the cached lists the exam runner draws from
type PromptUsecase struct {
	catalog   PromptCatalog
	files     FileConnector
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(
	catalog PromptCatalog,
	files FileConnector,
	validator *validator.Validator,
	logger *zap.Logger,
) *PromptUsecase {
	return &PromptUsecase{
		catalog:   catalog,
		files:     files,
		validator: validator,
		logger:    logger,
	}
}

func (uc *PromptUsecase) List(ctx context.Context, kind entity.TaskKind) ([]entity.Prompt, error) {
	list, err := uc.catalog.Refresh(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return list, nil
}

func (uc *PromptUsecase) Get(ctx context.Context, kind entity.TaskKind, id int) (*entity.Prompt, error) {
	if _, err := uc.catalog.Refresh(ctx, kind); err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return uc.catalog.Find(kind, id)
}

// Save creates (id == 0) or updates a prompt. Attachments are checked
// before anything is sent and uploaded before the prompt is written, so
// the prompt refers to the name the backend stored them under.
func (uc *PromptUsecase) Save(
	ctx context.Context,
	kind entity.TaskKind,
	id int,
	fields *entity.PromptFields,
	audio, diagram *Attachment,
) (int, error) {
	if audio != nil {
		if err := uc.validator.ValidateAudioUpload(audio.Filename, int64(len(audio.Data))); err != nil {
			return 0, err
		}
		name := validator.SanitizeFilename(audio.Filename)
		fields.AudioFile = &name
	}
	if diagram != nil {
		if kind != entity.TaskWritingTask1 {
			return 0, fmt.Errorf("%w: diagrams belong to %s", entity.ErrUnsupportedKind, entity.TaskWritingTask1)
		}
		if err := uc.validator.ValidateDiagramUpload(diagram.Filename, int64(len(diagram.Data))); err != nil {
			return 0, err
		}
	}

	if err := uc.validator.ValidatePrompt(kind, fields); err != nil {
		return 0, err
	}

	if audio != nil {
		stored, err := uc.UploadAudio(ctx, kind, audio)
		if err != nil {
			return 0, err
		}
		fields.AudioFile = &stored
	}
	if diagram != nil {
		stored, err := uc.UploadDiagram(ctx, diagram)
		if err != nil {
			return 0, err
		}
		fields.DiagramFile = &stored
	}

	savedID, err := uc.catalog.Save(ctx, kind, id, fields)
	if err != nil {
		return 0, fmt.Errorf("save prompt: %w", err)
	}

	ctxzap.Info(ctx, "prompt saved",
		zap.String("task", string(kind)),
		zap.Int("prompt_id", savedID),
		zap.Bool("created", id == 0),
	)

	return savedID, nil
}

func (uc *PromptUsecase) Delete(ctx context.Context, kind entity.TaskKind, id int) error {
	if err := uc.catalog.Remove(ctx, kind, id); err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	ctxzap.Info(ctx, "prompt deleted", zap.String("task", string(kind)), zap.Int("prompt_id", id))
	return nil
}

// UploadAudio stores an audio file in the collection of a TOEFL task and
// returns the stored name
func (uc *PromptUsecase) UploadAudio(ctx context.Context, kind entity.TaskKind, file *Attachment) (string, error) {
	if err := uc.validator.ValidateAudioUpload(file.Filename, int64(len(file.Data))); err != nil {
		return "", err
	}

	stored, err := uc.files.UploadAudio(ctx, kind, validator.SanitizeFilename(file.Filename), file.Data)
	if err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "audio uploaded",
		zap.String("task", string(kind)),
		zap.String("file", stored),
		zap.Int("size", len(file.Data)),
	)
	return stored, nil
}

func (uc *PromptUsecase) UploadDiagram(ctx context.Context, file *Attachment) (string, error) {
	if err := uc.validator.ValidateDiagramUpload(file.Filename, int64(len(file.Data))); err != nil {
		return "", err
	}

	stored, err := uc.files.UploadDiagram(ctx, validator.SanitizeFilename(file.Filename), file.Data)
	if err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "diagram uploaded", zap.String("file", stored), zap.Int("size", len(file.Data)))
	return stored, nil
}

func (uc *PromptUsecase) ListAudio(ctx context.Context, kind entity.TaskKind) ([]string, error) {
	return uc.files.ListAudio(ctx, kind)
}

func (uc *PromptUsecase) Content(ctx context.Context, kind entity.TaskKind) (*entity.TaskContent, error) {
	return uc.files.Content(ctx, kind)
}
