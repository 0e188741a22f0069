package prompts

import (
	"context"

	"github.com/futig/exam-practice/internal/entity"
)

type PromptCatalog interface {
	Refresh(ctx context.Context, kind entity.TaskKind) ([]entity.Prompt, error)
	Find(kind entity.TaskKind, id int) (*entity.Prompt, error)
	Save(ctx context.Context, kind entity.TaskKind, id int, fields *entity.PromptFields) (int, error)
	Remove(ctx context.Context, kind entity.TaskKind, id int) error
}

// FileConnector is the upload and audio side of the prompt backend
type FileConnector interface {
	UploadAudio(ctx context.Context, kind entity.TaskKind, filename string, data []byte) (string, error)
	UploadDiagram(ctx context.Context, filename string, data []byte) (string, error)
	ListAudio(ctx context.Context, kind entity.TaskKind) ([]string, error)
	Content(ctx context.Context, kind entity.TaskKind) (*entity.TaskContent, error)
}
