package exam

import (
	"context"

	"github.com/futig/exam-practice/internal/audio"
	"github.com/futig/exam-practice/internal/entity"
)

type PromptCatalog interface {
	Refresh(ctx context.Context, kind entity.TaskKind) ([]entity.Prompt, error)
}

type PromptAudio interface {
	FetchAudio(ctx context.Context, kind entity.TaskKind, filename string) (*entity.AudioClip, error)
}

type ASRConnector interface {
	Transcribe(ctx context.Context, clip *entity.AudioClip) (*entity.Transcription, error)
}

type LLMConnector interface {
	Evaluate(ctx context.Context, req *entity.EvaluateRequest) (string, error)
	EvaluateCombined(ctx context.Context, req *entity.CombinedEvaluationRequest) (string, error)
}

type TTSConnector interface {
	Synthesize(ctx context.Context, text string) (*entity.AudioClip, error)
}

type VocabularyConnector interface {
	SaveCard(ctx context.Context, card *entity.VocabularyCard) error
}

type Recorder interface {
	Start(ctx context.Context) (*audio.Session, error)
	Stop(ctx context.Context, s *audio.Session) (*entity.AudioClip, error)
}

type Player interface {
	Play(ctx context.Context, clip *entity.AudioClip) error
}

// Timer is a blocking countdown; it returns nil on expiry
type Timer interface {
	Run(ctx context.Context, seconds int, onTick func(remaining int)) error
}

// Display renders run progress. Calls come from the runner goroutine,
// except Countdown which is called from the timer goroutine.
type Display interface {
	TaskIntro(position, total int, kind entity.TaskKind)
	Reading(title, text string)
	Question(text string)
	Countdown(stage Stage, remaining, total int)
	Notice(message string)
	Alert(message string)
	TaskResult(result *entity.TaskResult)
	Summary(summary *entity.RunSummary)
}

// Controls collects user input between stages
type Controls interface {
	// WaitSkip blocks until the user asks to skip, or ctx ends
	WaitSkip(ctx context.Context) error
	// Compose collects typed text until the user submits or ctx ends and
	// returns what was typed either way
	Compose(ctx context.Context) (string, error)
	AwaitContinue(ctx context.Context, allowSave bool) (Action, error)
}
