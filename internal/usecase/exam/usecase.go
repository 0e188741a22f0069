package exam

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/pkg/logger"
	"github.com/futig/exam-practice/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExamUsecase drives a practice run: setup gate, then every selected task
// in order, then the summary.
type ExamUsecase struct {
	catalog     PromptCatalog
	promptAudio PromptAudio
	asr         ASRConnector
	llm         LLMConnector
	tts         TTSConnector
	vocabulary  VocabularyConnector
	recorder    Recorder
	player      Player
	timer       Timer
	display     Display
	controls    Controls
	timing      config.TimingConfig
	logger      *zap.Logger

	// injectable for tests
	pick func(n int) int
	now  func() time.Time
}

func NewUsecase(
	catalog PromptCatalog,
	promptAudio PromptAudio,
	asr ASRConnector,
	llm LLMConnector,
	tts TTSConnector,
	vocabulary VocabularyConnector,
	recorder Recorder,
	player Player,
	timer Timer,
	display Display,
	controls Controls,
	timing config.TimingConfig,
	logger *zap.Logger,
) *ExamUsecase {
	return &ExamUsecase{
		catalog:     catalog,
		promptAudio: promptAudio,
		asr:         asr,
		llm:         llm,
		tts:         tts,
		vocabulary:  vocabulary,
		recorder:    recorder,
		player:      player,
		timer:       timer,
		display:     display,
		controls:    controls,
		timing:      timing,
		logger:      logger,
		pick:        rand.Intn,
		now:         time.Now,
	}
}

// Prepare validates cfg and picks a prompt for every selected task. It is
// the only way into Running: on any missing content it returns a
// *entity.ValidationError listing every gap and no Run.
func (uc *ExamUsecase) Prepare(ctx context.Context, cfg entity.RunConfig) (*Run, error) {
	verr := &entity.ValidationError{}

	for _, kind := range cfg.SelectedTasks {
		if err := kind.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
	}

	tasks := canonicalOrder(cfg.SelectedTasks)
	if len(tasks) == 0 {
		verr.NoSelection = true
		return nil, verr
	}
	cfg.SelectedTasks = tasks

	run := &Run{
		ID:      uuid.New().String(),
		Config:  cfg,
		State:   StateSetup,
		Prompts: make(map[entity.TaskKind]*entity.Prompt),
	}

	ctx = logger.AddFields(ctx, zap.String("run_id", run.ID))

	lists := uc.loadPrompts(ctx, tasks)

	for i, kind := range tasks {
		if kind == entity.TaskTOEFL1 {
			lines := validator.Task1Lines(joinLines(cfg.Task1Prompts))
			if len(lines) == 0 {
				verr.Add(kind, kind.Label()+": enter at least one question")
				continue
			}
			run.Task1Prompt = lines[uc.pick(len(lines))]
			continue
		}

		list := lists[i]
		if id, ok := cfg.SelectedPromptIDs[kind]; ok {
			prompt := findPrompt(list, id)
			if prompt == nil {
				verr.Add(kind, fmt.Sprintf("%s: prompt #%d not found", kind.Label(), id))
				continue
			}
			run.Prompts[kind] = prompt
			continue
		}

		if len(list) == 0 {
			verr.Add(kind, kind.Label()+": no prompts available, add one first")
			continue
		}
		prompt := list[uc.pick(len(list))]
		run.Prompts[kind] = &prompt
	}

	if !verr.Empty() {
		ctxzap.Info(ctx, "run setup blocked", zap.Strings("missing", verr.Missing))
		return nil, verr
	}

	ctxzap.Info(ctx, "run prepared",
		zap.Int("tasks", len(tasks)),
		zap.Bool("real_test", cfg.RealTestConditions),
		zap.Bool("evaluate", cfg.ShouldEvaluate()),
	)

	return run, nil
}

// Run executes every task of a prepared run and returns its summary. Task
// failures never stop the run; only ctx cancellation does.
func (uc *ExamUsecase) Run(ctx context.Context, run *Run) (*entity.RunSummary, error) {
	if run.State != StateSetup {
		return nil, fmt.Errorf("%w: run %s is %s", entity.ErrInvalidParameter, run.ID, run.State)
	}

	ctx = logger.AddFields(ctx, zap.String("run_id", run.ID))
	ctx = logger.WithAction(ctx, "run")

	run.State = StateRunning
	run.StartedAt = uc.now()

	for run.Index < run.Total() {
		kind := run.Current()
		taskCtx := logger.AddFields(ctx, zap.String("task", string(kind)))

		if err := uc.runTask(taskCtx, run, kind); err != nil {
			return nil, err
		}
		run.Index++
	}

	run.State = StateResults
	summary := uc.summarize(ctx, run)
	uc.display.Summary(summary)

	ctxzap.Info(ctx, "run finished",
		zap.Int("results", len(summary.Results)),
		zap.Int("skipped", len(summary.Skipped)),
	)

	return summary, nil
}

// loadPrompts refreshes the catalog for every task except the typed task 1.
// Lists are fetched concurrently; a failed load leaves whatever the catalog
// still holds, which validation then reports as missing if empty.
func (uc *ExamUsecase) loadPrompts(ctx context.Context, tasks []entity.TaskKind) [][]entity.Prompt {
	lists := make([][]entity.Prompt, len(tasks))

	var eg errgroup.Group
	for i, kind := range tasks {
		if kind == entity.TaskTOEFL1 {
			continue
		}
		i, kind := i, kind
		eg.Go(func() error {
			list, err := uc.catalog.Refresh(ctx, kind)
			if err != nil {
				ctxzap.Warn(ctx, "could not load prompts", zap.String("task", string(kind)), zap.Error(err))
			}
			lists[i] = list
			return nil
		})
	}
	_ = eg.Wait()

	return lists
}

func canonicalOrder(selected []entity.TaskKind) []entity.TaskKind {
	seen := make(map[entity.TaskKind]bool, len(selected))
	for _, k := range selected {
		seen[k] = true
	}
	var ordered []entity.TaskKind
	for _, k := range entity.AllTasks {
		if seen[k] {
			ordered = append(ordered, k)
		}
	}
	return ordered
}

func findPrompt(list []entity.Prompt, id int) *entity.Prompt {
	for i := range list {
		if list[i].ID == id {
			p := list[i]
			return &p
		}
	}
	return nil
}
