package exam

import (
	"context"
	"fmt"
	"sync"

	"github.com/futig/exam-practice/internal/audio"
	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	lists map[entity.TaskKind][]entity.Prompt
	err   error
}

func (c *fakeCatalog) Refresh(_ context.Context, kind entity.TaskKind) ([]entity.Prompt, error) {
	return c.lists[kind], c.err
}

type fakePromptAudio struct {
	fetched []string
	err     error
}

func (a *fakePromptAudio) FetchAudio(_ context.Context, kind entity.TaskKind, filename string) (*entity.AudioClip, error) {
	a.fetched = append(a.fetched, fmt.Sprintf("%s:%s", kind, filename))
	if a.err != nil {
		return nil, a.err
	}
	return &entity.AudioClip{MIMEType: "audio/mpeg", Data: []byte("mp3"), Filename: filename}, nil
}

type fakeASR struct {
	results []*entity.Transcription
	errs    []error
	calls   int
}

func (a *fakeASR) Transcribe(_ context.Context, clip *entity.AudioClip) (*entity.Transcription, error) {
	i := a.calls
	a.calls++
	if i < len(a.errs) && a.errs[i] != nil {
		return nil, a.errs[i]
	}
	if i < len(a.results) {
		return a.results[i], nil
	}
	return &entity.Transcription{Transcript: "fine", WordCount: 1}, nil
}

type fakeLLM struct {
	feedback string
	err      error
	requests []*entity.EvaluateRequest
	combined int
}

func (l *fakeLLM) Evaluate(_ context.Context, req *entity.EvaluateRequest) (string, error) {
	l.requests = append(l.requests, req)
	return l.feedback, l.err
}

func (l *fakeLLM) EvaluateCombined(_ context.Context, _ *entity.CombinedEvaluationRequest) (string, error) {
	l.combined++
	return "", fmt.Errorf("combined: %w", entity.ErrNotImplemented)
}

type fakeTTS struct {
	texts []string
}

func (t *fakeTTS) Synthesize(_ context.Context, text string) (*entity.AudioClip, error) {
	t.texts = append(t.texts, text)
	return &entity.AudioClip{MIMEType: "audio/mpeg", Data: []byte(text)}, nil
}

type fakeVocabulary struct {
	cards []*entity.VocabularyCard
}

func (v *fakeVocabulary) SaveCard(_ context.Context, card *entity.VocabularyCard) error {
	v.cards = append(v.cards, card)
	return nil
}

type fakeRecorder struct {
	startErr error
	starts   int
	stops    int
}

func (r *fakeRecorder) Start(context.Context) (*audio.Session, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.starts++
	return &audio.Session{MIMEType: "audio/webm;codecs=opus"}, nil
}

func (r *fakeRecorder) Stop(context.Context, *audio.Session) (*entity.AudioClip, error) {
	r.stops++
	return &entity.AudioClip{MIMEType: "audio/webm;codecs=opus", Data: []byte("webm")}, nil
}

// fakePlayer finishes at once, fails with err, or with block set plays
// until it is stopped
type fakePlayer struct {
	played []string
	err    error
	block  bool
}

func (p *fakePlayer) Play(ctx context.Context, clip *entity.AudioClip) error {
	p.played = append(p.played, clip.Filename)
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

// fakeTimer ticks synchronously and records every countdown length. A
// countdown of blockAt seconds ticks blockTicks times and then waits to
// be stopped.
type fakeTimer struct {
	mu         sync.Mutex
	runs       []int
	blockAt    int
	blockTicks int
}

func (t *fakeTimer) Run(ctx context.Context, seconds int, onTick func(int)) error {
	t.mu.Lock()
	t.runs = append(t.runs, seconds)
	t.mu.Unlock()

	blocking := seconds == t.blockAt
	for remaining := seconds - 1; remaining >= 0; remaining-- {
		if blocking && seconds-remaining > t.blockTicks {
			<-ctx.Done()
			return ctx.Err()
		}
		if err := ctx.Err(); err != nil && !blocking {
			return err
		}
		if onTick != nil {
			onTick(remaining)
		}
	}
	return nil
}

func (t *fakeTimer) lengths() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.runs...)
}

type fakeDisplay struct {
	mu        sync.Mutex
	intros    []entity.TaskKind
	questions []string
	notices   []string
	alerts    []string
	results   int
	summary   *entity.RunSummary
	lastTick  map[Stage]int
}

func (d *fakeDisplay) TaskIntro(_, _ int, kind entity.TaskKind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.intros = append(d.intros, kind)
}

func (d *fakeDisplay) Reading(string, string) {}

func (d *fakeDisplay) Question(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.questions = append(d.questions, text)
}

func (d *fakeDisplay) Countdown(stage Stage, remaining, _ int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastTick == nil {
		d.lastTick = make(map[Stage]int)
	}
	d.lastTick[stage] = remaining
}

func (d *fakeDisplay) Notice(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices = append(d.notices, message)
}

func (d *fakeDisplay) Alert(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, message)
}

func (d *fakeDisplay) TaskResult(*entity.TaskResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results++
}

func (d *fakeDisplay) Summary(s *entity.RunSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.summary = s
}

// fakeControls presses Enter for the first skips waits, then waits for
// ctx, and plays back scripted choices
type fakeControls struct {
	mu        sync.Mutex
	skips     int
	skipCalls int

	typed    string
	actions  []Action
	awaits   int
	allowed  []bool
	composed int
}

func (c *fakeControls) WaitSkip(ctx context.Context) error {
	c.mu.Lock()
	c.skipCalls++
	if c.skips > 0 {
		c.skips--
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

func (c *fakeControls) Compose(context.Context) (string, error) {
	c.composed++
	return c.typed, nil
}

func (c *fakeControls) AwaitContinue(_ context.Context, allowSave bool) (Action, error) {
	c.awaits++
	c.allowed = append(c.allowed, allowSave)
	if len(c.actions) == 0 {
		return ActionContinue, nil
	}
	a := c.actions[0]
	c.actions = c.actions[1:]
	return a, nil
}

type harness struct {
	catalog    *fakeCatalog
	audio      *fakePromptAudio
	asr        *fakeASR
	llm        *fakeLLM
	tts        *fakeTTS
	vocabulary *fakeVocabulary
	recorder   *fakeRecorder
	player     *fakePlayer
	timer      *fakeTimer
	display    *fakeDisplay
	controls   *fakeControls
}

func newHarness() *harness {
	return &harness{
		catalog:    &fakeCatalog{lists: make(map[entity.TaskKind][]entity.Prompt)},
		audio:      &fakePromptAudio{},
		asr:        &fakeASR{},
		llm:        &fakeLLM{},
		tts:        &fakeTTS{},
		vocabulary: &fakeVocabulary{},
		recorder:   &fakeRecorder{},
		player:     &fakePlayer{},
		timer:      &fakeTimer{},
		display:    &fakeDisplay{},
		controls:   &fakeControls{},
	}
}

func (h *harness) usecase() *ExamUsecase {
	uc := NewUsecase(
		h.catalog, h.audio, h.asr, h.llm, h.tts, h.vocabulary,
		h.recorder, h.player, h.timer, h.display, h.controls,
		config.TimingConfig{}, zap.NewNop(),
	)
	uc.pick = func(int) int { return 0 }
	return uc
}
