package builder

import (
	"fmt"
	"io"

	"github.com/futig/exam-practice/internal/audio"
	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/console"
	"github.com/futig/exam-practice/internal/integration/asr"
	"github.com/futig/exam-practice/internal/integration/llm"
	"github.com/futig/exam-practice/internal/integration/prompts"
	"github.com/futig/exam-practice/internal/integration/settings"
	"github.com/futig/exam-practice/internal/integration/tts"
	"github.com/futig/exam-practice/internal/integration/vocabulary"
	"github.com/futig/exam-practice/internal/pkg/countdown"
	"github.com/futig/exam-practice/internal/pkg/formatter"
	"github.com/futig/exam-practice/internal/pkg/logger"
	"github.com/futig/exam-practice/internal/pkg/validator"
	"github.com/futig/exam-practice/internal/usecase/exam"
	promptsuc "github.com/futig/exam-practice/internal/usecase/prompts"
	"go.uber.org/zap"
)

// promptBackend is everything the application needs from the prompt store
type promptBackend interface {
	prompts.Store
	promptsuc.FileConnector
	exam.PromptAudio
}

// Options are the process-level inputs that do not come from the environment
type Options struct {
	Environment string
	LogLevel    string // overrides LOG_LEVEL when set
	In          io.Reader
	Out         io.Writer
}

// Build loads the configuration and wires every component of the client
func Build(opts Options) (*App, error) {
	cfg, err := config.LoadConfig(opts.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment != "prod" && cfg.Environment != "production")
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("backend_url", cfg.BackendCfg.Url),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	// Initialize connectors (with mock support)
	var (
		promptConnector     promptBackend
		asrConnector        exam.ASRConnector
		llmConnector        exam.LLMConnector
		ttsConnector        exam.TTSConnector
		vocabularyConnector exam.VocabularyConnector
		settingsConnector   SettingsConnector
		device              audio.Device
		player              exam.Player
	)

	if cfg.EnableMocks {
		log.Info("Using mock connectors and a synthetic microphone")
		promptConnector = prompts.NewMockConnector(log)
		asrConnector = asr.NewMockConnector(log)
		llmConnector = llm.NewMockConnector(log)
		ttsConnector = tts.NewMockConnector(log)
		vocabularyConnector = vocabulary.NewMockConnector(log)
		settingsConnector = settings.NewMockConnector(log)
		device = audio.NewSyntheticDevice()
		player = &audio.SilentPlayer{Duration: cfg.TimingCfg.AdvanceDelay}
	} else {
		log.Info("Using backend connectors")
		promptConnector = prompts.NewConnector(cfg.BackendCfg, log)
		asrConnector = asr.NewConnector(cfg.BackendCfg, log)
		llmConnector = llm.NewConnector(cfg.BackendCfg, log)
		ttsConnector = tts.NewConnector(cfg.BackendCfg, log)
		vocabularyConnector = vocabulary.NewConnector(cfg.BackendCfg, log)
		settingsConnector = settings.NewConnector(cfg.BackendCfg, log)
		device = audio.NewCommandDevice(cfg.AudioCfg.CaptureCommand, cfg.AudioCfg.CaptureMIMETypes)
		player = audio.NewCommandPlayer(cfg.AudioCfg.PlayCommand)
	}

	catalog := prompts.NewCatalog(promptConnector)
	recorder := audio.NewRecorder(device, cfg.AudioCfg)
	timer := countdown.New(cfg.TimingCfg.Tick)
	term := console.New(opts.In, opts.Out)

	log.Info("Connectors initialized", zap.String("capture_encoding", audio.SelectEncoding(device)))

	// Initialize use cases
	examUC := exam.NewUsecase(
		catalog,
		promptConnector,
		asrConnector,
		llmConnector,
		ttsConnector,
		vocabularyConnector,
		recorder,
		player,
		timer,
		term,
		term,
		cfg.TimingCfg,
		log,
	)

	promptUC := promptsuc.NewUsecase(
		catalog,
		promptConnector,
		validator.NewValidator(cfg.UploadCfg),
		log,
	)
	log.Info("Use cases initialized")

	return &App{
		Config:     cfg,
		Logger:     log,
		Console:    term,
		Exam:       examUC,
		Prompts:    promptUC,
		Settings:   settingsConnector,
		Formatters: formatter.NewFactory(),
	}, nil
}
