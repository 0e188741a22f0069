package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/exam-practice/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Practice backend
	BackendCfg BackendConfig `envPrefix:"BACKEND_"`

	// API key forwarded to /evaluate; may be overridden per run
	APIKey string `env:"API_KEY"`

	// Audio capture and playback
	AudioCfg AudioConfig `envPrefix:"AUDIO_"`

	// Countdown and advance delays
	TimingCfg TimingConfig `envPrefix:"TIMER_"`

	// Upload limits checked before sending files
	UploadCfg UploadConfig `envPrefix:"UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type BackendConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	// Zero RequestTimeout leaves transcription and evaluation unbounded
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"4"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:5000"`
}

type AudioConfig struct {
	// Command that writes captured audio to stdout, e.g. "arecord -q -f S16_LE -r 16000 -t wav -"
	CaptureCommand string `env:"CAPTURE_COMMAND"`
	// Encodings the capture command can produce, in no particular order
	CaptureMIMETypes []string `env:"CAPTURE_MIME_TYPES" envDefault:"audio/wav" envSeparator:","`
	// Command that plays audio read from stdin, e.g. "ffplay -nodisp -autoexit -loglevel quiet -"
	PlayCommand  string        `env:"PLAY_COMMAND"`
	Timeslice    time.Duration `env:"TIMESLICE" envDefault:"1s"`
	LevelMonitor bool          `env:"LEVEL_MONITOR" envDefault:"true"`
}

type TimingConfig struct {
	Tick         time.Duration `env:"TICK" envDefault:"1s"`
	AdvanceDelay time.Duration `env:"ADVANCE_DELAY" envDefault:"2s"`
	NoticeDelay  time.Duration `env:"NOTICE_DELAY" envDefault:"3s"`
}

// UploadConfig holds file upload limits
type UploadConfig struct {
	MaxAudioFileSize   int64 `env:"MAX_AUDIO_FILE_SIZE" envDefault:"26214400"`   // 25 MiB
	MaxDiagramFileSize int64 `env:"MAX_DIAGRAM_FILE_SIZE" envDefault:"10485760"` // 10 MiB
}

// LoadConfig reads .env.<environment> if present and parses the environment
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// A missing env file is fine: variables may come from the shell.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.BackendCfg.Url == "" {
		errors = append(errors, "BACKEND_SERVICE_URL must not be empty")
	}

	if cfg.BackendCfg.Retry.Attempts < 1 || cfg.BackendCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("BACKEND_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.BackendCfg.Retry.Attempts))
	}

	if cfg.TimingCfg.Tick <= 0 {
		errors = append(errors, fmt.Sprintf("TIMER_TICK must be positive, got %s", cfg.TimingCfg.Tick))
	}

	if cfg.TimingCfg.AdvanceDelay < 0 || cfg.TimingCfg.NoticeDelay < 0 {
		errors = append(errors, "TIMER_ADVANCE_DELAY and TIMER_NOTICE_DELAY must not be negative")
	}

	if cfg.AudioCfg.Timeslice <= 0 {
		errors = append(errors, fmt.Sprintf("AUDIO_TIMESLICE must be positive, got %s", cfg.AudioCfg.Timeslice))
	}

	if !cfg.EnableMocks && cfg.AudioCfg.CaptureCommand != "" && len(cfg.AudioCfg.CaptureMIMETypes) == 0 {
		errors = append(errors, "AUDIO_CAPTURE_MIME_TYPES must list at least one encoding")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development", "":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
