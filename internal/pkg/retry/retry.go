package retry

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	pkghttp "github.com/futig/exam-practice/pkg/http"
)

const (
	defaultAttempts = 3
	defaultMaxDelay = 2 * time.Second
	defaultDelay    = 200 * time.Millisecond
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Do runs fn under the policy. Only use it for idempotent reads: prompt
// writes, uploads and transcription are never retried.
func Do[T any](ctx context.Context, rc *RetryConfig, fn func() (T, error)) (T, error) {
	if rc == nil {
		rc = DefaultRetryConfig()
	}
	// retry-go treats zero attempts as unlimited
	if rc.Attempts == 0 {
		single := *rc
		single.Attempts = 1
		rc = &single
	}
	opts := append(rc.ToRetryOptions(), retry.Context(ctx))
	return retry.DoWithData(fn, opts...)
}

// IsTransient reports whether err is worth another attempt: network
// failures and 5xx responses are, client errors are not.
func IsTransient(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}

	return false
}
