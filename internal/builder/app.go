package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/console"
	"github.com/futig/exam-practice/internal/pkg/formatter"
	"github.com/futig/exam-practice/internal/pkg/logger"
	"github.com/futig/exam-practice/internal/usecase/exam"
	promptsuc "github.com/futig/exam-practice/internal/usecase/prompts"
	"go.uber.org/zap"
)

type SettingsConnector interface {
	SaveAPIKey(ctx context.Context, apiKey string) error
}

// App holds the wired components a command works with
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Console    *console.Console
	Exam       *exam.ExamUsecase
	Prompts    *promptsuc.PromptUsecase
	Settings   SettingsConnector
	Formatters *formatter.Factory
}

// Run executes fn with a context that is cancelled on SIGINT or SIGTERM.
// A cancelled run is not reported as an error.
func (a *App) Run(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.Attach(ctx, a.Logger)
	ctx = logger.WithAction(ctx, action)

	err := a.recovered(ctx, fn)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		a.Logger.Info("Interrupted, stopping", zap.String("action", action))
		return nil
	}
	return err
}

// recovered turns a panic inside fn into an error so the terminal is
// left in a usable state and the stack reaches the log
func (a *App) recovered(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	return fn(ctx)
}

// Close flushes buffered log entries
func (a *App) Close() {
	// Sync fails on stderr for some terminals; nothing to do about it.
	_ = a.Logger.Sync()
}
