package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/futig/exam-practice/internal/builder"
	"github.com/futig/exam-practice/internal/console"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/spf13/cobra"
)

var version = "dev"

// Exit codes
const (
	ExitSuccess    = 0
	ExitSetupError = 1 // the run could not start: missing prompts, bad input
	ExitError      = 2
)

// state is shared by every command; the application is built on first use
type state struct {
	environment string
	logLevel    string
	in          io.Reader
	out         io.Writer

	build func(builder.Options) (*builder.App, error)
	app   *builder.App
}

func (s *state) application() (*builder.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	app, err := s.build(builder.Options{
		Environment: s.environment,
		LogLevel:    s.logLevel,
		In:          s.in,
		Out:         s.out,
	})
	if err != nil {
		return nil, err
	}
	s.app = app
	return app, nil
}

// run builds the application and executes fn under its signal context
func (s *state) run(cmd *cobra.Command, action string, fn func(ctx context.Context, app *builder.App) error) error {
	app, err := s.application()
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(cmd.Context(), action, func(ctx context.Context) error {
		return fn(ctx, app)
	})
}

func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	s := &state{in: in, out: out, build: builder.Build}
	return newRootCommand(s)
}

func newRootCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examprep",
		Short: "examprep - TOEFL and IELTS practice in the terminal",
		Long: `examprep runs timed TOEFL and IELTS practice tasks against the practice
backend: it reads prompts, records spoken answers, collects typed essays,
and shows transcripts with AI feedback.

Prompt collections are managed with the "prompts" commands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetIn(s.in)
	cmd.SetOut(s.out)

	cmd.PersistentFlags().StringVar(&s.environment, "env", "local", "Environment; selects the .env.<env> file")
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(newConfigCommand(s))
	cmd.AddCommand(newPromptsCommand(s))
	cmd.AddCommand(newTOEFLCommand(s))
	cmd.AddCommand(newPracticeCommand(s))

	return cmd
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	cmd := NewRootCommand(os.Stdin, os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		return exitCode(err)
	}
	return ExitSuccess
}

func describe(err error) string {
	if msg := console.ClassifyError(err); msg != console.ErrGeneric {
		return msg
	}
	return err.Error()
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField):
		return ExitSetupError
	default:
		return ExitError
	}
}
