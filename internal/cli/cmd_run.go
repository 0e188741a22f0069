package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/futig/exam-practice/internal/builder"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/pkg/validator"
	"github.com/spf13/cobra"
)

// runFlags are shared by the toefl and practice commands
type runFlags struct {
	apiKey     string
	noEval     bool
	task1      []string
	task1File  string
	reportPath string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key for AI evaluation (default: API_KEY)")
	cmd.Flags().BoolVar(&f.noEval, "no-eval", false, "Skip AI evaluation even when an API key is configured")
	cmd.Flags().StringArrayVar(&f.task1, "task1", nil, "Task 1 question (repeatable)")
	cmd.Flags().StringVar(&f.task1File, "task1-file", "", "File with one Task 1 question per line")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "Save the results to a .md, .html, .pdf or .docx file")
}

// task1Prompts merges the typed questions with the lines of --task1-file
func (f *runFlags) task1Prompts() ([]string, error) {
	prompts := append([]string(nil), f.task1...)
	if f.task1File == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(f.task1File)
	if err != nil {
		return nil, fmt.Errorf("read task 1 questions: %w", err)
	}
	return append(prompts, validator.Task1Lines(string(data))...), nil
}

func (f *runFlags) key(app *builder.App) string {
	if f.noEval {
		return ""
	}
	if f.apiKey != "" {
		return f.apiKey
	}
	return app.Config.APIKey
}

func newTOEFLCommand(s *state) *cobra.Command {
	var (
		flags    runFlags
		tasks    []string
		selected []string
		realTest bool
	)

	cmd := &cobra.Command{
		Use:   "toefl",
		Short: "Run a timed TOEFL practice test",
		Long: `Run the selected TOEFL tasks one after another with exam timing.

Tasks 1-4 are speaking tasks, 5 and 6 are writing tasks. Task 1 questions
are typed with --task1 or read from --task1-file; the other tasks use a
random prompt of their collection unless one is chosen with --prompt.

With --real-test no feedback is requested and every task advances on its
own after it ends.`,
		Example: `  examprep toefl --tasks 1,2,3,4 --task1-file questions.txt
  examprep toefl --tasks 2 --prompt 2=5 --report results.pdf
  examprep toefl --tasks 1-4 --real-test --task1 "Describe your hometown."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, reordered, err := parseTOEFLTasks(tasks)
			if err != nil {
				return err
			}
			promptIDs, err := validator.ParsePromptSelection(selected)
			if err != nil {
				return err
			}
			task1, err := flags.task1Prompts()
			if err != nil {
				return err
			}

			return s.run(cmd, "toefl", func(ctx context.Context, app *builder.App) error {
				if reordered {
					app.Console.Notice("Tasks run in exam order: " + taskLabels(kinds))
				}
				return runExam(ctx, app, entity.RunConfig{
					SelectedTasks:      kinds,
					APIKey:             flags.key(app),
					RealTestConditions: realTest,
					SelectedPromptIDs:  promptIDs,
					Task1Prompts:       task1,
				}, flags.reportPath)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&tasks, "tasks", []string{"1", "2", "3", "4"}, "TOEFL tasks to run (numbers 1-6, or a range such as 1-4); they always run in exam order and repeats are ignored")
	cmd.Flags().StringArrayVar(&selected, "prompt", nil, "Use a specific prompt, as TASK=ID (repeatable)")
	cmd.Flags().BoolVar(&realTest, "real-test", false, "Real test conditions: no feedback, automatic advance")

	return cmd
}

// parseTOEFLTasks accepts task numbers and "a-b" ranges. reordered
// reports that the tasks were not typed in exam order or were repeated.
func parseTOEFLTasks(raw []string) (kinds []entity.TaskKind, reordered bool, err error) {
	var expanded []string
	for _, item := range raw {
		from, to, isRange := cutRange(item)
		if !isRange {
			expanded = append(expanded, item)
			continue
		}
		if from > to {
			return nil, false, fmt.Errorf("%w: task range %q", entity.ErrInvalidParameter, item)
		}
		for n := from; n <= to; n++ {
			expanded = append(expanded, strconv.Itoa(n))
		}
	}

	kinds, err = validator.ParseTaskList(expanded)
	if err != nil {
		return nil, false, err
	}
	for _, kind := range kinds {
		if kind.TOEFLNumber() == 0 {
			return nil, false, fmt.Errorf("%w: %s is not a TOEFL task, use \"examprep practice\"", entity.ErrInvalidParameter, kind)
		}
	}

	var typed []entity.TaskKind
	for _, item := range expanded {
		for _, part := range strings.Split(item, ",") {
			if kind, err := entity.ParseTaskKind(part); err == nil {
				typed = append(typed, kind)
			}
		}
	}
	return kinds, !slices.Equal(typed, kinds), nil
}

func taskLabels(kinds []entity.TaskKind) string {
	labels := make([]string, len(kinds))
	for i, kind := range kinds {
		labels[i] = kind.Label()
	}
	return strings.Join(labels, ", ")
}

func cutRange(item string) (int, int, bool) {
	var from, to int
	if n, err := fmt.Sscanf(item, "%d-%d", &from, &to); err != nil || n != 2 {
		return 0, 0, false
	}
	return from, to, true
}

func newPracticeCommand(s *state) *cobra.Command {
	var (
		flags    runFlags
		promptID int
	)

	cmd := &cobra.Command{
		Use:   "practice KIND",
		Short: "Practice a single task",
		Long: `Practice one task of any kind with feedback after it ends.

KIND is one of: toefl1..toefl6 (or 1..6), speaking1, speaking2, speaking3,
writing1, writing2.`,
		Example: `  examprep practice speaking2
  examprep practice writing2 --prompt 7 --report essay.docx
  examprep practice 1 --task1 "Do you prefer mornings or evenings?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseTaskKind(args[0])
			if err != nil {
				return err
			}

			var promptIDs map[entity.TaskKind]int
			if promptID > 0 {
				if kind.PromptStore() == "" {
					return fmt.Errorf("%w: %s", entity.ErrNoPromptStore, kind)
				}
				promptIDs = map[entity.TaskKind]int{kind: promptID}
			}

			task1, err := flags.task1Prompts()
			if err != nil {
				return err
			}

			return s.run(cmd, "practice", func(ctx context.Context, app *builder.App) error {
				return runExam(ctx, app, entity.RunConfig{
					SelectedTasks:     []entity.TaskKind{kind},
					APIKey:            flags.key(app),
					SelectedPromptIDs: promptIDs,
					Task1Prompts:      task1,
				}, flags.reportPath)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&promptID, "prompt", 0, "Use the prompt with this ID instead of a random one")

	return cmd
}

// runExam passes the setup gate, runs every task and exports the report
func runExam(ctx context.Context, app *builder.App, cfg entity.RunConfig, reportPath string) error {
	if reportPath != "" {
		if _, err := entity.FormatFromPath(reportPath); err != nil {
			return fmt.Errorf("report %s: %w (use .md, .html, .pdf or .docx)", reportPath, err)
		}
	}

	run, err := app.Exam.Prepare(ctx, cfg)
	if err != nil {
		return err
	}

	summary, err := app.Exam.Run(ctx, run)
	if err != nil {
		return err
	}

	if reportPath == "" {
		return nil
	}
	return writeReport(app, summary, reportPath)
}
