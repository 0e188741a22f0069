package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/futig/exam-practice/internal/builder"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// readPromptFile decodes a YAML list of prompts. Unknown keys are rejected
// so a typo does not silently create an empty prompt.
func readPromptFile(path string) ([]entity.PromptFields, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var list []entity.PromptFields
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrInvalidFormat, path, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s contains no prompts", entity.ErrInvalidFormat, path)
	}
	return list, nil
}

func newPromptsImportCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "import KIND FILE",
		Short: "Create every prompt listed in a YAML file",
		Long: `Create prompts from a YAML list. Keys match the prompt fields:
question, topic, reading, audio_file, notes, diagram_description,
essay_type, professor_question, student_posts.

Audio and diagram files must already be uploaded; refer to them by their
stored name. Import stops at the first prompt the backend rejects.`,
		Example: `  examprep prompts import speaking2 cue-cards.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseTaskKind(args[0])
			if err != nil {
				return err
			}
			list, err := readPromptFile(args[1])
			if err != nil {
				return err
			}

			return s.run(cmd, "prompts_import", func(ctx context.Context, app *builder.App) error {
				ids := make([]string, 0, len(list))
				for i := range list {
					id, err := app.Prompts.Save(ctx, kind, 0, &list[i], nil, nil)
					if err != nil {
						return fmt.Errorf("prompt %d of %d (%d created): %w", i+1, len(list), len(ids), err)
					}
					ids = append(ids, fmt.Sprintf("#%d", id))
				}
				app.Console.Success(fmt.Sprintf("Imported %d prompts: %s", len(ids), strings.Join(ids, ", ")))
				return nil
			})
		},
	}
}

func newPromptsExportCommand(s *state) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "export KIND",
		Short:   "Write a collection as YAML",
		Example: `  examprep prompts export toefl6 --output discussions.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseTaskKind(args[0])
			if err != nil {
				return err
			}

			return s.run(cmd, "prompts_export", func(ctx context.Context, app *builder.App) error {
				list, err := app.Prompts.List(ctx, kind)
				if err != nil {
					return err
				}

				data, err := yaml.Marshal(list)
				if err != nil {
					return fmt.Errorf("encode prompts: %w", err)
				}

				if output == "" {
					app.Console.Print(strings.TrimRight(string(data), "\n"))
					return nil
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				app.Console.Success(fmt.Sprintf("Exported %d prompts to %s", len(list), output))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}
