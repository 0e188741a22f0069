package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/futig/exam-practice/internal/builder"
	"github.com/futig/exam-practice/internal/console"
	"github.com/futig/exam-practice/internal/entity"
	promptsuc "github.com/futig/exam-practice/internal/usecase/prompts"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newPromptsCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage prompt collections",
		Long: `List, create, update and delete the prompts of a collection.

KIND selects the collection: toefl2..toefl6 (or 2..6), speaking1..3 (one
shared collection filtered by part), writing1, writing2. TOEFL task 1 has no
collection; its questions are typed when the test starts.`,
	}

	cmd.AddCommand(newPromptsListCommand(s))
	cmd.AddCommand(newPromptsGetCommand(s))
	cmd.AddCommand(newPromptsCreateCommand(s))
	cmd.AddCommand(newPromptsUpdateCommand(s))
	cmd.AddCommand(newPromptsDeleteCommand(s))
	cmd.AddCommand(newPromptsUploadAudioCommand(s))
	cmd.AddCommand(newPromptsUploadDiagramCommand(s))
	cmd.AddCommand(newPromptsAudioListCommand(s))
	cmd.AddCommand(newPromptsImportCommand(s))
	cmd.AddCommand(newPromptsExportCommand(s))

	return cmd
}

func parseKindAndID(args []string) (entity.TaskKind, int, error) {
	kind, err := entity.ParseTaskKind(args[0])
	if err != nil {
		return "", 0, err
	}
	if len(args) < 2 {
		return kind, 0, nil
	}
	id, err := strconv.Atoi(args[1])
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("%w: prompt id %q", entity.ErrInvalidParameter, args[1])
	}
	return kind, id, nil
}

func newPromptsListCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list KIND",
		Short: "List the prompts of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			return s.run(cmd, "prompts_list", func(ctx context.Context, app *builder.App) error {
				list, err := app.Prompts.List(ctx, kind)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					app.Console.Notice("No prompts yet. Add one with \"examprep prompts create " + string(kind) + "\".")
					return nil
				}
				for i := range list {
					app.Console.Print(console.RenderPromptLine(&list[i]))
				}
				return nil
			})
		},
	}
}

func newPromptsGetCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "get KIND ID",
		Short: "Show one prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			return s.run(cmd, "prompts_get", func(ctx context.Context, app *builder.App) error {
				prompt, err := app.Prompts.Get(ctx, kind, id)
				if err != nil {
					return err
				}
				app.Console.Print(describePrompt(prompt)...)
				return nil
			})
		},
	}
}

func describePrompt(p *entity.Prompt) []string {
	lines := []string{fmt.Sprintf("ID: %d", p.ID)}
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, label+": "+value)
		}
	}
	if p.Part > 0 {
		add("Part", strconv.Itoa(p.Part))
	}
	add("Topic", p.Topic)
	add("Question", p.Question)
	add("Reading", p.Reading)
	add("Professor question", p.ProfessorQuestion)
	for i, post := range p.StudentPosts {
		add(fmt.Sprintf("Student %d", i+1), post)
	}
	add("Notes", p.Notes)
	add("Essay type", p.EssayType)
	add("Diagram", p.DiagramFile)
	add("Diagram description", p.DiagramDescription)
	add("Audio", p.AudioFile)
	return lines
}

// promptFlags are the editable prompt fields plus file attachments
type promptFlags struct {
	fields      entity.PromptFields
	audioFile   string
	clearAudio  bool
	audioPath   string
	diagramPath string
}

func (f *promptFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.fields.Question, "question", "", "Question text")
	flags.StringVar(&f.fields.Topic, "topic", "", "Topic (IELTS Speaking Part 2 cue card)")
	flags.StringVar(&f.fields.Reading, "reading", "", "Reading passage (TOEFL 2, 3, 5)")
	flags.StringVar(&f.fields.Notes, "notes", "", "Notes")
	flags.IntVar(&f.fields.Part, "part", 0, "Speaking part (defaults to the part of KIND)")
	flags.StringVar(&f.fields.EssayType, "essay-type", "", "Essay type (IELTS Writing Task 2)")
	flags.StringVar(&f.fields.DiagramDescription, "diagram-description", "", "Diagram description (IELTS Writing Task 1)")
	flags.StringVar(&f.fields.ProfessorQuestion, "professor-question", "", "Professor question (TOEFL 6)")
	flags.StringArrayVar(&f.fields.StudentPosts, "student-post", nil, "Student post (TOEFL 6, repeatable)")
	flags.StringVar(&f.audioFile, "audio-file", "", "Name of audio already uploaded to the collection")
	flags.StringVar(&f.audioPath, "audio", "", "Local audio file to upload and attach")
	flags.StringVar(&f.diagramPath, "diagram", "", "Local image to upload as the diagram (IELTS Writing Task 1)")
}

func (f *promptFlags) attachments() (audio, diagram *promptsuc.Attachment, err error) {
	if f.audioPath != "" {
		if audio, err = readAttachment(f.audioPath); err != nil {
			return nil, nil, err
		}
	}
	if f.diagramPath != "" {
		if diagram, err = readAttachment(f.diagramPath); err != nil {
			return nil, nil, err
		}
	}
	return audio, diagram, nil
}

func readAttachment(path string) (*promptsuc.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &promptsuc.Attachment{Filename: path, Data: data}, nil
}

func newPromptsCreateCommand(s *state) *cobra.Command {
	var flags promptFlags

	cmd := &cobra.Command{
		Use:   "create KIND",
		Short: "Add a prompt to a collection",
		Example: `  examprep prompts create toefl2 --reading "The university plans..." --audio talk.mp3
  examprep prompts create speaking2 --topic "Describe a trip" --question "You should say..."
  examprep prompts create toefl6 --professor-question "..." --student-post "..." --student-post "..."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			audio, diagram, err := flags.attachments()
			if err != nil {
				return err
			}

			fields := flags.fields
			if flags.audioFile != "" {
				fields.AudioFile = &flags.audioFile
			}

			return s.run(cmd, "prompts_create", func(ctx context.Context, app *builder.App) error {
				id, err := app.Prompts.Save(ctx, kind, 0, &fields, audio, diagram)
				if err != nil {
					return err
				}
				app.Console.Success(fmt.Sprintf("Prompt #%d created.", id))
				return nil
			})
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func newPromptsUpdateCommand(s *state) *cobra.Command {
	var flags promptFlags

	cmd := &cobra.Command{
		Use:   "update KIND ID",
		Short: "Change fields of a prompt",
		Long: `Change fields of a prompt. Only the given flags change; the other fields
keep their stored values. --clear-audio removes the audio attachment.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			audio, diagram, err := flags.attachments()
			if err != nil {
				return err
			}

			return s.run(cmd, "prompts_update", func(ctx context.Context, app *builder.App) error {
				current, err := app.Prompts.Get(ctx, kind, id)
				if err != nil {
					return err
				}

				fields := mergeFields(current, &flags, cmd.Flags())
				if _, err := app.Prompts.Save(ctx, kind, id, fields, audio, diagram); err != nil {
					return err
				}
				app.Console.Success(fmt.Sprintf("Prompt #%d updated.", id))
				return nil
			})
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&flags.clearAudio, "clear-audio", false, "Remove the audio attachment")

	return cmd
}

// mergeFields overlays the flags that were set on the stored prompt; the
// backend replaces the whole prompt on update
func mergeFields(p *entity.Prompt, f *promptFlags, set *pflag.FlagSet) *entity.PromptFields {
	fields := &entity.PromptFields{
		Part:               p.Part,
		Question:           p.Question,
		Topic:              p.Topic,
		Reading:            p.Reading,
		Notes:              p.Notes,
		DiagramDescription: p.DiagramDescription,
		EssayType:          p.EssayType,
		ProfessorQuestion:  p.ProfessorQuestion,
		StudentPosts:       p.StudentPosts,
	}
	if p.AudioFile != "" {
		audio := p.AudioFile
		fields.AudioFile = &audio
	}
	if p.DiagramFile != "" {
		diagram := p.DiagramFile
		fields.DiagramFile = &diagram
	}

	overrides := map[string]func(){
		"question":            func() { fields.Question = f.fields.Question },
		"topic":               func() { fields.Topic = f.fields.Topic },
		"reading":             func() { fields.Reading = f.fields.Reading },
		"notes":               func() { fields.Notes = f.fields.Notes },
		"part":                func() { fields.Part = f.fields.Part },
		"essay-type":          func() { fields.EssayType = f.fields.EssayType },
		"diagram-description": func() { fields.DiagramDescription = f.fields.DiagramDescription },
		"professor-question":  func() { fields.ProfessorQuestion = f.fields.ProfessorQuestion },
		"student-post":        func() { fields.StudentPosts = f.fields.StudentPosts },
		"audio-file":          func() { fields.AudioFile = &f.audioFile },
	}
	for name, apply := range overrides {
		if set.Changed(name) {
			apply()
		}
	}

	if f.clearAudio {
		fields.AudioFile = nil
	}
	return fields
}

func newPromptsDeleteCommand(s *state) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete KIND ID",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			return s.run(cmd, "prompts_delete", func(ctx context.Context, app *builder.App) error {
				if !yes {
					ok, err := app.Console.Confirm(ctx, fmt.Sprintf("Delete prompt #%d of %s?", id, kind.Label()))
					if err != nil || !ok {
						return err
					}
				}
				if err := app.Prompts.Delete(ctx, kind, id); err != nil {
					return err
				}
				app.Console.Success(fmt.Sprintf("Prompt #%d deleted.", id))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newPromptsUploadAudioCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-audio KIND FILE",
		Short: "Upload an audio file to a TOEFL collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseTaskKind(args[0])
			if err != nil {
				return err
			}
			file, err := readAttachment(args[1])
			if err != nil {
				return err
			}
			return s.run(cmd, "upload_audio", func(ctx context.Context, app *builder.App) error {
				stored, err := app.Prompts.UploadAudio(ctx, kind, file)
				if err != nil {
					return err
				}
				app.Console.Success("Uploaded as " + stored)
				return nil
			})
		},
	}
}

func newPromptsUploadDiagramCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-diagram FILE",
		Short: "Upload an IELTS Writing Task 1 diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readAttachment(args[0])
			if err != nil {
				return err
			}
			return s.run(cmd, "upload_diagram", func(ctx context.Context, app *builder.App) error {
				stored, err := app.Prompts.UploadDiagram(ctx, file)
				if err != nil {
					return err
				}
				app.Console.Success("Uploaded as " + stored)
				return nil
			})
		},
	}
}

func newPromptsAudioListCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "audio-list KIND",
		Short: "List the audio files of a TOEFL collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseTaskKind(args[0])
			if err != nil {
				return err
			}
			return s.run(cmd, "audio_list", func(ctx context.Context, app *builder.App) error {
				files, err := app.Prompts.ListAudio(ctx, kind)
				if err != nil {
					return err
				}
				content, err := app.Prompts.Content(ctx, kind)
				if err != nil {
					return err
				}
				for _, f := range files {
					line := f
					if content.AudioPath != "" && f == content.AudioPath {
						line += "  (latest)"
					}
					app.Console.Print(line)
				}
				if len(files) == 0 {
					app.Console.Notice("No audio files uploaded.")
				}
				return nil
			})
		},
	}
}
