package exam

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/exam-practice/internal/entity"
)

func (uc *ExamUsecase) countdown(ctx context.Context, stage Stage, seconds int) error {
	uc.display.Countdown(stage, seconds, seconds)
	return uc.timer.Run(ctx, seconds, func(remaining int) {
		uc.display.Countdown(stage, remaining, seconds)
	})
}

// pause waits d unless ctx ends first
func (uc *ExamUsecase) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// questionText is what gets recorded and sent for evaluation
func questionText(run *Run, kind entity.TaskKind) string {
	if kind == entity.TaskTOEFL1 {
		return run.Task1Prompt
	}
	prompt := run.Prompts[kind]
	if prompt == nil {
		return ""
	}
	return prompt.QuestionText(kind)
}

// displayText is what the candidate sees as the task question
func displayText(run *Run, kind entity.TaskKind) string {
	question := questionText(run, kind)
	prompt := run.Prompts[kind]

	switch kind {
	case entity.TaskSpeakingPart1:
		// the rest are stepped through while recording
		lines := splitQuestions(question)
		if len(lines) == 0 {
			return question
		}
		return numberedQuestion(lines, 0)

	case entity.TaskTOEFL6:
		if prompt == nil || len(prompt.StudentPosts) == 0 {
			return question
		}
		var b strings.Builder
		b.WriteString(question)
		for i, post := range prompt.StudentPosts {
			fmt.Fprintf(&b, "\n\nStudent %d: %s", i+1, post)
		}
		return b.String()

	case entity.TaskWritingTask1:
		if prompt != nil && prompt.DiagramDescription != "" {
			return question + "\n\n" + prompt.DiagramDescription
		}
		return question

	case entity.TaskSpeakingPart2:
		if prompt != nil && prompt.Notes != "" {
			return question + "\n\n" + prompt.Notes
		}
		return question

	default:
		return question
	}
}

func numberedQuestion(questions []string, i int) string {
	return fmt.Sprintf("Question %d of %d: %s", i+1, len(questions), questions[i])
}

func splitQuestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
