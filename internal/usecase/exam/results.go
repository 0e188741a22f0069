package exam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/pkg/htmltext"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	combinedComingSoon = "Combined evaluation across all tasks is coming soon."
	cardDateLayout     = "Jan 2, 2006, 03:04 PM"
)

// complete evaluates a finished response, records it and applies the
// advance policy
func (uc *ExamUsecase) complete(ctx context.Context, run *Run, result entity.TaskResult) error {
	if run.Config.ShouldEvaluate() {
		uc.display.Notice("Getting AI evaluation...")

		feedback, err := uc.llm.Evaluate(ctx, evaluateRequest(run, &result))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ctxzap.Warn(ctx, "evaluation failed", zap.Error(err))
			result.EvaluationError = err.Error()
		} else {
			result.Evaluation = feedback
		}
	}

	run.Results = append(run.Results, result)

	ctxzap.Info(ctx, "task completed",
		zap.Int("word_count", result.WordCount),
		zap.Bool("evaluated", result.Evaluation != ""),
	)

	if run.Config.RealTestConditions {
		uc.display.Notice(fmt.Sprintf("%s completed! Moving to next task...", result.Task.Label()))
		return uc.pause(ctx, uc.timing.AdvanceDelay)
	}

	uc.display.TaskResult(&result)

	for {
		action, err := uc.controls.AwaitContinue(ctx, result.Evaluation != "")
		if err != nil {
			return err
		}
		if action != ActionSaveVocabulary {
			return nil
		}
		uc.saveVocabulary(ctx, &result)
	}
}

func evaluateRequest(run *Run, result *entity.TaskResult) *entity.EvaluateRequest {
	kind := result.Task
	script := kind.Script()

	req := &entity.EvaluateRequest{
		APIKey:    run.Config.APIKey,
		TaskType:  script.EvalTaskType,
		Question:  result.Question,
		WordCount: result.WordCount,
	}
	if script.Response == entity.ResponseWriting {
		req.Text = result.Transcript
	} else {
		req.Transcript = result.Transcript
	}

	prompt := run.Prompts[kind]
	switch {
	case kind.TOEFLNumber() > 0:
		req.TaskNumber = kind.TOEFLNumber()
	case kind.SpeakingPart() > 0:
		req.Part = kind.SpeakingPart()
		req.SpeakingTime = script.RespSeconds
	case kind == entity.TaskWritingTask1:
		req.DiagramDescription = "Visual information"
		if prompt != nil && prompt.DiagramDescription != "" {
			req.DiagramDescription = prompt.DiagramDescription
		}
	case kind == entity.TaskWritingTask2:
		if prompt != nil {
			req.EssayType = prompt.EssayType
		}
	}
	return req
}

// saveVocabulary turns the feedback into a flashcard. TOEFL cards keep
// only the vocabulary section; IELTS cards keep the whole feedback.
func (uc *ExamUsecase) saveVocabulary(ctx context.Context, result *entity.TaskResult) {
	kind := result.Task
	card := &entity.VocabularyCard{
		Date:     uc.now().Format(cardDateLayout),
		Content:  result.Evaluation,
		Question: result.Question,
	}

	switch {
	case kind.TOEFLNumber() > 0:
		section, ok := htmltext.VocabularySection(result.Evaluation)
		if !ok {
			uc.display.Notice("No vocabulary section found!")
			return
		}
		card.Title = fmt.Sprintf("Task %d - Vocabulary Review", kind.TOEFLNumber())
		card.Content = section
		card.Question = ""
	case kind.SpeakingPart() > 0:
		card.Title = fmt.Sprintf("Speaking Part %d", kind.SpeakingPart())
		if kind == entity.TaskSpeakingPart1 {
			card.Question = strings.Join(splitQuestions(result.Question), " / ")
		}
	default:
		card.Title = strings.TrimPrefix(kind.Title(), "IELTS ")
	}

	if err := uc.vocabulary.SaveCard(ctx, card); err != nil {
		ctxzap.Warn(ctx, "vocabulary card not saved", zap.Error(err))
		uc.display.Alert("Error saving vocabulary card: " + err.Error())
		return
	}
	uc.display.Notice("Vocabulary saved to flashcards!")
}

func (uc *ExamUsecase) summarize(ctx context.Context, run *Run) *entity.RunSummary {
	summary := &entity.RunSummary{
		RunID:      run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: uc.now(),
		Selected:   run.Config.SelectedTasks,
		Results:    run.Results,
		Skipped:    run.Skipped,
		HasAPIKey:  run.Config.APIKey != "",
		RealTest:   run.Config.RealTestConditions,
		Combined:   entity.CombinedOutcome{Status: entity.CombinedNotRequested},
	}

	if !summary.HasAPIKey {
		return summary
	}

	feedback, err := uc.llm.EvaluateCombined(ctx, &entity.CombinedEvaluationRequest{
		APIKey:  run.Config.APIKey,
		Results: run.Results,
	})
	switch {
	case err == nil:
		summary.Combined = entity.CombinedOutcome{Status: entity.CombinedDone, Message: feedback}
	case errors.Is(err, entity.ErrNotImplemented):
		summary.Combined = entity.CombinedOutcome{Status: entity.CombinedNotImplemented, Message: combinedComingSoon}
	default:
		ctxzap.Warn(ctx, "combined evaluation failed", zap.Error(err))
		summary.Combined = entity.CombinedOutcome{Status: entity.CombinedFailed, Message: err.Error()}
	}

	return summary
}
