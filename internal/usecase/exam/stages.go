package exam

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// TranscriptionFailed is stored as the transcript of a failed task
const TranscriptionFailed = "[Transcription failed]"

// runTask walks one task through its script. It returns an error only
// when ctx is cancelled; every other failure is recorded and the run
// moves on.
func (uc *ExamUsecase) runTask(ctx context.Context, run *Run, kind entity.TaskKind) error {
	script := kind.Script()
	prompt := run.Prompts[kind]
	question := questionText(run, kind)

	uc.display.TaskIntro(run.Index+1, run.Total(), kind)
	ctxzap.Info(ctx, "task started")

	if script.AudioNeeded && (prompt == nil || prompt.AudioFile == "") {
		uc.display.Notice(fmt.Sprintf("No lecture audio available for %s. Skipping...", kind.Label()))
		run.Skipped = append(run.Skipped, kind)
		ctxzap.Warn(ctx, "task skipped: prompt has no audio")
		return uc.pause(ctx, uc.timing.NoticeDelay)
	}

	if script.ReadSeconds > 0 && prompt != nil {
		uc.display.Reading(kind.Title(), prompt.Reading)
		if err := uc.countdown(ctx, StageReading, script.ReadSeconds); err != nil {
			return err
		}
	}

	// Task 1 shows the question while it is read aloud; the others show
	// it once the listening part is over.
	if script.Audio == entity.AudioSynthesized {
		uc.display.Question(displayText(run, kind))
	}
	if err := uc.listen(ctx, run, kind, prompt, question); err != nil {
		return err
	}
	if script.Audio != entity.AudioSynthesized {
		uc.display.Question(displayText(run, kind))
	}

	if script.Response == entity.ResponseWriting {
		return uc.write(ctx, run, kind, question)
	}
	return uc.speak(ctx, run, kind, question)
}

func (uc *ExamUsecase) listen(ctx context.Context, run *Run, kind entity.TaskKind, prompt *entity.Prompt, question string) error {
	switch kind.Script().Audio {
	case entity.AudioSynthesized:
		clip, err := uc.tts.Synthesize(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// The question is on screen; go straight to preparation.
			ctxzap.Warn(ctx, "question audio unavailable", zap.Error(err))
			return nil
		}
		return uc.play(ctx, run, kind, clip)

	case entity.AudioPrompt:
		if prompt == nil || prompt.AudioFile == "" {
			uc.display.Notice("No audio file for this task. Continuing...")
			return uc.pause(ctx, uc.timing.NoticeDelay)
		}
		clip, err := uc.promptAudio.FetchAudio(ctx, kind, prompt.AudioFile)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return uc.audioFailed(ctx, run, kind, err)
		}
		return uc.play(ctx, run, kind, clip)

	default:
		return nil
	}
}

// play blocks until the clip ends or the user skips it. A required
// lecture is played to the end.
func (uc *ExamUsecase) play(ctx context.Context, run *Run, kind entity.TaskKind, clip *entity.AudioClip) error {
	script := kind.Script()
	skippable := !script.AudioNeeded

	playCtx, stop := context.WithCancel(ctx)
	defer stop()

	skipped := make(chan struct{})
	watcherDone := make(chan struct{})
	if skippable {
		uc.display.Notice("Playing audio... press Enter to skip.")
		go func() {
			defer close(watcherDone)
			if err := uc.controls.WaitSkip(playCtx); err == nil {
				close(skipped)
				stop()
			}
		}()
	} else {
		uc.display.Notice("Playing the lecture...")
		close(watcherDone)
	}

	err := uc.player.Play(playCtx, clip)
	stop()
	<-watcherDone

	if ctx.Err() != nil {
		return ctx.Err()
	}

	select {
	case <-skipped:
		ctxzap.Info(ctx, "audio skipped")
		return nil
	default:
	}

	if err != nil {
		if script.Audio == entity.AudioPrompt {
			return uc.audioFailed(ctx, run, kind, err)
		}
		ctxzap.Warn(ctx, "audio playback failed", zap.Error(err))
	}
	return nil
}

// audioFailed reports a playback problem and waits before going on. A
// failed lecture moves to preparation after a short notice.
func (uc *ExamUsecase) audioFailed(ctx context.Context, run *Run, kind entity.TaskKind, err error) error {
	ctxzap.Warn(ctx, "prompt audio failed", zap.Error(err))

	if kind.Script().AudioNeeded {
		uc.display.Notice("No audio available for this task. Proceeding to preparation phase...")
		return uc.pause(ctx, uc.timing.NoticeDelay)
	}

	uc.display.Alert("Could not play the audio: " + err.Error())
	if run.Config.RealTestConditions {
		return uc.pause(ctx, uc.timing.AdvanceDelay)
	}
	_, waitErr := uc.controls.AwaitContinue(ctx, false)
	return waitErr
}

func (uc *ExamUsecase) speak(ctx context.Context, run *Run, kind entity.TaskKind, question string) error {
	script := kind.Script()

	if script.PrepSeconds > 0 {
		if err := uc.countdown(ctx, StagePreparation, script.PrepSeconds); err != nil {
			return err
		}
	}

	session, err := uc.recorder.Start(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		uc.display.Alert("Could not access the microphone: " + err.Error())
		return uc.fail(ctx, run, kind, question, fmt.Errorf("start recording: %w", err))
	}

	spoken, timerErr := uc.record(ctx, run, kind)

	// The device is released even when the run is being cancelled.
	clip, stopErr := uc.recorder.Stop(context.WithoutCancel(ctx), session)
	if timerErr != nil {
		return timerErr
	}

	uc.display.Notice("Processing your response...")

	if stopErr != nil {
		return uc.fail(ctx, run, kind, question, stopErr)
	}

	transcription, err := uc.asr.Transcribe(ctx, clip)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return uc.fail(ctx, run, kind, question, err)
	}

	return uc.complete(ctx, run, entity.TaskResult{
		Task:         kind,
		Question:     question,
		Transcript:   transcription.Transcript,
		WordCount:    transcription.WordCount,
		SpeakingTime: spoken,
	})
}

// record runs the speaking countdown and returns the seconds spoken. On
// kinds that allow it Enter ends the recording early; Part 1 first steps
// through its questions, one Enter each.
func (uc *ExamUsecase) record(ctx context.Context, run *Run, kind entity.TaskKind) (int, error) {
	script := kind.Script()
	if !script.EarlyStop {
		return script.RespSeconds, uc.countdown(ctx, StageSpeaking, script.RespSeconds)
	}

	recCtx, stop := context.WithCancel(ctx)
	defer stop()

	var remaining atomic.Int64
	remaining.Store(int64(script.RespSeconds))

	stoppedEarly := make(chan struct{})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if err := uc.stepQuestions(recCtx, run, kind); err == nil {
			close(stoppedEarly)
			stop()
		}
	}()

	uc.display.Countdown(StageSpeaking, script.RespSeconds, script.RespSeconds)
	_ = uc.timer.Run(recCtx, script.RespSeconds, func(left int) {
		remaining.Store(int64(left))
		uc.display.Countdown(StageSpeaking, left, script.RespSeconds)
	})
	stop()
	<-watcherDone

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	spoken := script.RespSeconds - int(remaining.Load())
	select {
	case <-stoppedEarly:
		ctxzap.Info(ctx, "recording stopped early", zap.Int("seconds", spoken))
	default:
	}
	return spoken, nil
}

// stepQuestions shows the remaining Part 1 questions one Enter at a
// time. It returns nil once the candidate asks to stop recording.
func (uc *ExamUsecase) stepQuestions(ctx context.Context, run *Run, kind entity.TaskKind) error {
	if kind == entity.TaskSpeakingPart1 {
		questions := splitQuestions(questionText(run, kind))
		for i := 1; i < len(questions); i++ {
			uc.display.Notice("Press Enter for the next question.")
			if err := uc.controls.WaitSkip(ctx); err != nil {
				return err
			}
			uc.display.Question(numberedQuestion(questions, i))
		}
	}

	uc.display.Notice("Press Enter to stop recording.")
	return uc.controls.WaitSkip(ctx)
}

func (uc *ExamUsecase) write(ctx context.Context, run *Run, kind entity.TaskKind, question string) error {
	script := kind.Script()

	writeCtx, stop := context.WithCancel(ctx)
	defer stop()

	typed := make(chan string, 1)
	go func() {
		text, _ := uc.controls.Compose(writeCtx)
		typed <- text
		// Submitting early ends the countdown.
		stop()
	}()

	_ = uc.countdown(writeCtx, StageWriting, script.RespSeconds)
	stop()
	text := <-typed

	if ctx.Err() != nil {
		return ctx.Err()
	}

	words := countWords(text)
	if script.MinWords > 0 && words < script.MinWords {
		uc.display.Notice(fmt.Sprintf("Your response has %d words; at least %d are expected.", words, script.MinWords))
	}

	return uc.complete(ctx, run, entity.TaskResult{
		Task:       kind,
		Question:   question,
		Transcript: text,
		WordCount:  words,
	})
}

// fail records a task that produced no usable response and advances
func (uc *ExamUsecase) fail(ctx context.Context, run *Run, kind entity.TaskKind, question string, err error) error {
	ctxzap.Warn(ctx, "task failed", zap.Error(err))

	run.Results = append(run.Results, entity.TaskResult{
		Task:         kind,
		Question:     question,
		Transcript:   TranscriptionFailed,
		WordCount:    0,
		SpeakingTime: kind.Script().RespSeconds,
		Error:        err.Error(),
	})

	uc.display.Notice(fmt.Sprintf("%s completed (transcription failed). Moving to next task...", kind.Label()))
	return uc.pause(ctx, uc.timing.AdvanceDelay)
}
