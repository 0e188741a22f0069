package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/futig/exam-practice/internal/audio"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/usecase/exam"
	pkghttp "github.com/futig/exam-practice/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out), out
}

func TestComposeStopsAtDot(t *testing.T) {
	c, _ := newTestConsole("Cars pollute cities.\nBan them.\n.\nv\n")
	ctx := context.Background()

	text, err := c.Compose(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cars pollute cities.\nBan them.", text)

	action, err := c.AwaitContinue(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, exam.ActionSaveVocabulary, action)
}

func TestComposeReturnsTypedTextWhenTimeIsUp(t *testing.T) {
	c, out := newTestConsole("")
	c.in = NewInput(blockingReader{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	text, err := c.Compose(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Contains(t, out.String(), MsgTimeUp)
}

func TestAwaitContinue(t *testing.T) {
	c, _ := newTestConsole("v\n\n")
	ctx := context.Background()

	// "v" is ignored when there is nothing to save
	action, err := c.AwaitContinue(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, exam.ActionContinue, action)

	action, err = c.AwaitContinue(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, exam.ActionContinue, action)

	action, err = c.AwaitContinue(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, exam.ActionContinue, action, "end of input continues")
}

func TestWaitSkip(t *testing.T) {
	c, _ := newTestConsole("\n")
	require.NoError(t, c.WaitSkip(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.WaitSkip(ctx), context.DeadlineExceeded)
}

func TestWaitSkipIgnoresKeysTypedBeforeTheWait(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c, _ := newTestConsole("")
	c.in = NewInteractiveInput(pr)

	// Enter pressed twice during a countdown
	_, err := pw.Write([]byte("\n\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(c.in.lines) == 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.WaitSkip(ctx), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() {
		done <- c.WaitSkip(context.Background())
	}()
	time.Sleep(30 * time.Millisecond)
	_, err = pw.Write([]byte("\n"))
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("a key pressed during the wait did not skip")
	}
}

func TestAwaitContinueIgnoresStaleSaveRequest(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c, _ := newTestConsole("")
	c.in = NewInteractiveInput(pr)

	_, err := pw.Write([]byte("v\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(c.in.lines) == 1 }, time.Second, 5*time.Millisecond)

	type answer struct {
		action exam.Action
		err    error
	}
	done := make(chan answer, 1)
	go func() {
		action, err := c.AwaitContinue(context.Background(), true)
		done <- answer{action, err}
	}()
	time.Sleep(30 * time.Millisecond)
	_, err = pw.Write([]byte("\n"))
	require.NoError(t, err)

	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.Equal(t, exam.ActionContinue, got.action)
	case <-time.After(time.Second):
		t.Fatal("AwaitContinue did not return")
	}
}

func TestScriptedInputKeepsLinesTypedAhead(t *testing.T) {
	c, _ := newTestConsole("\ny\n")
	c.in.Discard()

	require.NoError(t, c.WaitSkip(context.Background()))
	ok, err := c.Confirm(context.Background(), "Delete?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInputReportsReadError(t *testing.T) {
	in := NewInput(failingReader{})
	_, err := in.Next(context.Background())
	assert.ErrorIs(t, err, errDeviceLost)

	in = NewInput(strings.NewReader(strings.Repeat("a", maxLineSize+1)))
	_, err = in.Next(context.Background())
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestBrokenInputIsReportedOnceAndActsAsEnd(t *testing.T) {
	c, out := newTestConsole("")
	c.in = NewInput(failingReader{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.WaitSkip(ctx), context.DeadlineExceeded)

	action, err := c.AwaitContinue(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, exam.ActionContinue, action)

	text, err := c.Compose(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)

	assert.Equal(t, 1, strings.Count(out.String(), "Input is no longer readable"))
	assert.Contains(t, out.String(), errDeviceLost.Error())
}

func TestCountdownWithoutTerminal(t *testing.T) {
	c, out := newTestConsole("")

	c.Countdown(exam.StageSpeaking, 45, 45)
	for remaining := 44; remaining >= 0; remaining-- {
		c.Countdown(exam.StageSpeaking, remaining, 45)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Speaking Time: 0:45 [░░░░░░░░░░]", lines[0])
	assert.Equal(t, "Speaking Time: 0:30 [▓▓▓░░░░░░░]", lines[1])
	assert.Equal(t, "Speaking Time: 0:00 [▓▓▓▓▓▓▓▓▓▓]", lines[2])
}

func TestSummary(t *testing.T) {
	c, out := newTestConsole("")

	c.Summary(&entity.RunSummary{
		Results: []entity.TaskResult{
			{Task: entity.TaskTOEFL1, Question: "Describe your hometown.", Transcript: "It is quiet.", WordCount: 3, SpeakingTime: 45, Evaluation: "<h4>Delivery</h4><p>Clear.</p>"},
			{Task: entity.TaskTOEFL2, Transcript: "[Transcription failed]", SpeakingTime: 60, Error: "transcription failed: HTTP 500"},
		},
		Skipped:  []entity.TaskKind{entity.TaskTOEFL4},
		Combined: entity.CombinedOutcome{Status: entity.CombinedNotImplemented, Message: "Combined evaluation across all tasks is coming soon."},
	})

	text := out.String()
	assert.Contains(t, text, MsgResultsTitle)
	assert.Contains(t, text, "Task 1: Independent Speaking")
	assert.Contains(t, text, "Word count: 3")
	assert.Contains(t, text, "Delivery\n\nClear.")
	assert.Contains(t, text, "Error: transcription failed: HTTP 500")
	assert.Contains(t, text, "Skipped (no lecture audio): Task 4: Lecture Summary")
	assert.Contains(t, text, "coming soon")
	assert.Less(t, strings.Index(text, "Task 1:"), strings.Index(text, "Task 2:"))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "2:05", FormatTime(125))
	assert.Equal(t, "0:00", FormatTime(-3))
	assert.Equal(t, "40:00", FormatTime(2400))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"microphone", fmt.Errorf("start recording: %w", audio.ErrPermissionDenied), ErrMicrophone},
		{"no device", audio.ErrDeviceUnavailable, ErrNoMicrophone},
		{"connection", &pkghttp.NetworkError{Err: errors.New("dial tcp: refused")}, ErrNetworkIssue},
		{"server", fmt.Errorf("list: %w", &pkghttp.HTTPError{StatusCode: 503, Message: "down"}), ErrServiceUnavailable},
		{"api key", &pkghttp.HTTPError{StatusCode: 400, Message: "Invalid API key"}, ErrInvalidAPIKey},
		{"client", &pkghttp.HTTPError{StatusCode: 400, Message: "Missing question"}, "Missing question"},
		{"prompt", entity.ErrPromptNotFound, ErrPromptMissing},
		{"deadline", context.DeadlineExceeded, ErrTimeout},
		{"other", errors.New("boom"), ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

// blockingReader never delivers a line
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

var errDeviceLost = errors.New("input device lost")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errDeviceLost
}
