package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/pkg/htmltext"
	"github.com/futig/exam-practice/internal/usecase/exam"
	"golang.org/x/term"
)

var (
	_ exam.Display  = (*Console)(nil)
	_ exam.Controls = (*Console)(nil)
)

// Console is the terminal display region and controls of a run. Each
// step prints a fresh block; on a terminal the countdown redraws its own
// line in place.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	in      *Input
	isTTY   bool
	palette palette

	// countdown line currently drawn without a trailing newline
	openLine bool

	inputLost sync.Once
}

// New builds a console over in/out. Styling and in-place redraws are
// enabled only when out is a terminal. Keys typed ahead are dropped only
// when in is a terminal; piped answers are consumed in order.
func New(in io.Reader, out io.Writer) *Console {
	input := NewInput(in)
	if isTerminal(in) {
		input = NewInteractiveInput(in)
	}
	isTTY := isTerminal(out)
	return &Console{
		out:     out,
		in:      input,
		isTTY:   isTTY,
		palette: palette{color: isTTY},
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// next reads one answer. A broken input is reported once and then
// behaves like end of input so the run keeps going on its timers.
func (c *Console) next(ctx context.Context) (string, error) {
	line, err := c.in.Next(ctx)
	if err == nil || errors.Is(err, io.EOF) || ctx.Err() != nil {
		return line, err
	}
	c.inputLost.Do(func() {
		c.Alert(fmt.Sprintf(MsgInputLost, err))
	})
	return "", io.EOF
}

func (c *Console) println(text string) {
	if c.openLine {
		fmt.Fprintln(c.out)
		c.openLine = false
	}
	fmt.Fprintln(c.out, text)
}

func (c *Console) TaskIntro(position, total int, kind entity.TaskKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println("")
	c.println(c.palette.render(titleStyle, RenderTaskIntro(position, total, kind)))
	if kind.Script().Response == entity.ResponseWriting {
		c.println(c.palette.render(dimStyle, fmt.Sprintf("Writing, %s, at least %d words", FormatTime(kind.Script().RespSeconds), kind.Script().MinWords)))
	}
}

func (c *Console) Reading(title, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println(c.palette.render(labelStyle, title+" - Reading"))
	if c.palette.color {
		c.println(boxStyle.Render(text))
		return
	}
	c.println(text)
}

func (c *Console) Question(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println(c.palette.render(labelStyle, "Question:"))
	c.println(text)
}

// Countdown redraws the timer line on a terminal. Elsewhere it prints the
// start, every half minute and the end so logs stay readable.
func (c *Console) Countdown(stage exam.Stage, remaining, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := RenderCountdown(string(stage), remaining, total, c.palette)

	if c.isTTY {
		fmt.Fprint(c.out, "\r\033[K"+line)
		c.openLine = remaining > 0
		if remaining == 0 {
			fmt.Fprintln(c.out)
		}
		return
	}

	if remaining == total || remaining == 0 || remaining%30 == 0 {
		c.println(line)
	}
}

func (c *Console) Notice(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println(c.palette.render(dimStyle, message))
}

func (c *Console) Alert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println(c.palette.render(errorStyle, message))
}

func (c *Console) TaskResult(result *entity.TaskResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println("")
	c.println(c.palette.render(titleStyle, result.Task.Label()+" - Result"))
	c.writeResult(result)
}

func (c *Console) writeResult(result *entity.TaskResult) {
	if result.Failed() {
		c.println(c.palette.render(errorStyle, "Error: "+result.Error))
	}
	if result.Task.Script().Response == entity.ResponseSpeech {
		c.println(fmt.Sprintf("%s %ds", c.palette.render(labelStyle, "Response time:"), result.SpeakingTime))
	}
	c.println(fmt.Sprintf("%s %d", c.palette.render(labelStyle, "Word count:"), result.WordCount))
	c.println(c.palette.render(labelStyle, "Your response:"))
	c.println(result.Transcript)

	switch {
	case result.Evaluation != "":
		c.println(c.palette.render(labelStyle, "Evaluation:"))
		c.println(htmltext.PlainText(result.Evaluation))
	case result.EvaluationError != "":
		c.println(c.palette.render(warningStyle, "Evaluation failed: "+result.EvaluationError))
	}
}

func (c *Console) Summary(summary *entity.RunSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println("")
	c.println(c.palette.render(titleStyle, MsgResultsTitle))

	if len(summary.Results) == 0 {
		c.println(MsgNoResults)
	}
	for i := range summary.Results {
		res := &summary.Results[i]
		c.println("")
		c.println(c.palette.render(labelStyle, res.Task.Label()))
		if q := strings.TrimSpace(res.Question); q != "" {
			c.println(c.palette.render(dimStyle, q))
		}
		c.writeResult(res)
	}

	if len(summary.Skipped) > 0 {
		labels := make([]string, len(summary.Skipped))
		for i, k := range summary.Skipped {
			labels[i] = k.Label()
		}
		c.println("")
		c.println(c.palette.render(warningStyle, fmt.Sprintf(MsgSkipped, strings.Join(labels, ", "))))
	}

	switch summary.Combined.Status {
	case entity.CombinedDone:
		c.println("")
		c.println(htmltext.PlainText(summary.Combined.Message))
	case entity.CombinedNotImplemented, entity.CombinedFailed:
		c.println("")
		c.println(c.palette.render(dimStyle, summary.Combined.Message))
	}
}

// WaitSkip returns nil when the user presses Enter. At end of input it
// blocks until ctx ends so playback runs to completion.
func (c *Console) WaitSkip(ctx context.Context) error {
	c.in.Discard()
	_, err := c.next(ctx)
	if errors.Is(err, io.EOF) {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

// Compose collects typed lines until a lone "." line, end of input or
// the end of ctx (time up). Whatever was typed is returned.
func (c *Console) Compose(ctx context.Context) (string, error) {
	c.in.Discard()
	c.Notice(MsgCompose)

	var lines []string
	for {
		line, err := c.next(ctx)
		switch {
		case err == nil && strings.TrimSpace(line) == ".":
			return strings.Join(lines, "\n"), nil
		case err == nil:
			lines = append(lines, line)
		case errors.Is(err, io.EOF):
			return strings.Join(lines, "\n"), nil
		default:
			c.Notice(MsgTimeUp)
			return strings.Join(lines, "\n"), nil
		}
	}
}

// AwaitContinue blocks on the result view. End of input continues.
func (c *Console) AwaitContinue(ctx context.Context, allowSave bool) (exam.Action, error) {
	c.in.Discard()
	if allowSave {
		c.Notice(MsgContinueSave)
	} else {
		c.Notice(MsgContinue)
	}

	line, err := c.next(ctx)
	switch {
	case errors.Is(err, io.EOF):
		return exam.ActionContinue, nil
	case err != nil:
		return exam.ActionContinue, err
	}

	if allowSave && strings.EqualFold(strings.TrimSpace(line), "v") {
		return exam.ActionSaveVocabulary, nil
	}
	return exam.ActionContinue, nil
}

// Confirm asks a yes/no question; only "y" or "yes" confirm
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	c.in.Discard()
	c.Notice(question + " [y/N]")

	line, err := c.next(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Console) Success(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.println(c.palette.render(successStyle, message))
}

// Print writes plain lines outside a run (listings, ids)
func (c *Console) Print(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range lines {
		c.println(l)
	}
}
