package console

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/futig/exam-practice/internal/audio"
	"github.com/futig/exam-practice/internal/entity"
	pkghttp "github.com/futig/exam-practice/pkg/http"
)

const (
	MsgTaskIntro    = "Task %d of %d: %s"
	MsgCompose      = "Type your response. A line with a single \".\" submits it early."
	MsgContinue     = "Press Enter to continue."
	MsgContinueSave = "Press Enter to continue, or type \"v\" and Enter to save the vocabulary."
	MsgTimeUp       = "Time is up. Your response was submitted."
	MsgInputLost    = "Input is no longer readable (%v). Continuing on timers."

	MsgResultsTitle = "Practice Test Results"
	MsgNoResults    = "No task produced a result."
	MsgSkipped      = "Skipped (no lecture audio): %s"

	ErrGeneric            = "Something went wrong. Try again."
	ErrNetworkIssue       = "Could not reach the practice server. Check that it is running."
	ErrServiceUnavailable = "The practice server is unavailable. Try again in a minute."
	ErrTimeout            = "The request took too long. Try again."
	ErrMicrophone         = "Microphone access was denied. Allow access and try again."
	ErrNoMicrophone       = "No microphone is available. Set AUDIO_CAPTURE_COMMAND or enable mocks."
	ErrTranscription      = "Could not transcribe the recording."
	ErrInvalidAPIKey      = "The API key was rejected. Save a valid key with \"examprep config save-key\"."
	ErrInvalidFile        = "Unsupported file. Check the extension and size."
	ErrPromptMissing      = "That prompt does not exist. List the collection to see valid IDs."
)

// FormatTime renders seconds as m:ss
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// RenderProgressBar draws a ten-cell bar for the share of time elapsed
func RenderProgressBar(remaining, total int, p palette) string {
	if total <= 0 {
		return ""
	}

	elapsed := total - remaining
	filled := elapsed * 10 / total
	if filled > 10 {
		filled = 10
	}

	return "[" + p.render(progressFullStyle, strings.Repeat("▓", filled)) +
		p.render(progressEmptyStyle, strings.Repeat("░", 10-filled)) + "]"
}

// RenderCountdown is the one-line timer view of a stage
func RenderCountdown(stage string, remaining, total int, p palette) string {
	return fmt.Sprintf("%s %s %s", p.render(labelStyle, stage+":"), FormatTime(remaining), RenderProgressBar(remaining, total, p))
}

func RenderTaskIntro(position, total int, kind entity.TaskKind) string {
	return fmt.Sprintf(MsgTaskIntro, position, total, kind.Label())
}

// RenderPromptLine is one row of a prompt listing
func RenderPromptLine(p *entity.Prompt) string {
	line := fmt.Sprintf("#%-4d %s", p.ID, p.Preview(70))
	if p.Part > 0 {
		line = fmt.Sprintf("#%-4d [part %d] %s", p.ID, p.Part, p.Preview(60))
	}
	if p.AudioFile != "" {
		line += "  (audio: " + p.AudioFile + ")"
	}
	return line
}

// ClassifyError turns an error into a message fit for the candidate
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	switch {
	case errors.Is(err, audio.ErrPermissionDenied):
		return ErrMicrophone
	case errors.Is(err, audio.ErrDeviceUnavailable):
		return ErrNoMicrophone
	case errors.Is(err, entity.ErrPromptNotFound):
		return ErrPromptMissing
	case errors.Is(err, entity.ErrInvalidExtension), errors.Is(err, entity.ErrFileTooLarge), errors.Is(err, entity.ErrInvalidFile):
		return ErrInvalidFile + " (" + err.Error() + ")"
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrNoPromptStore), errors.Is(err, entity.ErrUnsupportedKind),
		errors.Is(err, entity.ErrBackendRejected):
		return err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 401 || strings.Contains(strings.ToLower(httpErr.Message), "api key"):
			return ErrInvalidAPIKey
		case httpErr.StatusCode >= 500:
			if errors.Is(err, entity.ErrTranscriptionFailed) {
				return ErrTranscription
			}
			return ErrServiceUnavailable
		default:
			return httpErr.Message
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return ErrNetworkIssue
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	var connErr *pkghttp.NetworkError
	if errors.As(err, &connErr) {
		return ErrNetworkIssue
	}

	if errors.Is(err, entity.ErrTranscriptionFailed) {
		return ErrTranscription
	}

	return ErrGeneric
}
