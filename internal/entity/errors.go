package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	// Setup errors
	ErrValidation      = errors.New("run setup is invalid")
	ErrNoTaskSelected  = errors.New("select at least one task")
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrNoPromptStore   = errors.New("task kind has no prompt collection")
	ErrUnsupportedKind = errors.New("operation not supported for task kind")

	// Backend errors
	ErrBackendRejected     = errors.New("backend rejected request")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrEvaluationFailed    = errors.New("evaluation failed")
	ErrSynthesisFailed     = errors.New("audio synthesis failed")
	ErrNotImplemented      = errors.New("not implemented")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ValidationError blocks the transition from setup to running.
// Missing lists a human line per task kind without content.
type ValidationError struct {
	NoSelection  bool
	MissingKinds []TaskKind
	Missing      []string
}

func (e *ValidationError) Error() string {
	if e.NoSelection {
		return ErrNoTaskSelected.Error()
	}
	return fmt.Sprintf("missing content: %s", strings.Join(e.Missing, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add records a missing-content line for kind
func (e *ValidationError) Add(kind TaskKind, reason string) {
	e.MissingKinds = append(e.MissingKinds, kind)
	e.Missing = append(e.Missing, reason)
}

func (e *ValidationError) Empty() bool {
	return !e.NoSelection && len(e.Missing) == 0
}
