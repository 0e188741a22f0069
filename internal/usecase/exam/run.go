package exam

import (
	"time"

	"github.com/futig/exam-practice/internal/entity"
)

type State string

const (
	StateSetup   State = "SETUP"
	StateRunning State = "RUNNING"
	StateResults State = "RESULTS"
)

// Stage names a countdown inside a task
type Stage string

const (
	StageReading     Stage = "Reading Time"
	StagePreparation Stage = "Preparation Time"
	StageSpeaking    Stage = "Speaking Time"
	StageWriting     Stage = "Writing Time"
)

// Action is what the user chose on the result view
type Action int

const (
	ActionContinue Action = iota
	ActionSaveVocabulary
)

// Run is the state of one practice session. It is owned by the runner
// goroutine and never shared.
type Run struct {
	ID        string
	Config    entity.RunConfig
	State     State
	Index     int
	StartedAt time.Time

	Prompts     map[entity.TaskKind]*entity.Prompt
	Task1Prompt string

	Results []entity.TaskResult
	Skipped []entity.TaskKind
}

// Current returns the kind being run, or "" outside Running
func (r *Run) Current() entity.TaskKind {
	if r.State != StateRunning || r.Index >= len(r.Config.SelectedTasks) {
		return ""
	}
	return r.Config.SelectedTasks[r.Index]
}

func (r *Run) Total() int {
	return len(r.Config.SelectedTasks)
}
