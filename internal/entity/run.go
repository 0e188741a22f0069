package entity

import (
	"time"
)

// RunConfig is built once by the setup gate and never changes during a run
type RunConfig struct {
	SelectedTasks      []TaskKind
	APIKey             string
	RealTestConditions bool
	SelectedPromptIDs  map[TaskKind]int // absent kind means random prompt
	Task1Prompts       []string         // typed prompts for TOEFL task 1
}

// HasTask reports whether kind is part of the run
func (c *RunConfig) HasTask(kind TaskKind) bool {
	for _, k := range c.SelectedTasks {
		if k == kind {
			return true
		}
	}
	return false
}

// ShouldEvaluate reports whether per-task AI feedback is requested
func (c *RunConfig) ShouldEvaluate() bool {
	return c.APIKey != "" && !c.RealTestConditions
}

// TaskResult is appended once per completed task and never mutated afterwards
type TaskResult struct {
	Task            TaskKind `json:"task"`
	Question        string   `json:"question"`
	Transcript      string   `json:"transcript"`
	WordCount       int      `json:"word_count"`
	SpeakingTime    int      `json:"speaking_time"` // seconds of the response window
	Evaluation      string   `json:"evaluation,omitempty"`
	EvaluationError string   `json:"evaluation_error,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func (r *TaskResult) Failed() bool {
	return r.Error != ""
}

type CombinedStatus string

const (
	CombinedNotRequested   CombinedStatus = "NOT_REQUESTED"   // no API key
	CombinedNotImplemented CombinedStatus = "NOT_IMPLEMENTED" // backend has no combined evaluation yet
	CombinedDone           CombinedStatus = "DONE"
	CombinedFailed         CombinedStatus = "FAILED"
)

type CombinedOutcome struct {
	Status  CombinedStatus `json:"status"`
	Message string         `json:"message,omitempty"`
}

// RunSummary is the aggregate results view of a finished run
type RunSummary struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Selected   []TaskKind      `json:"selected"`
	Results    []TaskResult    `json:"results"`
	Skipped    []TaskKind      `json:"skipped,omitempty"` // tasks that consumed a slot without a result
	HasAPIKey  bool            `json:"has_api_key"`
	RealTest   bool            `json:"real_test"`
	Combined   CombinedOutcome `json:"combined"`
}
