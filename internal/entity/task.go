package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskKind is a fixed exam task type. The set is closed: every kind has a Script.
type TaskKind string

const (
	// TOEFL complete-test tasks
	TaskTOEFL1 TaskKind = "toefl1" // Independent Speaking
	TaskTOEFL2 TaskKind = "toefl2" // Campus Announcement
	TaskTOEFL3 TaskKind = "toefl3" // Academic Concept
	TaskTOEFL4 TaskKind = "toefl4" // Lecture Summary
	TaskTOEFL5 TaskKind = "toefl5" // Integrated Writing
	TaskTOEFL6 TaskKind = "toefl6" // Academic Discussion

	// IELTS practice pages
	TaskSpeakingPart1 TaskKind = "speaking1"
	TaskSpeakingPart2 TaskKind = "speaking2"
	TaskSpeakingPart3 TaskKind = "speaking3"
	TaskWritingTask1  TaskKind = "writing1"
	TaskWritingTask2  TaskKind = "writing2"
)

// ResponseMode says how the candidate answers a task
type ResponseMode string

const (
	ResponseSpeech  ResponseMode = "speech"
	ResponseWriting ResponseMode = "writing"
)

// AudioSource says where the listening stage gets its audio from
type AudioSource string

const (
	AudioNone        AudioSource = ""
	AudioSynthesized AudioSource = "synthesized" // prompt text read aloud via /create_audio
	AudioPrompt      AudioSource = "prompt"      // audio file attached to the prompt
)

// Script is the fixed timing and stage sequence of a task kind.
// Zero durations mean the stage is absent.
type Script struct {
	Title        string
	ReadSeconds  int
	Audio        AudioSource
	AudioNeeded  bool // task is skipped when the prompt has no audio; the lecture cannot be skipped
	PrepSeconds  int
	RespSeconds  int
	Response     ResponseMode
	EarlyStop    bool // Enter ends the recording before the timer
	EvalTaskType string // task_type sent to /evaluate; empty for TOEFL (task_number is sent)
	MinWords     int
}

var scripts = map[TaskKind]Script{
	TaskTOEFL1: {Title: "Independent Speaking", Audio: AudioSynthesized, PrepSeconds: 15, RespSeconds: 45, Response: ResponseSpeech},
	TaskTOEFL2: {Title: "Campus Announcement", ReadSeconds: 50, Audio: AudioPrompt, PrepSeconds: 30, RespSeconds: 60, Response: ResponseSpeech},
	TaskTOEFL3: {Title: "Academic Concept", ReadSeconds: 50, Audio: AudioPrompt, PrepSeconds: 30, RespSeconds: 60, Response: ResponseSpeech},
	TaskTOEFL4: {Title: "Lecture Summary", Audio: AudioPrompt, AudioNeeded: true, PrepSeconds: 20, RespSeconds: 60, Response: ResponseSpeech},
	TaskTOEFL5: {Title: "Integrated Writing", ReadSeconds: 180, Audio: AudioPrompt, RespSeconds: 1200, Response: ResponseWriting, MinWords: 150},
	TaskTOEFL6: {Title: "Academic Discussion", RespSeconds: 600, Response: ResponseWriting, MinWords: 100},

	TaskSpeakingPart1: {Title: "IELTS Speaking Part 1", RespSeconds: 300, Response: ResponseSpeech, EarlyStop: true, EvalTaskType: "speaking"},
	TaskSpeakingPart2: {Title: "IELTS Speaking Part 2", PrepSeconds: 60, RespSeconds: 120, Response: ResponseSpeech, EarlyStop: true, EvalTaskType: "speaking"},
	TaskSpeakingPart3: {Title: "IELTS Speaking Part 3", RespSeconds: 300, Response: ResponseSpeech, EarlyStop: true, EvalTaskType: "speaking"},
	TaskWritingTask1:  {Title: "IELTS Writing Task 1", RespSeconds: 1200, Response: ResponseWriting, EvalTaskType: "writing_task1", MinWords: 150},
	TaskWritingTask2:  {Title: "IELTS Writing Task 2", RespSeconds: 2400, Response: ResponseWriting, EvalTaskType: "writing_task2", MinWords: 250},
}

// TOEFLTasks lists the complete-test tasks in exam order
var TOEFLTasks = []TaskKind{TaskTOEFL1, TaskTOEFL2, TaskTOEFL3, TaskTOEFL4, TaskTOEFL5, TaskTOEFL6}

// AllTasks lists every kind in canonical order
var AllTasks = []TaskKind{
	TaskTOEFL1, TaskTOEFL2, TaskTOEFL3, TaskTOEFL4, TaskTOEFL5, TaskTOEFL6,
	TaskSpeakingPart1, TaskSpeakingPart2, TaskSpeakingPart3, TaskWritingTask1, TaskWritingTask2,
}

func (k TaskKind) Validate() error {
	if _, ok := scripts[k]; !ok {
		return fmt.Errorf("unknown task kind: %s", k)
	}
	return nil
}

// Script returns the timing script of the kind
func (k TaskKind) Script() Script {
	return scripts[k]
}

func (k TaskKind) Title() string {
	return scripts[k].Title
}

// TOEFLNumber returns 1..6 for TOEFL tasks and 0 otherwise
func (k TaskKind) TOEFLNumber() int {
	for i, t := range TOEFLTasks {
		if t == k {
			return i + 1
		}
	}
	return 0
}

// SpeakingPart returns 1..3 for IELTS speaking kinds and 0 otherwise
func (k TaskKind) SpeakingPart() int {
	switch k {
	case TaskSpeakingPart1:
		return 1
	case TaskSpeakingPart2:
		return 2
	case TaskSpeakingPart3:
		return 3
	default:
		return 0
	}
}

// PromptStore returns the backend collection path segment, or "" when
// the kind has no remote prompts (TOEFL task 1 uses typed prompts).
func (k TaskKind) PromptStore() string {
	switch {
	case k == TaskTOEFL1:
		return ""
	case k.TOEFLNumber() > 0:
		return fmt.Sprintf("task/%d", k.TOEFLNumber())
	case k.SpeakingPart() > 0:
		return "speaking"
	case k == TaskWritingTask1:
		return "writing_task1"
	case k == TaskWritingTask2:
		return "writing_task2"
	default:
		return ""
	}
}

// Label is the human name used in validation reports and results
func (k TaskKind) Label() string {
	if n := k.TOEFLNumber(); n > 0 {
		return fmt.Sprintf("Task %d: %s", n, k.Title())
	}
	return k.Title()
}

// ParseTaskKind accepts kind names ("toefl2", "writing1") and bare TOEFL numbers ("2")
func ParseTaskKind(s string) (TaskKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(TOEFLTasks) {
			return "", fmt.Errorf("%w: TOEFL task number %d", ErrInvalidParameter, n)
		}
		return TOEFLTasks[n-1], nil
	}

	kind := TaskKind(s)
	if err := kind.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return kind, nil
}
