package exam

import (
	"context"
	"errors"
	"testing"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSelected(t *testing.T, h *harness, cfg entity.RunConfig) *entity.RunSummary {
	t.Helper()

	uc := h.usecase()
	ctx := context.Background()

	run, err := uc.Prepare(ctx, cfg)
	require.NoError(t, err)

	summary, err := uc.Run(ctx, run)
	require.NoError(t, err)
	return summary
}

func TestEnterSkipsPromptAudio(t *testing.T) {
	h := newHarness()
	h.catalog.lists[entity.TaskTOEFL2] = []entity.Prompt{{ID: 1, Reading: "announcement", AudioFile: "talk2.mp3"}}
	h.player.block = true
	h.controls.skips = 1

	summary := runSelected(t, h, entity.RunConfig{SelectedTasks: []entity.TaskKind{entity.TaskTOEFL2}})

	require.Len(t, summary.Results, 1)
	assert.False(t, summary.Results[0].Failed())
	assert.Equal(t, []string{"talk2.mp3"}, h.player.played)
	assert.Contains(t, h.display.notices, "Playing audio... press Enter to skip.")
	assert.Empty(t, h.display.alerts)
	assert.Equal(t, []int{50, 30, 60}, h.timer.lengths())
	assert.Equal(t, 1, h.controls.awaits)
}

func TestPromptAudioFailureWaitsForContinue(t *testing.T) {
	tests := []struct {
		name     string
		fetchErr error
		playErr  error
	}{
		{name: "fetch", fetchErr: errors.New("HTTP 404: audio not found")},
		{name: "playback", playErr: errors.New("no audio player found")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.catalog.lists[entity.TaskTOEFL3] = []entity.Prompt{{ID: 2, Reading: "concept", AudioFile: "lecture3.mp3"}}
			h.audio.err = tt.fetchErr
			h.player.err = tt.playErr

			summary := runSelected(t, h, entity.RunConfig{SelectedTasks: []entity.TaskKind{entity.TaskTOEFL3}})

			require.Len(t, h.display.alerts, 1)
			assert.Contains(t, h.display.alerts[0], "Could not play the audio")
			// the failure waits once, then the result view waits again
			assert.Equal(t, 2, h.controls.awaits)
			assert.Equal(t, []bool{false, false}, h.controls.allowed)
			assert.Equal(t, []int{50, 30, 60}, h.timer.lengths())
			require.Len(t, summary.Results, 1)
			assert.False(t, summary.Results[0].Failed())
		})
	}
}

func TestPromptAudioFailureAutoAdvancesInRealTest(t *testing.T) {
	h := newHarness()
	h.catalog.lists[entity.TaskTOEFL2] = []entity.Prompt{{ID: 1, Reading: "announcement", AudioFile: "talk2.mp3"}}
	h.player.err = errors.New("no audio player found")

	summary := runSelected(t, h, entity.RunConfig{
		SelectedTasks:      []entity.TaskKind{entity.TaskTOEFL2},
		RealTestConditions: true,
	})

	require.Len(t, h.display.alerts, 1)
	assert.Zero(t, h.controls.awaits)
	assert.Equal(t, []int{50, 30, 60}, h.timer.lengths())
	assert.Len(t, summary.Results, 1)
}

func TestLectureFailureGoesToPreparation(t *testing.T) {
	tests := []struct {
		name     string
		fetchErr error
		playErr  error
	}{
		{name: "fetch", fetchErr: errors.New("HTTP 404: audio not found")},
		{name: "playback", playErr: errors.New("decode failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.catalog.lists[entity.TaskTOEFL4] = []entity.Prompt{{ID: 3, AudioFile: "lecture4.mp3"}}
			h.audio.err = tt.fetchErr
			h.player.err = tt.playErr

			summary := runSelected(t, h, entity.RunConfig{SelectedTasks: []entity.TaskKind{entity.TaskTOEFL4}})

			assert.Contains(t, h.display.notices, "No audio available for this task. Proceeding to preparation phase...")
			assert.Empty(t, h.display.alerts)
			assert.Equal(t, []int{20, 60}, h.timer.lengths())
			assert.Empty(t, summary.Skipped)
			require.Len(t, summary.Results, 1)
			// only the result view waited for the candidate
			assert.Equal(t, 1, h.controls.awaits)
		})
	}
}

func TestLectureCannotBeSkipped(t *testing.T) {
	h := newHarness()
	h.catalog.lists[entity.TaskTOEFL4] = []entity.Prompt{{ID: 3, AudioFile: "lecture4.mp3"}}
	h.controls.skips = 1

	runSelected(t, h, entity.RunConfig{SelectedTasks: []entity.TaskKind{entity.TaskTOEFL4}})

	assert.Zero(t, h.controls.skipCalls)
	assert.Equal(t, []string{"lecture4.mp3"}, h.player.played)
	assert.Contains(t, h.display.notices, "Playing the lecture...")
	assert.NotContains(t, h.display.notices, "Playing audio... press Enter to skip.")
}

func TestSpeakingPartOneStepsThroughQuestions(t *testing.T) {
	h := newHarness()
	h.catalog.lists[entity.TaskSpeakingPart1] = []entity.Prompt{{ID: 1, Part: 1, Question: "Where do you live?\nDo you work or study?\nWhat do you do at weekends?"}}
	h.timer.blockAt = 300
	h.timer.blockTicks = 42
	// two presses show the next questions, the third stops recording
	h.controls.skips = 3

	summary := runSelected(t, h, entity.RunConfig{SelectedTasks: []entity.TaskKind{entity.TaskSpeakingPart1}})

	assert.Equal(t, []string{
		"Question 1 of 3: Where do you live?",
		"Question 2 of 3: Do you work or study?",
		"Question 3 of 3: What do you do at weekends?",
	}, h.display.questions)
	assert.Equal(t, 3, h.controls.skipCalls)
	assert.Equal(t, 1, h.recorder.stops)
	assert.Equal(t, 1, h.asr.calls)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, 42, summary.Results[0].SpeakingTime)
	assert.Contains(t, h.display.notices, "Press Enter to stop recording.")
}

func TestSpeakingPartOneRunsOutOfTimeMidQuestions(t *testing.T) {
	h := newHarness()
	h.catalog.lists[entity.TaskSpeakingPart1] = []entity.Prompt{{ID: 1, Part: 1, Question: "Where do you live?\nDo you work or study?"}}

	summary := runSelected(t, h, entity.RunConfig{SelectedTasks: []entity.TaskKind{entity.TaskSpeakingPart1}})

	assert.Equal(t, []string{"Question 1 of 2: Where do you live?"}, h.display.questions)
	assert.Equal(t, []int{300}, h.timer.lengths())
	assert.Equal(t, 300, summary.Results[0].SpeakingTime)
	assert.NotContains(t, h.display.notices, "Press Enter to stop recording.")
}

func TestSpeakingStopsEarly(t *testing.T) {
	tests := []struct {
		kind     entity.TaskKind
		prompt   entity.Prompt
		resp     int
		timers   []int
		question string
	}{
		{
			kind:     entity.TaskSpeakingPart2,
			prompt:   entity.Prompt{ID: 1, Part: 2, Topic: "A trip", Question: "Describe a trip"},
			resp:     120,
			timers:   []int{60, 120},
			question: "A trip\nDescribe a trip",
		},
		{
			kind:     entity.TaskSpeakingPart3,
			prompt:   entity.Prompt{ID: 2, Part: 3, Question: "Is travel good for young people?"},
			resp:     300,
			timers:   []int{300},
			question: "Is travel good for young people?",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			h := newHarness()
			h.catalog.lists[tt.kind] = []entity.Prompt{tt.prompt}
			h.timer.blockAt = tt.resp
			h.timer.blockTicks = 30
			h.controls.skips = 1

			summary := runSelected(t, h, entity.RunConfig{SelectedTasks: []entity.TaskKind{tt.kind}})

			assert.Equal(t, tt.timers, h.timer.lengths())
			assert.Equal(t, 1, h.controls.skipCalls)
			assert.Contains(t, h.display.notices, "Press Enter to stop recording.")
			require.Len(t, summary.Results, 1)
			assert.Equal(t, 30, summary.Results[0].SpeakingTime)
			assert.Equal(t, tt.question, summary.Results[0].Question)
			assert.Equal(t, 1, h.recorder.stops)
		})
	}
}

func TestSpeakingWithoutEarlyStopUsesFullTime(t *testing.T) {
	h := newHarness()
	h.controls.skips = 1

	summary := runSelected(t, h, entity.RunConfig{
		SelectedTasks: []entity.TaskKind{entity.TaskTOEFL1},
		Task1Prompts:  []string{"Describe your hometown."},
	})

	// the press went to the question audio, not the recording
	assert.Equal(t, 1, h.controls.skipCalls)
	assert.Equal(t, 45, summary.Results[0].SpeakingTime)
	assert.NotContains(t, h.display.notices, "Press Enter to stop recording.")
}
