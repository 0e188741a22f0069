package validator

import (
	"testing"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePrompt(t *testing.T) {
	v := NewValidator(config.UploadConfig{})
	audio := "lecture.mp3"
	blank := " "

	tests := []struct {
		name   string
		kind   entity.TaskKind
		fields entity.PromptFields
		err    error
	}{
		{"reading required", entity.TaskTOEFL2, entity.PromptFields{Notes: "n"}, entity.ErrMissingField},
		{"reading ok", entity.TaskTOEFL3, entity.PromptFields{Reading: "passage"}, nil},
		{"lecture needs audio", entity.TaskTOEFL4, entity.PromptFields{AudioFile: &blank}, entity.ErrMissingField},
		{"lecture ok", entity.TaskTOEFL4, entity.PromptFields{AudioFile: &audio}, nil},
		{"discussion", entity.TaskTOEFL6, entity.PromptFields{Question: "q"}, entity.ErrMissingField},
		{"speaking question", entity.TaskSpeakingPart1, entity.PromptFields{Part: 1, Question: "q"}, nil},
		{"speaking part mismatch", entity.TaskSpeakingPart1, entity.PromptFields{Part: 3, Question: "q"}, entity.ErrInvalidParameter},
		{"typed task 1", entity.TaskTOEFL1, entity.PromptFields{Question: "q"}, entity.ErrNoPromptStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePrompt(tt.kind, &tt.fields)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestValidateUploads(t *testing.T) {
	v := NewValidator(config.UploadConfig{MaxAudioFileSize: 100, MaxDiagramFileSize: 10})

	assert.NoError(t, v.ValidateAudioUpload("lecture.MP3", 50))
	assert.ErrorIs(t, v.ValidateAudioUpload("lecture.txt", 50), entity.ErrInvalidExtension)
	assert.ErrorIs(t, v.ValidateAudioUpload("lecture.mp3", 101), entity.ErrFileTooLarge)
	assert.ErrorIs(t, v.ValidateAudioUpload("lecture.mp3", 0), entity.ErrInvalidFile)

	assert.NoError(t, v.ValidateDiagramUpload("chart.png", 10))
	assert.ErrorIs(t, v.ValidateDiagramUpload("chart.mp3", 1), entity.ErrInvalidExtension)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_lecture_1.mp3", SanitizeFilename("/tmp/uploads/my lecture (1).mp3"))
	assert.Equal(t, "chart.png", SanitizeFilename("  chart.png "))
}

func TestTask1Lines(t *testing.T) {
	assert.Equal(t,
		[]string{"Describe your hometown.", "Do you prefer mornings?"},
		Task1Lines("Describe your hometown.\n\n   \n  Do you prefer mornings?  \n"),
	)
	assert.Empty(t, Task1Lines(" \n\t\n"))
}

func TestParsePromptSelection(t *testing.T) {
	got, err := ParsePromptSelection([]string{"2=5", "speaking2=14"})
	require.NoError(t, err)
	assert.Equal(t, map[entity.TaskKind]int{entity.TaskTOEFL2: 5, entity.TaskSpeakingPart2: 14}, got)

	_, err = ParsePromptSelection([]string{"2:5"})
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)

	_, err = ParsePromptSelection([]string{"1=3"})
	assert.ErrorIs(t, err, entity.ErrNoPromptStore)

	_, err = ParsePromptSelection([]string{"3=abc"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestParseTaskList(t *testing.T) {
	got, err := ParseTaskList([]string{"4,1", "2,toefl4"})
	require.NoError(t, err)
	assert.Equal(t, []entity.TaskKind{entity.TaskTOEFL1, entity.TaskTOEFL2, entity.TaskTOEFL4}, got)

	_, err = ParseTaskList([]string{"7"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}
