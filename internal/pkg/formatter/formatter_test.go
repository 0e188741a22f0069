package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *entity.RunSummary {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &entity.RunSummary{
		RunID:      "7f1c",
		StartedAt:  start,
		FinishedAt: start.Add(6 * time.Minute),
		Selected:   []entity.TaskKind{entity.TaskTOEFL1, entity.TaskTOEFL2, entity.TaskTOEFL4},
		Results: []entity.TaskResult{
			{
				Task:         entity.TaskTOEFL1,
				Question:     "Describe your hometown.",
				Transcript:   "My hometown is a small city by the sea.",
				WordCount:    9,
				SpeakingTime: 45,
				Evaluation:   "<h4>Delivery</h4><p>Clear.</p>",
			},
			{
				Task:         entity.TaskTOEFL2,
				Question:     "The library will close.",
				Transcript:   "[Transcription failed]",
				SpeakingTime: 60,
				Error:        "transcription failed: HTTP 500",
			},
		},
		Skipped:   []entity.TaskKind{entity.TaskTOEFL4},
		HasAPIKey: true,
		Combined:  entity.CombinedOutcome{Status: entity.CombinedNotImplemented, Message: "Combined evaluation coming soon."},
	}
}

func TestMarkdownReport(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleSummary())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "# Practice Test Results\n"))
	assert.Contains(t, md, "## Task 1: Independent Speaking")
	assert.Contains(t, md, "**Response time:** 45s")
	assert.Contains(t, md, "**Word count:** 9 words")
	assert.Contains(t, md, "Delivery\n\nClear.")
	assert.Contains(t, md, "**Error:** transcription failed: HTTP 500")
	assert.Contains(t, md, "Task 4: Lecture Summary was skipped")
	assert.Contains(t, md, "Combined evaluation coming soon.")
	assert.Contains(t, md, "Duration: 6m0s")

	// results keep run order
	assert.Less(t, strings.Index(md, "Task 1:"), strings.Index(md, "Task 2:"))
}

func TestPDFReport(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleSummary())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestHTMLReport(t *testing.T) {
	out, err := NewHTMLFormatter().Format(sampleSummary())
	require.NoError(t, err)

	page := string(out)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Practice Test Results</title>")
	assert.Contains(t, page, "<h1>Practice Test Results</h1>")
	assert.Contains(t, page, "<h2>Task 1: Independent Speaking</h2>")
	assert.Contains(t, page, "<strong>Response time:</strong> 45s")
	assert.True(t, strings.HasSuffix(page, "</html>\n"))
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	md, err := f.Create(entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ".md", md.FileExtension())

	pdf, err := f.Create(entity.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType())

	page, err := f.Create(entity.FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, ".html", page.FileExtension())

	_, err = f.Create(entity.ResultFormat("odt"))
	assert.Error(t, err)
}
