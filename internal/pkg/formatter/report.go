package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/futig/exam-practice/internal/pkg/htmltext"
)

const reportTitle = "Practice Test Results"

// report is the format-neutral layout shared by every formatter
type report struct {
	Title    string
	Meta     []string
	Sections []section
	Footer   []string
}

type section struct {
	Heading string
	Fields  []field
	Blocks  []block
}

type field struct {
	Name  string
	Value string
}

type block struct {
	Name string
	Text string
}

func buildReport(s *entity.RunSummary) *report {
	r := &report{Title: reportTitle}

	r.Meta = append(r.Meta,
		"Run: "+s.RunID,
		"Date: "+s.StartedAt.Format("Jan 2, 2006 15:04"),
		fmt.Sprintf("Tasks: %d selected, %d completed", len(s.Selected), len(s.Results)),
	)
	if s.RealTest {
		r.Meta = append(r.Meta, "Mode: real test conditions")
	}
	if !s.FinishedAt.IsZero() && !s.StartedAt.IsZero() {
		r.Meta = append(r.Meta, "Duration: "+s.FinishedAt.Sub(s.StartedAt).Round(time.Second).String())
	}

	for _, res := range s.Results {
		r.Sections = append(r.Sections, resultSection(&res))
	}

	for _, kind := range s.Skipped {
		r.Footer = append(r.Footer, kind.Label()+" was skipped: no lecture audio available.")
	}
	if s.Combined.Status != entity.CombinedNotRequested && s.Combined.Message != "" {
		r.Footer = append(r.Footer, "Overall evaluation: "+s.Combined.Message)
	}

	return r
}

func resultSection(res *entity.TaskResult) section {
	sec := section{Heading: res.Task.Label()}

	if res.Task.Script().Response == entity.ResponseSpeech {
		sec.Fields = append(sec.Fields, field{"Response time", fmt.Sprintf("%ds", res.SpeakingTime)})
	}
	sec.Fields = append(sec.Fields, field{"Word count", fmt.Sprintf("%d words", res.WordCount)})
	if res.Error != "" {
		sec.Fields = append(sec.Fields, field{"Error", res.Error})
	}

	sec.Blocks = append(sec.Blocks,
		block{"Question", strings.TrimSpace(res.Question)},
		block{"Your response", strings.TrimSpace(res.Transcript)},
	)
	switch {
	case res.Evaluation != "":
		sec.Blocks = append(sec.Blocks, block{"Evaluation", htmltext.PlainText(res.Evaluation)})
	case res.EvaluationError != "":
		sec.Blocks = append(sec.Blocks, block{"Evaluation", "Evaluation failed: " + res.EvaluationError})
	}

	return sec
}
