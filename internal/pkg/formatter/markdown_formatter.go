package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/exam-practice/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(summary *entity.RunSummary) ([]byte, error) {
	r := buildReport(summary)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", r.Title)
	for _, line := range r.Meta {
		fmt.Fprintf(&buf, "- %s\n", line)
	}

	for _, sec := range r.Sections {
		fmt.Fprintf(&buf, "\n## %s\n\n", sec.Heading)
		for _, f := range sec.Fields {
			fmt.Fprintf(&buf, "**%s:** %s  \n", f.Name, f.Value)
		}
		for _, b := range sec.Blocks {
			fmt.Fprintf(&buf, "\n### %s\n\n%s\n", b.Name, b.Text)
		}
	}

	if len(r.Footer) > 0 {
		buf.WriteString("\n---\n\n")
		for _, line := range r.Footer {
			fmt.Fprintf(&buf, "%s\n\n", line)
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
