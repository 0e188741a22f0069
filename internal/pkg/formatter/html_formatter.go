package formatter

import (
	"bytes"
	"fmt"
	"html"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/yuin/goldmark"
)

const (
	htmlContentType   = "text/html; charset=utf-8"
	htmlFileExtension = ".html"
)

// HTMLFormatter converts the markdown report into a standalone page
type HTMLFormatter struct {
	md goldmark.Markdown
}

func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{md: goldmark.New()}
}

func (hf *HTMLFormatter) Format(summary *entity.RunSummary) ([]byte, error) {
	source, err := NewMarkdownFormatter().Format(summary)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := hf.md.Convert(source, &body); err != nil {
		return nil, fmt.Errorf("failed to convert report: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(reportTitle))
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")

	return buf.Bytes(), nil
}

func (hf *HTMLFormatter) ContentType() string {
	return htmlContentType
}

func (hf *HTMLFormatter) FileExtension() string {
	return htmlFileExtension
}
