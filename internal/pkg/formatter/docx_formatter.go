package formatter

import (
	"bytes"
	"strings"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(summary *entity.RunSummary) ([]byte, error) {
	r := buildReport(summary)

	doc := document.New()
	defer doc.Close()

	heading(doc, "Title", r.Title)
	for _, line := range r.Meta {
		doc.AddParagraph().AddRun().AddText(line)
	}

	for _, sec := range r.Sections {
		heading(doc, "Heading1", sec.Heading)
		for _, f := range sec.Fields {
			par := doc.AddParagraph()
			name := par.AddRun()
			name.Properties().SetBold(true)
			name.AddText(f.Name + ": ")
			par.AddRun().AddText(f.Value)
		}
		for _, b := range sec.Blocks {
			heading(doc, "Heading2", b.Name)
			multiline(doc, b.Text)
		}
	}

	if len(r.Footer) > 0 {
		doc.AddParagraph()
		for _, line := range r.Footer {
			run := doc.AddParagraph().AddRun()
			run.Properties().SetItalic(true)
			run.AddText(line)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(doc *document.Document, style, text string) {
	par := doc.AddParagraph()
	par.SetStyle(style)
	par.AddRun().AddText(text)
}

// multiline keeps line breaks, which AddText would collapse
func multiline(doc *document.Document, text string) {
	run := doc.AddParagraph().AddRun()
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			run.AddBreak()
		}
		run.AddText(line)
	}
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
