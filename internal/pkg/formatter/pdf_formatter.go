package formatter

import (
	"bytes"
	"os"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	pdfFontName = "DejaVuSans"

	// PDF_FONT_PATH overrides the lookup; otherwise a DejaVuSans.ttf next
	// to the binary is used when present.
	pdfFontEnv         = "PDF_FONT_PATH"
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func resolveFontPath() string {
	for _, path := range []string{os.Getenv(pdfFontEnv), pdfFontRuntimePath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (pf *PDFFormatter) Format(summary *entity.RunSummary) ([]byte, error) {
	r := buildReport(summary)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	fontName := "Arial"
	// Core fonts only cover cp1252; the translator keeps typographic quotes
	// from feedback readable.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, tr(r.Title))
	pdf.Ln(12)

	pdf.SetFont(fontName, "", 10)
	for _, line := range r.Meta {
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}

	for _, sec := range r.Sections {
		pdf.Ln(6)
		pdf.SetFont(fontName, "B", 15)
		pdf.Cell(0, 8, tr(sec.Heading))
		pdf.Ln(9)

		pdf.SetFont(fontName, "", 11)
		for _, f := range sec.Fields {
			pdf.Cell(0, 6, tr(f.Name+": "+f.Value))
			pdf.Ln(6)
		}
		for _, b := range sec.Blocks {
			pdf.Ln(2)
			pdf.SetFont(fontName, "B", 12)
			pdf.Cell(0, 6, tr(b.Name))
			pdf.Ln(7)
			pdf.SetFont(fontName, "", 11)
			_, lineHeight := pdf.GetFontSize()
			pdf.MultiCell(0, lineHeight*1.5, tr(b.Text), "", "", false)
		}
	}

	if len(r.Footer) > 0 {
		pdf.Ln(6)
		pdf.SetFont(fontName, "", 10)
		for _, line := range r.Footer {
			pdf.MultiCell(0, 5, tr(line), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
