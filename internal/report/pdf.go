package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer serializes documents with fpdf. Layout mirrors the report
// style the clinic already uses: bold title, bold section headings, body
// text with one line per source line.
type PDFRenderer struct{}

var _ Renderer = PDFRenderer{}

// NewPDFRenderer returns the default PDF serializer.
func NewPDFRenderer() PDFRenderer {
	return PDFRenderer{}
}

// Ext returns "pdf".
func (PDFRenderer) Ext() string { return "pdf" }

// Render produces the PDF bytes for a document.
func (PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, doc.Title, "", "L", false)
	pdf.Ln(4)

	for _, sec := range doc.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, sec.Heading, "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 11)
		for _, line := range sec.Lines {
			// MultiCell with an empty string still advances one row,
			// keeping blank source lines visible.
			pdf.MultiCell(0, 6, line, "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
